package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"voxpage/internal/httpserver/deps"
	"voxpage/internal/httpserver/routes"
	"voxpage/internal/jobs"
	"voxpage/internal/logger"
	"voxpage/internal/metrics"
	"voxpage/internal/shortener"
	"voxpage/internal/sources/events"
	"voxpage/internal/speech"
)

type stubEngine struct{}

func (stubEngine) Synthesize(ctx context.Context, text, outputPath string) error {
	return os.WriteFile(outputPath, []byte("RIFF-fake-wav"), 0o600)
}

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	log := logger.New("error", false)
	dir := t.TempDir()

	provider := speech.NewProvider(func() (speech.Engine, error) {
		return stubEngine{}, nil
	})
	registry, err := jobs.NewRegistry(provider, filepath.Join(dir, "audio"), 2, log)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	d := deps.Deps{
		Logger:    log,
		StartTime: time.Now(),
		TimeNow:   time.Now,
		Jobs:      registry,
		Links:     shortener.NewService(filepath.Join(dir, "links.json"), nil, log),
		Metrics:   metrics.NewService(filepath.Join(dir, "metrics.json"), log),
		Events:    events.Default(),
		BaseURL:   "http://short.test",
	}

	r := chi.NewRouter()
	routes.RegisterAll(r, d)
	return r
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func detail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	decodeBody(t, rec, &body)
	return body.Detail
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Status string `json:"status"`
	}
	decodeBody(t, rec, &body)
	if body.Status != "ok" {
		t.Errorf("status field = %q, want ok", body.Status)
	}
}

func TestCreateTTSJobValidation(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/api/tts/jobs", `{"markdown": "   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := detail(t, rec); got != "Markdown content is required." {
		t.Errorf("detail = %q", got)
	}

	rec = do(t, r, http.MethodPost, "/api/tts/jobs", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for malformed body", rec.Code)
	}
}

func TestTTSJobLifecycleOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/api/tts/jobs", `{"markdown": "# Hello"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decodeBody(t, rec, &created)
	if created.ID == "" || created.Status != "queued" {
		t.Fatalf("created job = %+v", created)
	}

	var final struct {
		Status   string  `json:"status"`
		AudioURL *string `json:"audio_url"`
	}
	deadline := time.Now().Add(5 * time.Second)
	for {
		rec = do(t, r, http.MethodGet, "/api/tts/jobs/"+created.ID, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		decodeBody(t, rec, &final)
		if final.Status == "done" || final.Status == "error" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("job stuck in status %q", final.Status)
		}
		time.Sleep(5 * time.Millisecond)
	}

	if final.Status != "done" {
		t.Fatalf("status = %q, want done", final.Status)
	}
	if final.AudioURL == nil || *final.AudioURL != "/api/tts/audio/"+created.ID {
		t.Fatalf("audio_url = %v", final.AudioURL)
	}

	rec = do(t, r, http.MethodGet, *final.AudioURL, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("audio status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "audio/wav" {
		t.Errorf("Content-Type = %q, want audio/wav", ct)
	}
}

func TestTTSJobNotFound(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodGet, "/api/tts/jobs/deadbeef", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if got := detail(t, rec); got != "TTS job not found." {
		t.Errorf("detail = %q", got)
	}

	rec = do(t, r, http.MethodGet, "/api/tts/audio/deadbeef", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("audio status = %d, want 404", rec.Code)
	}
	if got := detail(t, rec); got != "TTS audio not available." {
		t.Errorf("detail = %q", got)
	}
}

func TestCreateShortLink(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/api/short-links/", `{"long_url": "example.com", "custom_code": "abcd"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var link struct {
		Code     string `json:"code"`
		LongURL  string `json:"long_url"`
		ShortURL string `json:"short_url"`
	}
	decodeBody(t, rec, &link)
	if link.Code != "abcd" || link.LongURL != "https://example.com" {
		t.Errorf("link = %+v", link)
	}
	if link.ShortURL != "http://short.test/s/abcd" {
		t.Errorf("short_url = %q", link.ShortURL)
	}

	rec = do(t, r, http.MethodPost, "/api/short-links/", `{"long_url": "other.com", "custom_code": "abcd"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if got := detail(t, rec); got != "That short code is already in use." {
		t.Errorf("detail = %q", got)
	}

	rec = do(t, r, http.MethodPost, "/api/short-links/", `{"long_url": ""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := detail(t, rec); got != "URL is required." {
		t.Errorf("detail = %q", got)
	}
}

func TestListShortLinksLimitValidation(t *testing.T) {
	r := newTestRouter(t)

	for _, raw := range []string{"0", "101", "-3", "abc"} {
		rec := do(t, r, http.MethodGet, "/api/short-links/?limit="+raw, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("limit=%s status = %d, want 400", raw, rec.Code)
			continue
		}
		if got := detail(t, rec); got != "limit must be between 1 and 100." {
			t.Errorf("limit=%s detail = %q", raw, got)
		}
	}

	rec := do(t, r, http.MethodGet, "/api/short-links/?limit=5", "")
	if rec.Code != http.StatusOK {
		t.Errorf("limit=5 status = %d, want 200", rec.Code)
	}
}

func TestGetAndClearShortLinks(t *testing.T) {
	r := newTestRouter(t)

	if rec := do(t, r, http.MethodGet, "/api/short-links/nope", ""); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	do(t, r, http.MethodPost, "/api/short-links/", `{"long_url": "example.com", "custom_code": "abcd"}`)
	if rec := do(t, r, http.MethodGet, "/api/short-links/abcd", ""); rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	if rec := do(t, r, http.MethodDelete, "/api/short-links/", ""); rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", rec.Code)
	}
	if rec := do(t, r, http.MethodGet, "/api/short-links/abcd", ""); rec.Code != http.StatusNotFound {
		t.Errorf("status after clear = %d, want 404", rec.Code)
	}
}

func TestRedirect(t *testing.T) {
	r := newTestRouter(t)

	do(t, r, http.MethodPost, "/api/short-links/", `{"long_url": "https://example.com/page", "custom_code": "abcd"}`)

	rec := do(t, r, http.MethodGet, "/s/abcd", "")
	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "https://example.com/page" {
		t.Errorf("Location = %q", loc)
	}

	var link struct {
		ClickCount int `json:"click_count"`
	}
	rec = do(t, r, http.MethodGet, "/api/short-links/abcd", "")
	decodeBody(t, rec, &link)
	if link.ClickCount != 1 {
		t.Errorf("click_count = %d, want 1", link.ClickCount)
	}

	if rec := do(t, r, http.MethodGet, "/s/missing", ""); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestTrackEvent(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/api/events/track", `{"name": "made_up"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := detail(t, rec); got != "Unrecognized event name." {
		t.Errorf("detail = %q", got)
	}

	rec = do(t, r, http.MethodPost, "/api/events/track", `{"name": "page_view"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var metric struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	decodeBody(t, rec, &metric)
	if metric.Name != "page_view" || metric.Count != 1 {
		t.Errorf("metric = %+v", metric)
	}
}

func TestListEventsFiltered(t *testing.T) {
	r := newTestRouter(t)

	do(t, r, http.MethodPost, "/api/events/track", `{"name": "page_view"}`)
	do(t, r, http.MethodPost, "/api/events/track", `{"name": "tts_job_created"}`)

	rec := do(t, r, http.MethodGet, "/api/events/?names=page_view", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var listed []struct {
		Name string `json:"name"`
	}
	decodeBody(t, rec, &listed)
	if len(listed) != 1 || listed[0].Name != "page_view" {
		t.Errorf("filtered list = %+v", listed)
	}

	rec = do(t, r, http.MethodGet, "/api/events/", "")
	listed = nil
	decodeBody(t, rec, &listed)
	if len(listed) != 2 {
		t.Errorf("full list has %d entries, want 2", len(listed))
	}
}
