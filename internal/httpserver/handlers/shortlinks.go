package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"voxpage/internal/domain"
	"voxpage/internal/httpserver/deps"
	"voxpage/internal/logger"
	"voxpage/internal/shortener"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type createLinkRequest struct {
	LongURL    string `json:"long_url"`
	CustomCode string `json:"custom_code"`
}

type linkResponse struct {
	Code           string     `json:"code"`
	LongURL        string     `json:"long_url"`
	ShortURL       string     `json:"short_url"`
	ClickCount     int        `json:"click_count"`
	CreatedAt      time.Time  `json:"created_at"`
	LastAccessedAt *time.Time `json:"last_accessed_at"`
}

func toLinkResponse(link domain.ShortLink, base string) linkResponse {
	return linkResponse{
		Code:           link.Code,
		LongURL:        link.LongURL,
		ShortURL:       base + "/s/" + link.Code,
		ClickCount:     link.ClickCount,
		CreatedAt:      link.CreatedAt,
		LastAccessedAt: link.LastAccessedAt,
	}
}

// shortURLBase prefers the configured base URL and otherwise derives one
// from the request.
func shortURLBase(d deps.Deps, r *http.Request) string {
	if d.BaseURL != "" {
		return d.BaseURL
	}
	scheme := "http"
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	} else if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// CreateShortLink stores a new code -> URL mapping.
func CreateShortLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createLinkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body.")
			return
		}

		link, err := d.Links.Create(r.Context(), req.LongURL, strings.TrimSpace(req.CustomCode))
		if err != nil {
			switch {
			case errors.Is(err, shortener.ErrCodeTaken):
				writeError(w, http.StatusConflict, err.Error())
			case errors.Is(err, shortener.ErrURLRequired),
				errors.Is(err, shortener.ErrUnsupportedScheme),
				errors.Is(err, shortener.ErrMissingHost),
				errors.Is(err, shortener.ErrInvalidCode):
				writeError(w, http.StatusBadRequest, err.Error())
			default:
				d.Logger.Error("failed to create short link", logger.Error(err))
				writeError(w, http.StatusInternalServerError, "Failed to create short link.")
			}
			return
		}

		writeJSON(w, http.StatusCreated, toLinkResponse(link, shortURLBase(d, r)))
	}
}

// ListShortLinks returns links newest first, bounded by ?limit (1..100).
func ListShortLinks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultListLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 || parsed > maxListLimit {
				writeError(w, http.StatusBadRequest, "limit must be between 1 and 100.")
				return
			}
			limit = parsed
		}

		base := shortURLBase(d, r)
		links := d.Links.List(limit)
		resp := make([]linkResponse, 0, len(links))
		for _, link := range links {
			resp = append(resp, toLinkResponse(link, base))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// GetShortLink returns a single link without counting a click.
func GetShortLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")

		link, ok := d.Links.Get(code)
		if !ok {
			writeError(w, http.StatusNotFound, "Short link not found.")
			return
		}
		writeJSON(w, http.StatusOK, toLinkResponse(link, shortURLBase(d, r)))
	}
}

// ClearShortLinks empties the whole store.
func ClearShortLinks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Links.Clear(r.Context()); err != nil {
			d.Logger.Error("failed to clear short links", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to clear short links.")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
