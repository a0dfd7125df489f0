package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"voxpage/internal/domain"
	"voxpage/internal/httpserver/deps"
)

type createJobRequest struct {
	Markdown string `json:"markdown"`
}

type jobResponse struct {
	ID        string           `json:"id"`
	Status    domain.JobStatus `json:"status"`
	Error     *string          `json:"error"`
	AudioURL  *string          `json:"audio_url"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func toJobResponse(job domain.Job) jobResponse {
	resp := jobResponse{
		ID:        job.ID,
		Status:    job.Status,
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
	}
	if job.Error != "" {
		errMsg := job.Error
		resp.Error = &errMsg
	}
	if job.AudioFile != "" {
		audioURL := "/api/tts/audio/" + job.ID
		resp.AudioURL = &audioURL
	}
	return resp
}

// CreateTTSJob accepts markdown and submits an asynchronous synthesis job.
func CreateTTSJob(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createJobRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body.")
			return
		}
		if strings.TrimSpace(req.Markdown) == "" {
			writeError(w, http.StatusBadRequest, "Markdown content is required.")
			return
		}

		job := d.Jobs.Submit(req.Markdown)
		writeJSON(w, http.StatusCreated, toJobResponse(job))
	}
}

// GetTTSJob returns the current job snapshot.
func GetTTSJob(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		job, ok := d.Jobs.Get(id)
		if !ok {
			writeError(w, http.StatusNotFound, "TTS job not found.")
			return
		}
		writeJSON(w, http.StatusOK, toJobResponse(job))
	}
}

// GetTTSAudio streams the synthesized audio of a completed job.
func GetTTSAudio(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		path, ok := d.Jobs.AudioPath(id)
		if !ok {
			writeError(w, http.StatusNotFound, "TTS audio not available.")
			return
		}
		if _, err := os.Stat(path); err != nil {
			writeError(w, http.StatusNotFound, "TTS audio not available.")
			return
		}

		w.Header().Set("Content-Type", "audio/wav")
		w.Header().Set("Content-Disposition", `attachment; filename="`+id+`.wav"`)
		http.ServeFile(w, r, path)
	}
}
