package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"voxpage/internal/httpserver/deps"
	"voxpage/internal/logger"
)

type trackEventRequest struct {
	Name string `json:"name"`
}

// TrackEvent increments the counter for a recognized event name.
func TrackEvent(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req trackEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body.")
			return
		}

		name := strings.TrimSpace(req.Name)
		if name == "" || !d.Events.Contains(name) {
			writeError(w, http.StatusBadRequest, "Unrecognized event name.")
			return
		}

		metric, err := d.Metrics.Track(name)
		if err != nil {
			d.Logger.Error("failed to track event",
				logger.String("event", name),
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to track event.")
			return
		}
		writeJSON(w, http.StatusOK, metric)
	}
}

// ListEvents returns tracked metrics, optionally filtered by
// ?names=a,b,c.
func ListEvents(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var names []string
		if raw := strings.TrimSpace(r.URL.Query().Get("names")); raw != "" {
			for _, name := range strings.Split(raw, ",") {
				if trimmed := strings.TrimSpace(name); trimmed != "" {
					names = append(names, trimmed)
				}
			}
		}

		writeJSON(w, http.StatusOK, d.Metrics.List(names))
	}
}
