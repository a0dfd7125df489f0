package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"voxpage/internal/httpserver/deps"
	"voxpage/internal/logger"
)

// Redirect resolves a short code and redirects to its destination,
// counting the click.
func Redirect(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")

		link, found, err := d.Links.Resolve(r.Context(), code)
		if err != nil {
			d.Logger.Error("failed to resolve short link",
				logger.String("code", code),
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to resolve short link.")
			return
		}
		if !found {
			writeError(w, http.StatusNotFound, "Short link not found.")
			return
		}

		http.Redirect(w, r, link.LongURL, http.StatusTemporaryRedirect)
	}
}
