package routes

import (
	"github.com/go-chi/chi/v5"

	"voxpage/internal/httpserver/deps"
	"voxpage/internal/httpserver/handlers"
)

func init() { Register(registerEvents) }

func registerEvents(r chi.Router, d deps.Deps) {
	r.Route("/api/events", func(r chi.Router) {
		r.Post("/track", handlers.TrackEvent(d))
		r.Get("/", handlers.ListEvents(d))
	})
}
