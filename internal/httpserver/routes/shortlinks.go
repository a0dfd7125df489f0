package routes

import (
	"github.com/go-chi/chi/v5"

	"voxpage/internal/httpserver/deps"
	"voxpage/internal/httpserver/handlers"
)

func init() { Register(registerShortLinks) }

func registerShortLinks(r chi.Router, d deps.Deps) {
	r.Route("/api/short-links", func(r chi.Router) {
		r.Post("/", handlers.CreateShortLink(d))
		r.Get("/", handlers.ListShortLinks(d))
		r.Get("/{code}", handlers.GetShortLink(d))
		r.Delete("/", handlers.ClearShortLinks(d))
	})

	// Public redirect path, kept short on purpose.
	r.Get("/s/{code}", handlers.Redirect(d))
}
