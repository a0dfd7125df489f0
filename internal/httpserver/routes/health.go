package routes

import (
	"github.com/go-chi/chi/v5"

	"voxpage/internal/httpserver/deps"
	"voxpage/internal/httpserver/handlers"
)

func init() { Register(registerHealth) }

func registerHealth(r chi.Router, d deps.Deps) {
	r.Get("/health", handlers.Health(d))
}
