package routes

import (
	"github.com/go-chi/chi/v5"

	"voxpage/internal/httpserver/deps"
	"voxpage/internal/httpserver/handlers"
)

func init() { Register(registerTTS) }

func registerTTS(r chi.Router, d deps.Deps) {
	r.Route("/api/tts", func(r chi.Router) {
		r.Post("/jobs", handlers.CreateTTSJob(d))
		r.Get("/jobs/{id}", handlers.GetTTSJob(d))
		r.Get("/audio/{id}", handlers.GetTTSAudio(d))
	})
}
