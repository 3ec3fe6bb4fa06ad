package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/mindwellhq/mindwell-backend/internal/handlers"
)

// Setup registers the API routes. Fixed paths (/stats, /today) are
// registered before the {id} routes so they never match as identifiers.
func Setup(r chi.Router, auth *handlers.AuthHandler, mood *handlers.MoodHandler, journal *handlers.JournalHandler, chat *handlers.ChatHandler) {
	// Account lifecycle
	r.Post("/api/users", auth.Register)
	r.Post("/api/users/auth", auth.Login)
	r.Post("/api/users/logout", auth.Logout)
	r.Get("/api/users/profile", auth.GetProfile)
	r.Put("/api/users/profile", auth.UpdateProfile)

	// Chat relay
	r.Post("/api/chat", chat.Relay)

	// Mood tracking
	r.Get("/api/mood/stats", mood.Stats)
	r.Get("/api/mood", mood.List)
	r.Post("/api/mood", mood.Create)
	r.Get("/api/mood/{id}", mood.GetByID)
	r.Put("/api/mood/{id}", mood.Update)
	r.Delete("/api/mood/{id}", mood.Delete)

	// Journaling
	r.Get("/api/journal/today", journal.Today)
	r.Get("/api/journal", journal.List)
	r.Post("/api/journal", journal.Create)
	r.Get("/api/journal/{id}", journal.GetByID)
	r.Put("/api/journal/{id}", journal.Update)
	r.Delete("/api/journal/{id}", journal.Delete)
}
