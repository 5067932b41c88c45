package services

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewHTTPRouter wires the chat endpoints behind the shared middleware chain.
func NewHTTPRouter(chat *ChatService) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger)
	r.Use(Recovery)

	r.Get("/api/health", chat.Health)
	r.Post("/api/chat", chat.Chat)

	return r
}
