package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SHANMUK026/career-match-ai-hub-sub001/internal/application"
)

// Handler is the HTTP adapter entrypoint for signup use-cases.
// Keeping only application dependency here preserves clean adapter boundaries.
type Handler struct {
	service *application.Service
	ready   func(ctx context.Context) error
}

// NewHandler constructs an HTTP handler bound to the application service.
// The ready probe reports whether downstream dependencies are reachable; a
// nil probe means always ready.
func NewHandler(service *application.Service, ready func(ctx context.Context) error) *Handler {
	return &Handler{service: service, ready: ready}
}

// NewRouter registers the signup HTTP routes and middleware stack.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)

	r.Route("/signup/v1", func(r chi.Router) {
		r.Post("/", handler.startSignup)
		r.Get("/{signup_id}", handler.getSignup)
		r.Post("/{signup_id}/account", handler.submitAccount)
		r.Post("/{signup_id}/profile", handler.submitProfile)
	})

	return r
}
