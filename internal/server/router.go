package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"keypad-calculator/internal/handlers"
	"keypad-calculator/internal/keypad"
	"keypad-calculator/internal/observability"
)

// NewRouter wires middleware, operational endpoints and the keypad API.
func NewRouter(keys *keypad.Handler) http.Handler {

	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler())

	keys.RegisterRoutes(r)

	return r
}
