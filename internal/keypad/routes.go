package keypad

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts all keypad endpoints onto the given router
// under the /calculator prefix.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/calculator", func(r chi.Router) {
		r.Post("/sessions", h.CreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Delete("/", h.DeleteSession)
			r.Post("/keys", h.PressKeys)
		})
		r.Post("/evaluate", h.Evaluate)
		r.Post("/replay", h.Replay)
	})
}
