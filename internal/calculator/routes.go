package calculator

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts all calculator endpoints onto the given router
// under the /calculator prefix.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/calculator", func(r chi.Router) {
		r.Post("/evaluate", h.Evaluate)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.CreateSession)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetSession)
				r.Delete("/", h.DeleteSession)
				r.Post("/keys", h.PressKeys)
				r.Post("/undo", h.Undo)

				r.Get("/variables", h.ListVariables)
				r.Put("/variables/{name}", h.PutVariable)
				r.Post("/variables/{name}/recall", h.RecallVariable)
			})
		})
	})
}
