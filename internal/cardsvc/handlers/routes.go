package handlers

import (
	"github.com/go-chi/chi"
)

func (h *Handler) SetRoutes(r *chi.Mux) {
	// public routes
	r.Get("/health", h.Health)

	r.Route("/v1", func(r chi.Router) {

		// Secure routes
		r.Group(func(r chi.Router) {
			r.Use(h.RequireAPIKey)

			r.Post("/ocr/extract", h.Extract)
			r.Post("/ocr/extract-and-save", h.ExtractAndSave)

			r.Post("/cards", h.CreateCard)
			r.Get("/cards", h.ListCards)
			r.Get("/cards/{id}", h.GetCard)
			r.Put("/cards/{id}", h.UpdateCard)
			r.Delete("/cards/{id}", h.DeleteCard)
			r.Get("/cards/{id}/status", h.CardStatus)

			r.Post("/webinfo", h.SaveWebInfo)
			r.Post("/emails/bulk", h.SendBulkEmails)
		})
	})
}
