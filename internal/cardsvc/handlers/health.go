package handlers

import (
	"net/http"
)

const version = "1.0.0"

type healthResponse struct {
	Status           string `json:"status"`
	StoreConnected   bool   `json:"store_connected"`
	VisionConfigured bool   `json:"vision_configured"`
	MailConfigured   bool   `json:"mail_configured"`
	Version          string `json:"version"`
}

// Health is the liveness and configuration probe. No authentication.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:           "healthy",
		StoreConnected:   h.cards != nil,
		VisionConfigured: h.extractor != nil && h.extractor.Configured(),
		MailConfigured:   h.mailer != nil,
		Version:          version,
	})
}
