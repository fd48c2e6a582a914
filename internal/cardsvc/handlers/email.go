package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/teklemt/cardscan-service/internal/cardsvc/mailer"
	"github.com/teklemt/cardscan-service/internal/cardsvc/models"
)

// sendWelcome dispatches the welcome email for a freshly saved card and
// records it in the email log, which is what flips the card's status
// probe to "complete". A delivery failure never fails the save; it is
// logged and the probe keeps reporting "processing".
func (h *Handler) sendWelcome(ctx context.Context, id int64, in models.CardInput) {
	if h.mailer == nil {
		return
	}
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return
	}

	res := h.mailer.SendWelcome(ctx, email, strings.TrimSpace(in.Name), strings.TrimSpace(in.Company), id)
	if !res.Success {
		log.Warnf("welcome email for card %d not sent: %s", id, res.Message)
	}
}

type bulkEmailResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Results mailer.BatchResult `json:"results"`
}

// SendBulkEmails dispatches the welcome template to every stored card
// that has an email address, one recipient at a time.
func (h *Handler) SendBulkEmails(w http.ResponseWriter, r *http.Request) {
	if h.mailer == nil {
		writeError(w, http.StatusServiceUnavailable, "email service not available")
		return
	}

	contacts, err := h.cards.Recipients(r.Context())
	if err != nil {
		storeError(w, err, "bulk email recipients")
		return
	}

	if len(contacts) == 0 {
		writeJSON(w, http.StatusOK, bulkEmailResponse{
			Success: true,
			Message: "no contacts with emails found",
			Results: mailer.BatchResult{Details: []mailer.BatchDetail{}},
		})
		return
	}

	results := h.mailer.SendBatch(r.Context(), contacts)

	writeJSON(w, http.StatusOK, bulkEmailResponse{
		Success: true,
		Message: fmt.Sprintf("sent %d/%d emails", results.Sent, results.Total),
		Results: results,
	})
}
