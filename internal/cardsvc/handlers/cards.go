package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	log "github.com/sirupsen/logrus"

	"github.com/teklemt/cardscan-service/internal/cardsvc/models"
	"github.com/teklemt/cardscan-service/internal/cardsvc/service"
	"github.com/teklemt/cardscan-service/internal/cardsvc/store"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// storeError translates errors from the card store into the HTTP
// taxonomy. Upstream detail is logged, never echoed to the caller.
func storeError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "business card not found")
	case errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidWebInfo):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Errorf("%s: %v", op, err)
		writeError(w, http.StatusBadGateway, "storage service unavailable")
	}
}

func cardID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var in models.CardInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id, err := h.cards.Create(r.Context(), in)
	if err != nil {
		storeError(w, err, "create card")
		return
	}

	h.sendWelcome(r.Context(), id, in)

	writeJSON(w, http.StatusCreated, apiResponse{
		Success: true,
		Message: "business card created successfully",
		Data:    map[string]interface{}{"id": id},
	})
}

type listResponse struct {
	Success    bool          `json:"success"`
	Data       []models.Card `json:"data"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
}

func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page := 1
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "page must be an integer >= 1")
			return
		}
		page = n
	}

	pageSize := defaultPageSize
	if v := q.Get("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxPageSize {
			writeError(w, http.StatusBadRequest, "page_size must be an integer between 1 and 100")
			return
		}
		pageSize = n
	}

	cards, total, err := h.cards.List(r.Context(), page, pageSize, q.Get("search"))
	if err != nil {
		storeError(w, err, "list cards")
		return
	}

	totalPages := (total + pageSize - 1) / pageSize

	writeJSON(w, http.StatusOK, listResponse{
		Success:    true,
		Data:       cards,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}

func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	id, err := cardID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid card id")
		return
	}

	card, err := h.cards.GetByID(r.Context(), id)
	if err != nil {
		storeError(w, err, "get card")
		return
	}

	writeJSON(w, http.StatusOK, card)
}

func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	id, err := cardID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid card id")
		return
	}

	var in models.CardInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.cards.Update(r.Context(), id, in); err != nil {
		storeError(w, err, "update card")
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{
		Success: true,
		Message: "business card updated successfully",
		Data:    map[string]interface{}{"id": id},
	})
}

func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := cardID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid card id")
		return
	}

	if err := h.cards.Delete(r.Context(), id); err != nil {
		storeError(w, err, "delete card")
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{
		Success: true,
		Message: "business card deleted successfully",
		Data:    map[string]interface{}{"id": id},
	})
}

type cardStatusResponse struct {
	CardID    int64  `json:"card_id"`
	EmailSent bool   `json:"email_sent"`
	Status    string `json:"status"`
}

// CardStatus reports whether a welcome email has been dispatched for a
// card yet.
func (h *Handler) CardStatus(w http.ResponseWriter, r *http.Request) {
	id, err := cardID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid card id")
		return
	}

	if _, err := h.cards.GetByID(r.Context(), id); err != nil {
		storeError(w, err, "card status")
		return
	}

	n, err := h.emailLog.CountForCard(r.Context(), id)
	if err != nil {
		storeError(w, err, "card status")
		return
	}

	status := "processing"
	if n > 0 {
		status = "complete"
	}

	writeJSON(w, http.StatusOK, cardStatusResponse{
		CardID:    id,
		EmailSent: n > 0,
		Status:    status,
	})
}
