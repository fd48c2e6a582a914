package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/teklemt/cardscan-service/internal/cardsvc/mailer"
	"github.com/teklemt/cardscan-service/internal/cardsvc/models"
)

// The handlers depend only on these narrow interfaces; the real
// network-backed clients are swapped for in-memory fakes in tests.

type CardStore interface {
	Create(ctx context.Context, in models.CardInput) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Card, error)
	Update(ctx context.Context, id int64, in models.CardInput) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, page, pageSize int, search string) ([]models.Card, int, error)
	Recipients(ctx context.Context) ([]models.Contact, error)
}

type Extractor interface {
	Extract(ctx context.Context, data []byte) (models.CardFields, error)
	Configured() bool
}

type Mailer interface {
	SendWelcome(ctx context.Context, toEmail, name, company string, cardID int64) mailer.SendResult
	SendBatch(ctx context.Context, contacts []models.Contact) mailer.BatchResult
}

type WebInfoStore interface {
	Create(ctx context.Context, w models.WebInfo) (int64, error)
}

type EmailLogReader interface {
	CountForCard(ctx context.Context, cardID int64) (int, error)
}

type Handler struct {
	cards     CardStore
	extractor Extractor
	mailer    Mailer
	webInfo   WebInfoStore
	emailLog  EmailLogReader
	apiKey    string
}

func NewHandler(cards CardStore, extractor Extractor, m Mailer, webInfo WebInfoStore, emailLog EmailLogReader, apiKey string) *Handler {
	return &Handler{
		cards:     cards,
		extractor: extractor,
		mailer:    m,
		webInfo:   webInfo,
		emailLog:  emailLog,
		apiKey:    apiKey,
	}
}

type apiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errResponse{Success: false, Error: msg})
}
