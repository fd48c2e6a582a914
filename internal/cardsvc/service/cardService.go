package service

import (
	"context"
	"errors"
	"strings"

	"github.com/teklemt/cardscan-service/internal/cardsvc/models"
)

var (
	ErrNameRequired = errors.New("name is required")
	ErrInvalidEmail = errors.New("invalid email format")
)

// CardStore is the persistence surface CardService needs. Satisfied by
// store.CardStore; tests substitute an in-memory implementation.
type CardStore interface {
	Create(ctx context.Context, in models.CardInput) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Card, error)
	Update(ctx context.Context, id int64, in models.CardInput) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, page, pageSize int, search string) ([]models.Card, int, error)
	Recipients(ctx context.Context) ([]models.Contact, error)
}

type CardService struct {
	store CardStore
}

func NewCardService(store CardStore) *CardService {
	return &CardService{store: store}
}

func (s *CardService) Create(ctx context.Context, in models.CardInput) (int64, error) {
	in, err := validateInput(in)
	if err != nil {
		return 0, err
	}
	return s.store.Create(ctx, in)
}

func (s *CardService) GetByID(ctx context.Context, id int64) (*models.Card, error) {
	return s.store.GetByID(ctx, id)
}

func (s *CardService) Update(ctx context.Context, id int64, in models.CardInput) error {
	in, err := validateInput(in)
	if err != nil {
		return err
	}
	return s.store.Update(ctx, id, in)
}

func (s *CardService) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

func (s *CardService) List(ctx context.Context, page, pageSize int, search string) ([]models.Card, int, error) {
	return s.store.List(ctx, page, pageSize, search)
}

func (s *CardService) Recipients(ctx context.Context) ([]models.Contact, error) {
	return s.store.Recipients(ctx)
}

func validateInput(in models.CardInput) (models.CardInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Company = strings.TrimSpace(in.Company)

	if in.Name == "" {
		return in, ErrNameRequired
	}
	if in.Email != "" && !validEmail(in.Email) {
		return in, ErrInvalidEmail
	}

	return in, nil
}

// validEmail checks the standard shape: something@domain with a dot in
// the domain part.
func validEmail(s string) bool {
	at := strings.LastIndex(s, "@")
	return at > 0 && at < len(s)-1 && strings.Contains(s[at+1:], ".")
}
