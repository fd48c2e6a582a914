package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/teklemt/cardscan-service/internal/cardsvc/models"
)

var ErrInvalidWebInfo = errors.New("web_info must be a valid JSON document")

type WebInfoStore interface {
	Create(ctx context.Context, w models.WebInfo) (int64, error)
}

type WebInfoService struct {
	store WebInfoStore
}

func NewWebInfoService(store WebInfoStore) *WebInfoService {
	return &WebInfoService{store: store}
}

func (s *WebInfoService) Create(ctx context.Context, w models.WebInfo) (int64, error) {
	w.Name = strings.TrimSpace(w.Name)
	w.Company = strings.TrimSpace(w.Company)

	if w.Name == "" {
		return 0, ErrNameRequired
	}
	if len(w.Info) == 0 || !json.Valid(w.Info) {
		return 0, ErrInvalidWebInfo
	}

	return s.store.Create(ctx, w)
}
