package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teklemt/cardscan-service/internal/cardsvc/models"
)

type WebInfoStore struct {
	db *pgxpool.Pool
}

func NewWebInfoStore(db *pgxpool.Pool) *WebInfoStore {
	return &WebInfoStore{db: db}
}

func (s *WebInfoStore) Create(ctx context.Context, w models.WebInfo) (int64, error) {
	var id int64

	query := `
        INSERT INTO web_scraped_data (name, company, web_info)
        VALUES ($1, $2, $3)
        RETURNING id;
    `

	err := s.db.QueryRow(ctx, query, w.Name, w.Company, w.Info).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("could not create web info: %v", err)
	}

	return id, nil
}
