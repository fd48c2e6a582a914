package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teklemt/cardscan-service/internal/cardsvc/models"
)

type EmailLogStore struct {
	db *pgxpool.Pool
}

func NewEmailLogStore(db *pgxpool.Pool) *EmailLogStore {
	return &EmailLogStore{db: db}
}

func (s *EmailLogStore) Create(ctx context.Context, l models.EmailLog) (int64, error) {
	var id int64

	query := `
        INSERT INTO email_log (business_card_id, email_address, message_id, email_type)
        VALUES ($1, $2, $3, $4)
        RETURNING id;
    `

	err := s.db.QueryRow(ctx, query, l.CardID, l.EmailAddress, l.MessageID, l.EmailType).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("could not create email log: %v", err)
	}

	return id, nil
}

// CountForCard reports how many emails were dispatched for a card.
func (s *EmailLogStore) CountForCard(ctx context.Context, cardID int64) (int, error) {
	var n int
	err := s.db.QueryRow(ctx,
		`SELECT count(*) FROM email_log WHERE business_card_id = $1`, cardID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("could not count email log: %v", err)
	}
	return n, nil
}
