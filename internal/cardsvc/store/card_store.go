package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teklemt/cardscan-service/internal/cardsvc/models"
)

// ErrNotFound is returned when an operation targets an id that does not
// exist. Repeated deletes of the same id keep returning it.
var ErrNotFound = errors.New("record not found")

type CardStore struct {
	db *pgxpool.Pool
}

func NewCardStore(db *pgxpool.Pool) *CardStore {
	return &CardStore{db: db}
}

func (s *CardStore) Create(ctx context.Context, in models.CardInput) (int64, error) {
	var id int64

	query := `
        INSERT INTO business_cards (name, email, phone, company)
        VALUES ($1, $2, $3, $4)
        RETURNING id;
    `

	err := s.db.QueryRow(ctx, query, in.Name, in.Email, in.Phone, in.Company).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("could not create card: %v", err)
	}

	return id, nil
}

func (s *CardStore) GetByID(ctx context.Context, id int64) (*models.Card, error) {
	row := s.db.QueryRow(ctx, `
        SELECT id, name, email, phone, company, created_at
        FROM business_cards
        WHERE id = $1
    `, id)

	c := &models.Card{}
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Company,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("could not get card: %v", err)
	}

	return c, nil
}

// Update replaces all four editable fields. The id and created_at
// columns are never touched.
func (s *CardStore) Update(ctx context.Context, id int64, in models.CardInput) error {
	tag, err := s.db.Exec(ctx, `
        UPDATE business_cards
        SET name = $2, email = $3, phone = $4, company = $5
        WHERE id = $1
    `, id, in.Name, in.Email, in.Phone, in.Company)
	if err != nil {
		return fmt.Errorf("could not update card: %v", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *CardStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM business_cards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("could not delete card: %v", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// List returns one page of cards ordered most-recent-first, plus the
// total count of the filtered set. search is a case-insensitive
// substring match across name, email and company.
func (s *CardStore) List(ctx context.Context, page, pageSize int, search string) ([]models.Card, int, error) {
	pattern := "%" + search + "%"

	var total int
	err := s.db.QueryRow(ctx, `
        SELECT count(*)
        FROM business_cards
        WHERE $1 = '' OR name ILIKE $2 OR email ILIKE $2 OR company ILIKE $2
    `, search, pattern).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("could not count cards: %v", err)
	}

	offset := (page - 1) * pageSize
	rows, err := s.db.Query(ctx, `
        SELECT id, name, email, phone, company, created_at
        FROM business_cards
        WHERE $1 = '' OR name ILIKE $2 OR email ILIKE $2 OR company ILIKE $2
        ORDER BY created_at DESC, id DESC
        LIMIT $3 OFFSET $4
    `, search, pattern, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("could not list cards: %v", err)
	}
	defer rows.Close()

	cards := []models.Card{}
	for rows.Next() {
		var c models.Card
		err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.CreatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("could not scan card row: %v", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("could not read card rows: %v", err)
	}

	return cards, total, nil
}

// Recipients returns every card that carries an email address, for the
// bulk welcome-email operation.
func (s *CardStore) Recipients(ctx context.Context) ([]models.Contact, error) {
	rows, err := s.db.Query(ctx, `
        SELECT name, email, company
        FROM business_cards
        WHERE email <> ''
        ORDER BY created_at DESC, id DESC
    `)
	if err != nil {
		return nil, fmt.Errorf("could not list recipients: %v", err)
	}
	defer rows.Close()

	contacts := []models.Contact{}
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.Name, &c.Email, &c.Company); err != nil {
			return nil, fmt.Errorf("could not scan recipient row: %v", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not read recipient rows: %v", err)
	}

	return contacts, nil
}
