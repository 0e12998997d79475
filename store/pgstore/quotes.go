package pgstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"terracotta/domain"
)

type quoteRow struct {
	ID            string         `db:"id"`
	CustomerID    sql.NullString `db:"customer_id"`
	CustomerName  string         `db:"customer_name"`
	CustomerEmail string         `db:"customer_email"`
	Phone         string         `db:"phone"`
	Address       string         `db:"address"`
	LineItems     []byte         `db:"line_items"`
	Margin        float64        `db:"margin"`
	Total         float64        `db:"total"`
	TotalCost     float64        `db:"total_cost"`
	AllowOverride bool           `db:"allow_override"`
	Status        string         `db:"status"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (r quoteRow) toDomain() (domain.Quote, error) {
	items := []domain.LineItem{}
	if len(r.LineItems) > 0 {
		if err := json.Unmarshal(r.LineItems, &items); err != nil {
			return domain.Quote{}, fmt.Errorf("pgstore: quote %q line items: %w", r.ID, err)
		}
		if items == nil {
			items = []domain.LineItem{}
		}
	}

	return domain.Quote{
		ID:            r.ID,
		CustomerID:    r.CustomerID.String,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		Phone:         r.Phone,
		Address:       r.Address,
		LineItems:     items,
		Margin:        r.Margin,
		Total:         r.Total,
		TotalCost:     r.TotalCost,
		AllowOverride: r.AllowOverride,
		Status:        domain.QuoteStatus(r.Status),
		Created:       r.CreatedAt,
		Updated:       r.UpdatedAt,
	}, nil
}

const quoteColumns = `id, customer_id, customer_name, customer_email, phone, address, line_items,
		margin, total, total_cost, allow_override, status, created_at, updated_at`

func (s *Store) ListQuotes(ctx context.Context) ([]domain.Quote, error) {
	var rows []quoteRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+quoteColumns+`
		FROM quotes
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("pgstore: list quotes: %w", err)
	}

	quotes := make([]domain.Quote, 0, len(rows))
	for _, r := range rows {
		q, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

func (s *Store) GetQuote(ctx context.Context, id string) (*domain.Quote, error) {
	var row quoteRow
	err := s.db.GetContext(ctx, &row, `
		SELECT `+quoteColumns+`
		FROM quotes
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("pgstore: get quote %q: %w", id, mapError(err))
	}
	q, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *Store) CreateQuote(ctx context.Context, q *domain.Quote) error {
	items := q.LineItems
	if items == nil {
		items = []domain.LineItem{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("pgstore: encode line items: %w", err)
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	customerID := sql.NullString{String: q.CustomerID, Valid: q.CustomerID != ""}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO quotes (id, customer_id, customer_name, customer_email, phone, address, line_items,
			margin, total, total_cost, allow_override, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, id, customerID, q.CustomerName, q.CustomerEmail, q.Phone, q.Address, itemsJSON,
		q.Margin, q.Total, q.TotalCost, q.AllowOverride, string(q.Status), now, now)
	if err != nil {
		return fmt.Errorf("pgstore: insert quote: %w", mapError(err))
	}

	q.ID = id
	q.Created = now
	q.Updated = now
	return nil
}

func (s *Store) UpdateQuoteStatus(ctx context.Context, id string, status domain.QuoteStatus) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE quotes
		SET status = $2, updated_at = $3
		WHERE id = $1
	`, id, string(status), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("pgstore: update quote %q status: %w", id, mapError(err))
	}
	if err := expectOneRow(res); err != nil {
		return fmt.Errorf("pgstore: update quote %q status: %w", id, err)
	}
	return nil
}
