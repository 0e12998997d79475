package pbstore

import (
	"context"
	"fmt"

	"github.com/pocketbase/pocketbase/core"

	"terracotta/domain"
)

func (s *Store) ListQuotes(ctx context.Context) ([]domain.Quote, error) {
	records, err := s.newestFirst(ctx, quotesCollection)
	if err != nil {
		return nil, fmt.Errorf("pbstore: list quotes: %w", err)
	}

	quotes := make([]domain.Quote, 0, len(records))
	for _, rec := range records {
		q, err := quoteFromRecord(rec)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

func (s *Store) GetQuote(ctx context.Context, id string) (*domain.Quote, error) {
	rec, err := s.findByID(quotesCollection, id)
	if err != nil {
		return nil, err
	}
	q, err := quoteFromRecord(rec)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *Store) CreateQuote(ctx context.Context, q *domain.Quote) error {
	col, err := s.collection(quotesCollection)
	if err != nil {
		return err
	}

	items := q.LineItems
	if items == nil {
		items = []domain.LineItem{}
	}

	rec := core.NewRecord(col)
	rec.Set("customer", q.CustomerID)
	rec.Set("customer_name", q.CustomerName)
	rec.Set("customer_email", q.CustomerEmail)
	rec.Set("phone", q.Phone)
	rec.Set("address", q.Address)
	rec.Set("line_items", items)
	rec.Set("margin", q.Margin)
	rec.Set("total", q.Total)
	rec.Set("total_cost", q.TotalCost)
	rec.Set("allow_override", q.AllowOverride)
	rec.Set("status", string(q.Status))

	if err := s.app.SaveWithContext(ctx, rec); err != nil {
		return fmt.Errorf("pbstore: save quote: %w", err)
	}

	q.ID = rec.Id
	q.Created = rec.GetDateTime("created").Time()
	q.Updated = rec.GetDateTime("updated").Time()
	return nil
}

func (s *Store) UpdateQuoteStatus(ctx context.Context, id string, status domain.QuoteStatus) error {
	rec, err := s.findByID(quotesCollection, id)
	if err != nil {
		return err
	}

	rec.Set("status", string(status))
	if err := s.app.SaveWithContext(ctx, rec); err != nil {
		return fmt.Errorf("pbstore: update quote %q status: %w", id, err)
	}
	return nil
}

func quoteFromRecord(rec *core.Record) (domain.Quote, error) {
	var items []domain.LineItem
	if raw := rec.GetString("line_items"); raw != "" && raw != "null" {
		if err := rec.UnmarshalJSONField("line_items", &items); err != nil {
			return domain.Quote{}, fmt.Errorf("pbstore: quote %q line items: %w", rec.Id, err)
		}
	}
	if items == nil {
		items = []domain.LineItem{}
	}

	return domain.Quote{
		ID:            rec.Id,
		CustomerID:    rec.GetString("customer"),
		CustomerName:  rec.GetString("customer_name"),
		CustomerEmail: rec.GetString("customer_email"),
		Phone:         rec.GetString("phone"),
		Address:       rec.GetString("address"),
		LineItems:     items,
		Margin:        rec.GetFloat("margin"),
		Total:         rec.GetFloat("total"),
		TotalCost:     rec.GetFloat("total_cost"),
		AllowOverride: rec.GetBool("allow_override"),
		Status:        domain.QuoteStatus(rec.GetString("status")),
		Created:       rec.GetDateTime("created").Time(),
		Updated:       rec.GetDateTime("updated").Time(),
	}, nil
}
