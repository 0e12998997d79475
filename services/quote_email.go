package services

import (
	"bytes"
	"context"
	"fmt"

	"terracotta/domain"
)

//go:generate templ generate -f quote_email.templ

// QuoteEmailData is everything the customer-facing quote email shows.
type QuoteEmailData struct {
	Company      string
	CustomerName string
	Items        []domain.LineItem
	Total        float64
}

// RenderQuoteEmail renders QuoteEmail to a string.
func RenderQuoteEmail(ctx context.Context, data QuoteEmailData) (string, error) {
	var buf bytes.Buffer
	if err := QuoteEmail(data).Render(ctx, &buf); err != nil {
		return "", fmt.Errorf("render quote email: %w", err)
	}
	return buf.String(), nil
}

// QuoteEmailSubject is the subject line of the customer quote email.
func QuoteEmailSubject(company string) string {
	return "Your Quote from " + company
}
