package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"terracotta/domain"
	"terracotta/store"
)

var (
	ErrCustomerEmailRequired = errors.New("customer email is required to send a quote")
	// ErrCustomerNameRequired is returned when a quote names a customer email
	// without a name to file the customer under.
	ErrCustomerNameRequired = errors.New("customer name is required with a customer email")
	// ErrNotificationFailed wraps an email failure that happened after the quote
	// was saved. The quote is not rolled back.
	ErrNotificationFailed = errors.New("quote saved but notification failed")
)

// QuoteInput is a quote as submitted by the authoring surface, after its line
// items have been normalized.
type QuoteInput struct {
	CustomerID    string
	CustomerName  string
	CustomerEmail string
	Phone         string
	Address       string
	Items         []domain.LineItem
	AllowOverride bool
}

// QuotePreview is the live margin feedback shown while a quote is authored.
type QuotePreview struct {
	LineItems    []domain.LineItem `json:"lineItems"`
	TotalCost    float64           `json:"totalCost"`
	TotalPrice   float64           `json:"totalPrice"`
	Margin       float64           `json:"margin"`
	Threshold    float64           `json:"threshold"`
	BelowMinimum bool              `json:"belowMinimum"`
	CanSubmit    bool              `json:"canSubmit"`
}

// QuoteService creates, sends and tracks quotes.
type QuoteService struct {
	Customers store.CustomerStore
	Quotes    store.QuoteStore
	Mailer    Mailer
	// Threshold is the minimum margin percentage; zero means DefaultMarginThreshold.
	Threshold float64
	Company   string
}

// MarginThreshold returns the effective minimum margin.
func (s *QuoteService) MarginThreshold() float64 {
	if s.Threshold == 0 {
		return DefaultMarginThreshold
	}
	return s.Threshold
}

// Preview computes the totals for items and whether they may be submitted with
// the given override flag. It applies the same policy as Create and Send.
func (s *QuoteService) Preview(items []domain.LineItem, override bool) QuotePreview {
	if items == nil {
		items = []domain.LineItem{}
	}
	threshold := s.MarginThreshold()
	res := ComputeMargin(items)
	return QuotePreview{
		LineItems:    items,
		TotalCost:    res.TotalCost,
		TotalPrice:   res.TotalPrice,
		Margin:       res.Margin,
		Threshold:    threshold,
		BelowMinimum: IsBelowMinimumMargin(res.Margin, threshold),
		CanSubmit:    CheckMarginPolicy(res.Margin, threshold, override) == nil,
	}
}

// Create prices the quote, enforces the margin policy and saves it as Open.
// When a customer email is given the customer is looked up by email and
// created if missing, so the name is required alongside it.
func (s *QuoteService) Create(ctx context.Context, in QuoteInput) (*domain.Quote, error) {
	in = in.trimmed()
	if in.CustomerEmail != "" && in.CustomerName == "" {
		return nil, ErrCustomerNameRequired
	}
	res := ComputeMargin(in.Items)
	if err := CheckMarginPolicy(res.Margin, s.MarginThreshold(), in.AllowOverride); err != nil {
		return nil, err
	}

	q := &domain.Quote{
		CustomerID:    in.CustomerID,
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		Phone:         in.Phone,
		Address:       in.Address,
		LineItems:     in.Items,
		Margin:        res.Margin,
		Total:         res.TotalPrice,
		TotalCost:     res.TotalCost,
		AllowOverride: in.AllowOverride,
		Status:        domain.QuoteOpen,
	}
	if q.LineItems == nil {
		q.LineItems = []domain.LineItem{}
	}

	if in.CustomerEmail != "" && s.Customers != nil {
		customers := &CustomerService{Customers: s.Customers}
		c, _, err := customers.ensureCustomer(ctx, CustomerInput{
			Name:    in.CustomerName,
			Email:   in.CustomerEmail,
			Phone:   in.Phone,
			Address: in.Address,
		})
		if err != nil {
			return nil, err
		}
		q.CustomerID = c.ID
	}

	if err := s.Quotes.CreateQuote(ctx, q); err != nil {
		return nil, fmt.Errorf("create quote: %w", err)
	}
	return q, nil
}

// Send saves the quote like Create and then emails it to the customer with a
// PDF copy attached. If the email fails the saved quote is returned together
// with an error wrapping ErrNotificationFailed.
func (s *QuoteService) Send(ctx context.Context, in QuoteInput) (*domain.Quote, error) {
	in = in.trimmed()
	if in.CustomerEmail == "" {
		return nil, ErrCustomerEmailRequired
	}

	q, err := s.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	if err := s.notify(ctx, q); err != nil {
		return q, fmt.Errorf("%w: %w", ErrNotificationFailed, err)
	}
	return q, nil
}

func (s *QuoteService) notify(ctx context.Context, q *domain.Quote) error {
	if s.Mailer == nil {
		return errors.New("no mailer configured")
	}

	html, err := RenderQuoteEmail(ctx, QuoteEmailData{
		Company:      s.Company,
		CustomerName: q.CustomerName,
		Items:        q.LineItems,
		Total:        q.Total,
	})
	if err != nil {
		return err
	}

	pdf, err := GenerateQuotePDF(NewQuoteDocument(s.Company, *q, false))
	if err != nil {
		return err
	}

	return s.Mailer.Send(ctx, Email{
		ToAddress: q.CustomerEmail,
		ToName:    q.CustomerName,
		Subject:   QuoteEmailSubject(s.Company),
		HTML:      html,
		Attachments: map[string][]byte{
			QuotePDFFileName(q.ID): pdf,
		},
	})
}

// List returns all quotes, newest first.
func (s *QuoteService) List(ctx context.Context) ([]domain.Quote, error) {
	quotes, err := s.Quotes.ListQuotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	return quotes, nil
}

// Get returns the quote with id, or an error wrapping store.ErrNotFound.
func (s *QuoteService) Get(ctx context.Context, id string) (*domain.Quote, error) {
	q, err := s.Quotes.GetQuote(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get quote %s: %w", id, err)
	}
	return q, nil
}

// UpdateStatus moves a quote to one of the known quote statuses.
func (s *QuoteService) UpdateStatus(ctx context.Context, id string, status string) error {
	st := domain.QuoteStatus(strings.TrimSpace(status))
	if st == "" {
		return ErrStatusRequired
	}
	if !st.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, st)
	}
	if err := s.Quotes.UpdateQuoteStatus(ctx, id, st); err != nil {
		return fmt.Errorf("update quote %s: %w", id, err)
	}
	return nil
}

// QuotePDFFileName is the attachment and download name of a quote PDF.
func QuotePDFFileName(id string) string {
	if id == "" {
		return "quote.pdf"
	}
	return "quote-" + id + ".pdf"
}

func (in QuoteInput) trimmed() QuoteInput {
	in.CustomerID = strings.TrimSpace(in.CustomerID)
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerEmail = strings.TrimSpace(in.CustomerEmail)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	return in
}
