package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"terracotta/domain"
	"terracotta/services"
	"terracotta/testhelpers"
)

func healthyQuoteBody() map[string]any {
	return map[string]any{
		"customerName":  "Ada Lovelace",
		"customerEmail": "ada@example.com",
		"phone":         "555-0101",
		"address":       "1 Analytical Way",
		"quoteItems": []map[string]any{
			{"description": "Concrete", "quantity": "2", "cost": 100, "price": 200},
		},
		// client-side totals are ignored
		"margin": 99,
		"total":  1,
	}
}

func thinQuoteBody(override any) map[string]any {
	body := healthyQuoteBody()
	body["quoteItems"] = []map[string]any{
		{"description": "Tile", "quantity": 1, "cost": 90, "price": 100},
	}
	if override != nil {
		body["allowOverride"] = override
	}
	return body
}

func TestHandleQuotePreview(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(t, HandleQuotePreview(env.quotes), jsonRequest(t, http.MethodPost, "/api/quotes/preview", thinQuoteBody(nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var preview services.QuotePreview
	decodeBody(t, rec, &preview)
	if preview.TotalPrice != 100 || preview.TotalCost != 90 || preview.Margin != 10 {
		t.Errorf("preview totals = %+v", preview)
	}
	if !preview.BelowMinimum || preview.CanSubmit {
		t.Errorf("expected below minimum and not submittable, got %+v", preview)
	}
	if preview.Threshold != services.DefaultMarginThreshold {
		t.Errorf("threshold = %v", preview.Threshold)
	}

	quotes, _ := env.quotes.List(context.Background())
	if len(quotes) != 0 {
		t.Errorf("preview must not save, found %d quotes", len(quotes))
	}
}

func TestHandleQuotePreview_OverrideString(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(t, HandleQuotePreview(env.quotes), jsonRequest(t, http.MethodPost, "/api/quotes/preview", thinQuoteBody("true")))
	var preview services.QuotePreview
	decodeBody(t, rec, &preview)
	if !preview.CanSubmit {
		t.Errorf("override should allow submission, got %+v", preview)
	}
}

func TestHandleQuoteCreate(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(t, HandleQuoteCreate(env.quotes), jsonRequest(t, http.MethodPost, "/api/quotes", healthyQuoteBody()))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Quote domain.Quote `json:"quote"`
	}
	decodeBody(t, rec, &body)
	if body.Quote.Total != 400 || body.Quote.TotalCost != 200 || body.Quote.Margin != 50 {
		t.Errorf("stored totals = %v/%v/%v, want server-computed 400/200/50", body.Quote.Total, body.Quote.TotalCost, body.Quote.Margin)
	}
	if body.Quote.Status != domain.QuoteOpen {
		t.Errorf("status = %q, want Open", body.Quote.Status)
	}
	if body.Quote.CustomerID == "" {
		t.Error("expected the customer to be linked")
	}
	if len(env.mailer.Messages()) != 0 {
		t.Error("create must not send email")
	}
}

func TestHandleQuoteCreate_BelowMinimum(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(t, HandleQuoteCreate(env.quotes), jsonRequest(t, http.MethodPost, "/api/quotes", thinQuoteBody(false)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if got := messageOf(t, rec); got != "Quote margin too low. Override required." {
		t.Errorf("message = %q", got)
	}

	quotes, _ := env.quotes.List(context.Background())
	if len(quotes) != 0 {
		t.Errorf("rejected quote must not be saved, found %d", len(quotes))
	}
}

func TestHandleQuoteCreate_EmailWithoutName(t *testing.T) {
	env := newTestEnv(t)
	body := map[string]any{
		"customerEmail": "new@example.com",
		"quoteItems":    []map[string]any{{"quantity": 1, "cost": 10, "price": 100}},
	}

	rec := env.serve(t, HandleQuoteCreate(env.quotes), jsonRequest(t, http.MethodPost, "/api/quotes", body))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := messageOf(t, rec); got != "Customer name is required." {
		t.Errorf("message = %q", got)
	}

	quotes, _ := env.quotes.List(context.Background())
	customers, _ := env.customers.List(context.Background())
	if len(quotes) != 0 || len(customers) != 0 {
		t.Errorf("nothing should be saved, found %d quotes and %d customers", len(quotes), len(customers))
	}
}

func TestHandleQuotePreview_HugeAmounts(t *testing.T) {
	env := newTestEnv(t)
	body := map[string]any{
		"quoteItems": []map[string]any{{"quantity": 2, "cost": 1, "price": 1e308}},
	}

	rec := env.serve(t, HandleQuotePreview(env.quotes), jsonRequest(t, http.MethodPost, "/api/quotes/preview", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var preview services.QuotePreview
	decodeBody(t, rec, &preview)
	if preview.Margin > 100 || preview.Margin < 99.99 {
		t.Errorf("margin = %v, want ~100", preview.Margin)
	}
}

func TestHandleQuoteCreate_Override(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(t, HandleQuoteCreate(env.quotes), jsonRequest(t, http.MethodPost, "/api/quotes", thinQuoteBody(true)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleQuoteSend(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(t, HandleQuoteSend(env.quotes), jsonRequest(t, http.MethodPost, "/api/quotes/send", healthyQuoteBody()))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := messageOf(t, rec); got != "Quote saved and emailed successfully." {
		t.Errorf("message = %q", got)
	}

	sent := env.mailer.Messages()
	if len(sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(sent))
	}
	if sent[0].ToAddress != "ada@example.com" {
		t.Errorf("to = %q", sent[0].ToAddress)
	}
	if sent[0].Subject != "Your Quote from Terracotta Construction" {
		t.Errorf("subject = %q", sent[0].Subject)
	}
	testhelpers.AssertContains(t, sent[0].HTML, "Hello Ada Lovelace", "Total: $400.00")
}

func TestHandleQuoteSend_BelowMinimumNotEmailed(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(t, HandleQuoteSend(env.quotes), jsonRequest(t, http.MethodPost, "/api/quotes/send", thinQuoteBody(nil)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if len(env.mailer.Messages()) != 0 {
		t.Error("no email should be sent for a rejected quote")
	}
}

func TestHandleQuoteSend_MissingEmail(t *testing.T) {
	env := newTestEnv(t)
	body := healthyQuoteBody()
	delete(body, "customerEmail")

	rec := env.serve(t, HandleQuoteSend(env.quotes), jsonRequest(t, http.MethodPost, "/api/quotes/send", body))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleQuoteSend_MissingName(t *testing.T) {
	env := newTestEnv(t)
	body := healthyQuoteBody()
	delete(body, "customerName")

	rec := env.serve(t, HandleQuoteSend(env.quotes), jsonRequest(t, http.MethodPost, "/api/quotes/send", body))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if got := messageOf(t, rec); got != "Customer name is required." {
		t.Errorf("message = %q", got)
	}
	if len(env.mailer.Messages()) != 0 {
		t.Error("no email should be sent")
	}
}

func TestHandleQuoteSend_MailFailureKeepsQuote(t *testing.T) {
	env := newTestEnv(t)
	env.mailer.Err = errBoom
	captureLogs(t)

	rec := env.serve(t, HandleQuoteSend(env.quotes), jsonRequest(t, http.MethodPost, "/api/quotes/send", healthyQuoteBody()))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if got := messageOf(t, rec); got != "Error sending quote or saving." {
		t.Errorf("message = %q", got)
	}

	quotes, err := env.quotes.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(quotes) != 1 {
		t.Errorf("expected the quote to stay saved, found %d", len(quotes))
	}
}

func TestHandleQuoteList(t *testing.T) {
	env := newTestEnv(t)
	testhelpers.CreateTestQuote(t, env.app, "Ada", "ada@example.com", domain.QuoteOpen, []domain.LineItem{
		{Description: "Concrete", Quantity: 1, Cost: 50, Price: 100},
	})

	rec := env.serve(t, HandleQuoteList(env.quotes), httptest.NewRequest(http.MethodGet, "/api/quotes", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Quotes []domain.Quote `json:"quotes"`
	}
	decodeBody(t, rec, &body)
	if len(body.Quotes) != 1 || body.Quotes[0].LineItems[0].Description != "Concrete" {
		t.Errorf("quotes = %+v", body.Quotes)
	}
}

func statusRequestFor(t *testing.T, target, id string, body any) *http.Request {
	t.Helper()
	req := jsonRequest(t, http.MethodPut, target, body)
	req.SetPathValue("id", id)
	return req
}

func TestHandleQuoteStatus(t *testing.T) {
	env := newTestEnv(t)
	rec := testhelpers.CreateTestQuote(t, env.app, "Ada", "ada@example.com", domain.QuoteOpen, nil)

	tests := []struct {
		name     string
		id       string
		body     any
		wantCode int
		wantMsg  string
	}{
		{"approve", rec.Id, map[string]string{"status": "Approved"}, http.StatusOK, "Quote status updated."},
		{"missing status", rec.Id, map[string]string{}, http.StatusBadRequest, "Status required."},
		{"unknown status", rec.Id, map[string]string{"status": "Lost"}, http.StatusBadRequest, "Invalid status."},
		{"unknown quote", "doesnotexist123", map[string]string{"status": "Approved"}, http.StatusNotFound, "Quote not found."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := env.serve(t, HandleQuoteStatus(env.quotes), statusRequestFor(t, "/api/quotes/"+tt.id+"/status", tt.id, tt.body))
			if res.Code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, res.Code)
			}
			if got := messageOf(t, res); got != tt.wantMsg {
				t.Errorf("message = %q, want %q", got, tt.wantMsg)
			}
		})
	}

	q, err := env.quotes.Get(context.Background(), rec.Id)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if q.Status != domain.QuoteApproved {
		t.Errorf("status = %q, want Approved", q.Status)
	}
}

func TestQuoteRequestInput(t *testing.T) {
	req := quoteRequest{
		CustomerName: "Ada",
		QuoteItems: []map[string]any{
			{"description": "  Tile ", "quantity": "3.7", "cost": "-5", "price": "12.5"},
		},
		AllowOverride: "1",
	}

	in := req.input()
	if !in.AllowOverride {
		t.Error("expected override from string flag")
	}
	if len(in.Items) != 1 {
		t.Fatalf("items = %+v", in.Items)
	}
	item := in.Items[0]
	if item.Description != "Tile" || item.Quantity != 3 || item.Cost != 0 || item.Price != 12.5 {
		t.Errorf("normalized item = %+v", item)
	}
}
