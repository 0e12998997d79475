package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"

	"terracotta/services"
	"terracotta/store"
)

// quoteRequest is the body posted by the quote authoring form. Client-side
// margin and total fields are ignored; totals are recomputed from quoteItems.
type quoteRequest struct {
	CustomerID    string           `json:"customerId"`
	CustomerName  string           `json:"customerName"`
	CustomerEmail string           `json:"customerEmail"`
	Phone         string           `json:"phone"`
	Address       string           `json:"address"`
	QuoteItems    []map[string]any `json:"quoteItems"`
	AllowOverride any              `json:"allowOverride"`
}

func (r quoteRequest) input() services.QuoteInput {
	return services.QuoteInput{
		CustomerID:    r.CustomerID,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		Phone:         r.Phone,
		Address:       r.Address,
		Items:         services.NormalizeLineItems(r.QuoteItems),
		AllowOverride: cast.ToBool(r.AllowOverride),
	}
}

type statusRequest struct {
	Status string `json:"status"`
}

// HandleQuoteList returns all quotes, newest first.
func HandleQuoteList(svc *services.QuoteService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quotes, err := svc.List(e.Request.Context())
		if err != nil {
			return serverError(e, "quotes: list failed", err, "Failed to load quotes.")
		}
		return e.JSON(http.StatusOK, map[string]any{"quotes": quotes})
	}
}

// HandleQuotePreview returns live totals and the margin verdict for the line
// items being authored. Nothing is saved.
func HandleQuotePreview(svc *services.QuoteService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req quoteRequest
		if err := decodeJSON(e, &req); err != nil {
			return jsonMessage(e, http.StatusBadRequest, "Invalid request body.")
		}
		in := req.input()
		return e.JSON(http.StatusOK, svc.Preview(in.Items, in.AllowOverride))
	}
}

// HandleQuoteCreate saves a quote without emailing it.
func HandleQuoteCreate(svc *services.QuoteService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req quoteRequest
		if err := decodeJSON(e, &req); err != nil {
			return jsonMessage(e, http.StatusBadRequest, "Invalid request body.")
		}

		q, err := svc.Create(e.Request.Context(), req.input())
		switch {
		case errors.Is(err, services.ErrMarginBelowMinimum):
			return jsonMessage(e, http.StatusBadRequest, "Quote margin too low. Override required.")
		case errors.Is(err, services.ErrCustomerNameRequired):
			return jsonMessage(e, http.StatusBadRequest, "Customer name is required.")
		case err != nil:
			return serverError(e, "quotes: create failed", err, "Error saving quote.")
		}

		return e.JSON(http.StatusOK, map[string]any{
			"message": "Quote saved.",
			"quote":   q,
		})
	}
}

// HandleQuoteSend saves a quote and emails it to the customer. A failed email
// still leaves the quote saved.
func HandleQuoteSend(svc *services.QuoteService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req quoteRequest
		if err := decodeJSON(e, &req); err != nil {
			return jsonMessage(e, http.StatusBadRequest, "Invalid request body.")
		}

		q, err := svc.Send(e.Request.Context(), req.input())
		switch {
		case errors.Is(err, services.ErrMarginBelowMinimum):
			return jsonMessage(e, http.StatusBadRequest, "Quote margin too low. Override required.")
		case errors.Is(err, services.ErrCustomerEmailRequired):
			return jsonMessage(e, http.StatusBadRequest, "Customer email is required.")
		case errors.Is(err, services.ErrCustomerNameRequired):
			return jsonMessage(e, http.StatusBadRequest, "Customer name is required.")
		case errors.Is(err, services.ErrNotificationFailed):
			log.Error().Err(err).Str("quote", q.ID).Msg("quotes: email failed after save")
			return e.JSON(http.StatusInternalServerError, map[string]any{
				"message": "Error sending quote or saving.",
				"quote":   q,
			})
		case err != nil:
			return serverError(e, "quotes: send failed", err, "Error sending quote or saving.")
		}

		return e.JSON(http.StatusOK, map[string]any{
			"message": "Quote saved and emailed successfully.",
			"quote":   q,
		})
	}
}

// HandleQuoteStatus moves a quote to a new status.
func HandleQuoteStatus(svc *services.QuoteService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req statusRequest
		if err := decodeJSON(e, &req); err != nil {
			return jsonMessage(e, http.StatusBadRequest, "Status required.")
		}

		err := svc.UpdateStatus(e.Request.Context(), e.Request.PathValue("id"), req.Status)
		switch {
		case errors.Is(err, services.ErrStatusRequired):
			return jsonMessage(e, http.StatusBadRequest, "Status required.")
		case errors.Is(err, services.ErrInvalidStatus):
			return jsonMessage(e, http.StatusBadRequest, "Invalid status.")
		case errors.Is(err, store.ErrNotFound):
			return jsonMessage(e, http.StatusNotFound, "Quote not found.")
		case err != nil:
			return serverError(e, "quotes: status update failed", err, "Failed to update quote.")
		}
		return jsonMessage(e, http.StatusOK, "Quote status updated.")
	}
}
