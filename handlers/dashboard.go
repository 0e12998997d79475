package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"terracotta/services"
)

// HandleDashboard returns the open quotes and unfinished work orders,
// filtered by the optional ?q= search text.
func HandleDashboard(quotes *services.QuoteService, workOrders *services.WorkOrderService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		ctx := e.Request.Context()

		qs, err := quotes.List(ctx)
		if err != nil {
			return serverError(e, "dashboard: list quotes", err, "Failed to load dashboard.")
		}
		ws, err := workOrders.List(ctx)
		if err != nil {
			return serverError(e, "dashboard: list work orders", err, "Failed to load dashboard.")
		}

		return e.JSON(http.StatusOK, services.BuildDashboard(qs, ws, e.Request.URL.Query().Get("q")))
	}
}
