package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"terracotta/services"
	"terracotta/store"
)

// HandleWorkOrderList returns all work orders, newest first.
func HandleWorkOrderList(svc *services.WorkOrderService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		orders, err := svc.List(e.Request.Context())
		if err != nil {
			return serverError(e, "workorders: list failed", err, "Could not fetch work orders.")
		}
		return e.JSON(http.StatusOK, map[string]any{"work_orders": orders})
	}
}

// HandleWorkOrderCreate saves a new work order.
func HandleWorkOrderCreate(svc *services.WorkOrderService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var in services.WorkOrderInput
		if err := decodeJSON(e, &in); err != nil {
			return jsonMessage(e, http.StatusBadRequest, "Missing required fields.")
		}

		w, err := svc.Create(e.Request.Context(), in)
		switch {
		case errors.Is(err, services.ErrWorkOrderMissingFields):
			return jsonMessage(e, http.StatusBadRequest, "Missing required fields.")
		case errors.Is(err, services.ErrInvalidStatus):
			return jsonMessage(e, http.StatusBadRequest, "Invalid status.")
		case err != nil:
			return serverError(e, "workorders: create failed", err, "Failed to create work order.")
		}

		return e.JSON(http.StatusOK, map[string]any{
			"message":    "Work order created.",
			"work_order": w,
		})
	}
}

// HandleWorkOrderStatus moves a work order to a new status. Moving to
// Complete stamps the completion time.
func HandleWorkOrderStatus(svc *services.WorkOrderService) func(*core.RequestEvent) error {
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
			return jsonMessage(e, http.StatusNotFound, "Work order not found.")
		case err != nil:
			return serverError(e, "workorders: status update failed", err, "Failed to update status.")
		}
		return jsonMessage(e, http.StatusOK, "Work order status updated.")
	}
}
