package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"terracotta/domain"
	"terracotta/store"
)

var (
	ErrWorkOrderMissingFields = errors.New("work order customer name, customer email and description are required")
	ErrInvalidStatus          = errors.New("invalid status")
	ErrStatusRequired         = errors.New("status is required")
)

// WorkOrderInput is the data accepted when creating a work order.
type WorkOrderInput struct {
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	Reference     string `json:"reference"`
	Description   string `json:"description"`
	Status        string `json:"status"`
}

// WorkOrderService manages work orders.
type WorkOrderService struct {
	WorkOrders store.WorkOrderStore
	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *WorkOrderService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// List returns all work orders, newest first.
func (s *WorkOrderService) List(ctx context.Context) ([]domain.WorkOrder, error) {
	orders, err := s.WorkOrders.ListWorkOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list work orders: %w", err)
	}
	return orders, nil
}

// Create validates in and saves a work order. An empty status means New; a
// work order created as Complete is stamped as completed now.
func (s *WorkOrderService) Create(ctx context.Context, in WorkOrderInput) (*domain.WorkOrder, error) {
	w := &domain.WorkOrder{
		CustomerName:  strings.TrimSpace(in.CustomerName),
		CustomerEmail: strings.TrimSpace(in.CustomerEmail),
		Phone:         strings.TrimSpace(in.Phone),
		Address:       strings.TrimSpace(in.Address),
		Reference:     strings.TrimSpace(in.Reference),
		Description:   strings.TrimSpace(in.Description),
		Status:        domain.WorkOrderStatus(strings.TrimSpace(in.Status)),
	}
	if w.CustomerName == "" || w.CustomerEmail == "" || w.Description == "" {
		return nil, ErrWorkOrderMissingFields
	}
	if w.Status == "" {
		w.Status = domain.WorkOrderNew
	}
	if !w.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, w.Status)
	}
	if w.Status == domain.WorkOrderComplete {
		completed := s.now()
		w.CompletedAt = &completed
	}

	if err := s.WorkOrders.CreateWorkOrder(ctx, w); err != nil {
		return nil, fmt.Errorf("create work order: %w", err)
	}
	return w, nil
}

// UpdateStatus moves a work order to status. Moving to Complete records the
// completion time; other statuses leave any earlier completion time as is.
func (s *WorkOrderService) UpdateStatus(ctx context.Context, id string, status string) error {
	st := domain.WorkOrderStatus(strings.TrimSpace(status))
	if st == "" {
		return ErrStatusRequired
	}
	if !st.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, st)
	}

	var completedAt *time.Time
	if st == domain.WorkOrderComplete {
		now := s.now()
		completedAt = &now
	}

	if err := s.WorkOrders.UpdateWorkOrderStatus(ctx, id, st, completedAt); err != nil {
		return fmt.Errorf("update work order %s: %w", id, err)
	}
	return nil
}
