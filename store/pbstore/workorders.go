package pbstore

import (
	"context"
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"terracotta/domain"
)

func (s *Store) ListWorkOrders(ctx context.Context) ([]domain.WorkOrder, error) {
	records, err := s.newestFirst(ctx, workOrdersCollection)
	if err != nil {
		return nil, fmt.Errorf("pbstore: list work orders: %w", err)
	}

	orders := make([]domain.WorkOrder, 0, len(records))
	for _, rec := range records {
		orders = append(orders, workOrderFromRecord(rec))
	}
	return orders, nil
}

func (s *Store) CreateWorkOrder(ctx context.Context, w *domain.WorkOrder) error {
	col, err := s.collection(workOrdersCollection)
	if err != nil {
		return err
	}

	rec := core.NewRecord(col)
	rec.Set("customer_name", w.CustomerName)
	rec.Set("customer_email", w.CustomerEmail)
	rec.Set("phone", w.Phone)
	rec.Set("address", w.Address)
	rec.Set("reference", w.Reference)
	rec.Set("description", w.Description)
	rec.Set("status", string(w.Status))
	if w.CompletedAt != nil {
		rec.Set("completed_at", w.CompletedAt.UTC())
	}

	if err := s.app.SaveWithContext(ctx, rec); err != nil {
		return fmt.Errorf("pbstore: save work order: %w", err)
	}

	w.ID = rec.Id
	w.Created = rec.GetDateTime("created").Time()
	return nil
}

func (s *Store) UpdateWorkOrderStatus(ctx context.Context, id string, status domain.WorkOrderStatus, completedAt *time.Time) error {
	rec, err := s.findByID(workOrdersCollection, id)
	if err != nil {
		return err
	}

	rec.Set("status", string(status))
	if completedAt != nil {
		rec.Set("completed_at", completedAt.UTC())
	}
	if err := s.app.SaveWithContext(ctx, rec); err != nil {
		return fmt.Errorf("pbstore: update work order %q status: %w", id, err)
	}
	return nil
}

func workOrderFromRecord(rec *core.Record) domain.WorkOrder {
	w := domain.WorkOrder{
		ID:            rec.Id,
		CustomerName:  rec.GetString("customer_name"),
		CustomerEmail: rec.GetString("customer_email"),
		Phone:         rec.GetString("phone"),
		Address:       rec.GetString("address"),
		Reference:     rec.GetString("reference"),
		Description:   rec.GetString("description"),
		Status:        domain.WorkOrderStatus(rec.GetString("status")),
		Created:       rec.GetDateTime("created").Time(),
	}
	if completed := rec.GetDateTime("completed_at"); !completed.IsZero() {
		t := completed.Time()
		w.CompletedAt = &t
	}
	return w
}
