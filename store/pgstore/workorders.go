package pgstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"terracotta/domain"
)

type workOrderRow struct {
	ID            string       `db:"id"`
	CustomerName  string       `db:"customer_name"`
	CustomerEmail string       `db:"customer_email"`
	Phone         string       `db:"phone"`
	Address       string       `db:"address"`
	Reference     string       `db:"reference"`
	Description   string       `db:"description"`
	Status        string       `db:"status"`
	CompletedAt   sql.NullTime `db:"completed_at"`
	CreatedAt     time.Time    `db:"created_at"`
}

func (r workOrderRow) toDomain() domain.WorkOrder {
	w := domain.WorkOrder{
		ID:            r.ID,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		Phone:         r.Phone,
		Address:       r.Address,
		Reference:     r.Reference,
		Description:   r.Description,
		Status:        domain.WorkOrderStatus(r.Status),
		Created:       r.CreatedAt,
	}
	if r.CompletedAt.Valid {
		t := r.CompletedAt.Time
		w.CompletedAt = &t
	}
	return w
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func (s *Store) ListWorkOrders(ctx context.Context) ([]domain.WorkOrder, error) {
	var rows []workOrderRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, customer_name, customer_email, phone, address, reference, description,
			status, completed_at, created_at
		FROM work_orders
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("pgstore: list work orders: %w", err)
	}

	orders := make([]domain.WorkOrder, 0, len(rows))
	for _, r := range rows {
		orders = append(orders, r.toDomain())
	}
	return orders, nil
}

func (s *Store) CreateWorkOrder(ctx context.Context, w *domain.WorkOrder) error {
	id := uuid.NewString()
	created := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO work_orders (id, customer_name, customer_email, phone, address, reference,
			description, status, completed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, id, w.CustomerName, w.CustomerEmail, w.Phone, w.Address, w.Reference,
		w.Description, string(w.Status), nullTime(w.CompletedAt), created)
	if err != nil {
		return fmt.Errorf("pgstore: insert work order: %w", mapError(err))
	}

	w.ID = id
	w.Created = created
	return nil
}

func (s *Store) UpdateWorkOrderStatus(ctx context.Context, id string, status domain.WorkOrderStatus, completedAt *time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE work_orders
		SET status = $2, completed_at = COALESCE($3::timestamptz, completed_at)
		WHERE id = $1
	`, id, string(status), nullTime(completedAt))
	if err != nil {
		return fmt.Errorf("pgstore: update work order %q status: %w", id, mapError(err))
	}
	if err := expectOneRow(res); err != nil {
		return fmt.Errorf("pgstore: update work order %q status: %w", id, err)
	}
	return nil
}
