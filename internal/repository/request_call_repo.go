package repository

import (
	"context"
	"fmt"

	"bais_express/internal/model"
)

// RequestCallRepository defines operations for pickup requests
type RequestCallRepository interface {
	Create(ctx context.Context, rc *model.RequestCall) error
	FindAll(ctx context.Context) ([]model.RequestCall, error)
	UpdateStatus(ctx context.Context, id int64, status string) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type requestCallRepository struct {
	db DBTX
}

// NewRequestCallRepository creates a new RequestCallRepository
func NewRequestCallRepository(db DBTX) RequestCallRepository {
	return &requestCallRepository{db: db}
}

func (r *requestCallRepository) Create(ctx context.Context, rc *model.RequestCall) error {
	sql := `INSERT INTO request_calls (name, phone, pickup, drop_location, cargo, status)
            VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
	err := r.db.QueryRow(ctx, sql, rc.Name, rc.Phone, rc.Pickup, rc.DropLocation, rc.Cargo, rc.Status).Scan(&rc.ID, &rc.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create request call: %w", err)
	}
	return nil
}

// FindAll lists every request, newest first
func (r *requestCallRepository) FindAll(ctx context.Context) ([]model.RequestCall, error) {
	sql := `SELECT id, name, phone, pickup, drop_location, cargo, status, created_at
            FROM request_calls ORDER BY id DESC`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query request calls: %w", err)
	}
	defer rows.Close()

	calls := []model.RequestCall{}
	for rows.Next() {
		var rc model.RequestCall
		if err := rows.Scan(&rc.ID, &rc.Name, &rc.Phone, &rc.Pickup, &rc.DropLocation, &rc.Cargo, &rc.Status, &rc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan request call row: %w", err)
		}
		calls = append(calls, rc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating request call rows: %w", err)
	}
	return calls, nil
}

// UpdateStatus sets the status and reports whether the request exists
func (r *requestCallRepository) UpdateStatus(ctx context.Context, id int64, status string) (bool, error) {
	sql := `UPDATE request_calls SET status = $1 WHERE id = $2`
	cmdTag, err := r.db.Exec(ctx, sql, status, id)
	if err != nil {
		return false, fmt.Errorf("failed to update request call status: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// Delete removes a request and reports whether it existed
func (r *requestCallRepository) Delete(ctx context.Context, id int64) (bool, error) {
	sql := `DELETE FROM request_calls WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, sql, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete request call: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}
