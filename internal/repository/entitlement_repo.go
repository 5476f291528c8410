package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/drinkport/beverage-promo-service/internal/models"
)

// EntitlementRepo stores first-order apron grants. apron_requests carries a
// unique constraint on user_id, so a duplicate insert is a detected no-op
// rather than a silent second grant.
type EntitlementRepo struct {
	db *sql.DB
}

func NewEntitlementRepo(db *sql.DB) *EntitlementRepo {
	return &EntitlementRepo{db: db}
}

// CountForUser reports existing grants for the user (0 or 1).
func (r *EntitlementRepo) CountForUser(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM apron_requests WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count apron requests: %w", err)
	}
	return n, nil
}

// Create inserts the grant. Returns created=false when the user already
// has one; losing a concurrent race lands here too.
func (r *EntitlementRepo) Create(ctx context.Context, req models.ApronRequest) (bool, error) {
	const query = `
		INSERT INTO apron_requests
		(id, user_id, quantity, status, business_name, business_number, phone, delivery_address, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (user_id) DO NOTHING
	`

	res, err := r.db.ExecContext(ctx, query,
		req.ID, req.UserID, req.Quantity, req.Status,
		req.BusinessName, req.BusinessNumber, req.Phone, req.DeliveryAddress,
		req.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("create apron request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create apron request: %w", err)
	}
	return n > 0, nil
}

// FindByUser returns the user's grant, or nil when none exists.
func (r *EntitlementRepo) FindByUser(ctx context.Context, userID string) (*models.ApronRequest, error) {
	const query = `
		SELECT id, user_id, quantity, status, business_name, business_number, phone, delivery_address, created_at
		FROM apron_requests
		WHERE user_id = $1
	`

	var req models.ApronRequest
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&req.ID, &req.UserID, &req.Quantity, &req.Status,
		&req.BusinessName, &req.BusinessNumber, &req.Phone, &req.DeliveryAddress,
		&req.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find apron request: %w", err)
	}
	return &req, nil
}
