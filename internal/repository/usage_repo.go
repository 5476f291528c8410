package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// UsageRepo tracks free boxes consumed per (business number, year-month).
// Rows are created lazily and never deleted; used_free_boxes only grows.
type UsageRepo struct {
	db *sql.DB
}

func NewUsageRepo(db *sql.DB) *UsageRepo {
	return &UsageRepo{db: db}
}

// GetUsed returns the free boxes already granted this month. A missing row
// means zero.
func (r *UsageRepo) GetUsed(ctx context.Context, businessNumber, yearMonth string) (int, error) {
	const query = `
		SELECT used_free_boxes
		FROM monthly_service_usage
		WHERE business_number = $1 AND year_month = $2
	`

	var used int
	err := r.db.QueryRowContext(ctx, query, businessNumber, yearMonth).Scan(&used)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get usage: %w", err)
	}
	return used, nil
}

// RecordUsage adds delta to the month's counter in a single atomic upsert,
// clamped so the stored total can never exceed cap even when two orders
// race on the same row. Returns the new stored total.
func (r *UsageRepo) RecordUsage(ctx context.Context, businessNumber, yearMonth string, delta, cap int) (int, error) {
	const query = `
		INSERT INTO monthly_service_usage (business_number, year_month, used_free_boxes, updated_at)
		VALUES ($1, $2, LEAST($3, $4), NOW())
		ON CONFLICT (business_number, year_month)
		DO UPDATE SET
			used_free_boxes = LEAST(monthly_service_usage.used_free_boxes + $3, $4),
			updated_at = NOW()
		RETURNING used_free_boxes
	`

	var total int
	err := r.db.QueryRowContext(ctx, query, businessNumber, yearMonth, delta, cap).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("record usage: %w", err)
	}
	return total, nil
}
