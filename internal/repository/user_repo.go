package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/drinkport/beverage-promo-service/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Get(ctx context.Context, userID string) (models.UserProfile, error) {
	const query = `
		SELECT id, COALESCE(name,''), COALESCE(email,''), COALESCE(business_name,''),
		       COALESCE(business_number,''), COALESCE(phone,''), COALESCE(address,''),
		       COALESCE(verification_status,'')
		FROM users
		WHERE id = $1
	`

	var u models.UserProfile
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&u.ID, &u.Name, &u.Email, &u.BusinessName,
		&u.BusinessNumber, &u.Phone, &u.Address,
		&u.VerificationStatus,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.UserProfile{}, ErrUserNotFound
		}
		return models.UserProfile{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *UserRepo) SetVerificationStatus(ctx context.Context, userID string, status models.VerificationStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET verification_status = $2 WHERE id = $1`,
		userID, status,
	)
	if err != nil {
		return fmt.Errorf("set verification status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}
