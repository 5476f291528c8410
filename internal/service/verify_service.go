package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/drinkport/beverage-promo-service/internal/models"
)

type Decision string

const (
	DecideExisting Decision = "existing"
	DecideNew      Decision = "new"
	DecideBlock    Decision = "block"
)

type UserStore interface {
	Get(ctx context.Context, userID string) (models.UserProfile, error)
	SetVerificationStatus(ctx context.Context, userID string, status models.VerificationStatus) error
}

type OrderStatusStore interface {
	UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus) error
}

// VerifyService is the manager workflow: approve a business as an existing
// or new account, or block it. "New" replays the same apron grant used at
// first-order submission.
type VerifyService struct {
	users        UserStore
	orders       OrderStatusStore
	entitlements EntitlementStore
	log          *zap.Logger
	now          func() time.Time
}

func NewVerifyService(users UserStore, orders OrderStatusStore, entitlements EntitlementStore, log *zap.Logger) *VerifyService {
	return &VerifyService{
		users:        users,
		orders:       orders,
		entitlements: entitlements,
		log:          log,
		now:          time.Now,
	}
}

func (s *VerifyService) Verify(ctx context.Context, orderID, userID string, decision Decision) error {
	switch decision {
	case DecideBlock:
		if err := s.users.SetVerificationStatus(ctx, userID, models.Blocked); err != nil {
			return fmt.Errorf("block user: %w", err)
		}
		if err := s.orders.UpdateStatus(ctx, orderID, models.OrderCancelled); err != nil {
			return fmt.Errorf("cancel order: %w", err)
		}

	case DecideExisting:
		if err := s.users.SetVerificationStatus(ctx, userID, models.VerifiedExisting); err != nil {
			return fmt.Errorf("verify user: %w", err)
		}
		if err := s.orders.UpdateStatus(ctx, orderID, models.OrderConfirmed); err != nil {
			return fmt.Errorf("confirm order: %w", err)
		}

	case DecideNew:
		if err := s.users.SetVerificationStatus(ctx, userID, models.VerifiedNew); err != nil {
			return fmt.Errorf("verify user: %w", err)
		}
		if err := s.orders.UpdateStatus(ctx, orderID, models.OrderConfirmed); err != nil {
			return fmt.Errorf("confirm order: %w", err)
		}
		user, err := s.users.Get(ctx, userID)
		if err != nil {
			return fmt.Errorf("load user for apron grant: %w", err)
		}
		GrantApron(ctx, s.entitlements, s.log, user, s.now())

	default:
		return fmt.Errorf("unknown verification decision %q", decision)
	}
	return nil
}
