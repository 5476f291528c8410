package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/drinkport/beverage-promo-service/internal/models"
	"github.com/drinkport/beverage-promo-service/internal/service"
)

type fakeUserStore struct {
	profile  models.UserProfile
	statuses map[string]models.VerificationStatus
}

func (f *fakeUserStore) Get(ctx context.Context, userID string) (models.UserProfile, error) {
	return f.profile, nil
}

func (f *fakeUserStore) SetVerificationStatus(ctx context.Context, userID string, status models.VerificationStatus) error {
	f.statuses[userID] = status
	return nil
}

type fakeOrderStatusStore struct {
	statuses map[string]models.OrderStatus
}

func (f *fakeOrderStatusStore) UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus) error {
	f.statuses[orderID] = status
	return nil
}

func newVerifyHarness() (*service.VerifyService, *fakeUserStore, *fakeOrderStatusStore, *fakeEntitlementStore) {
	users := &fakeUserStore{
		profile: models.UserProfile{
			ID:             "user-1",
			BusinessName:   "Riverside Diner",
			BusinessNumber: "1234567890",
			Phone:          "010-1234-5678",
			Address:        "12 Riverside Rd",
		},
		statuses: map[string]models.VerificationStatus{},
	}
	orders := &fakeOrderStatusStore{statuses: map[string]models.OrderStatus{}}
	entitlements := &fakeEntitlementStore{}
	svc := service.NewVerifyService(users, orders, entitlements, zap.NewNop())
	return svc, users, orders, entitlements
}

func TestVerifyExisting(t *testing.T) {
	svc, users, orders, entitlements := newVerifyHarness()

	err := svc.Verify(context.Background(), "order-1", "user-1", service.DecideExisting)
	require.NoError(t, err)
	assert.Equal(t, models.VerifiedExisting, users.statuses["user-1"])
	assert.Equal(t, models.OrderConfirmed, orders.statuses["order-1"])
	assert.Empty(t, entitlements.created)
}

func TestVerifyNewGrantsApronViaSameContract(t *testing.T) {
	svc, users, orders, entitlements := newVerifyHarness()

	err := svc.Verify(context.Background(), "order-1", "user-1", service.DecideNew)
	require.NoError(t, err)
	assert.Equal(t, models.VerifiedNew, users.statuses["user-1"])
	assert.Equal(t, models.OrderConfirmed, orders.statuses["order-1"])

	require.Len(t, entitlements.created, 1)
	grant := entitlements.created[0]
	assert.Equal(t, service.ApronQuantity, grant.Quantity)
	assert.Equal(t, models.ApronPending, grant.Status)
	assert.Equal(t, "1234567890", grant.BusinessNumber)
}

func TestVerifyNewIsIdempotentOnGrant(t *testing.T) {
	svc, _, _, entitlements := newVerifyHarness()
	entitlements.existing = 1

	err := svc.Verify(context.Background(), "order-1", "user-1", service.DecideNew)
	require.NoError(t, err)
	assert.Empty(t, entitlements.created)
}

func TestVerifyBlockCancelsOrder(t *testing.T) {
	svc, users, orders, entitlements := newVerifyHarness()

	err := svc.Verify(context.Background(), "order-1", "user-1", service.DecideBlock)
	require.NoError(t, err)
	assert.Equal(t, models.Blocked, users.statuses["user-1"])
	assert.Equal(t, models.OrderCancelled, orders.statuses["order-1"])
	assert.Empty(t, entitlements.created)
}

func TestVerifyUnknownDecision(t *testing.T) {
	svc, _, _, _ := newVerifyHarness()
	err := svc.Verify(context.Background(), "order-1", "user-1", service.Decision("maybe"))
	assert.Error(t, err)
}
