package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/drinkport/beverage-promo-service/internal/concurrency"
	"github.com/drinkport/beverage-promo-service/internal/models"
	"github.com/drinkport/beverage-promo-service/internal/promo"
)

// ApronQuantity is the fixed size of the one-time first-order grant.
const ApronQuantity = 5

// ErrAmbiguousOutcome marks a submission whose order insert timed out: the
// write may still have completed server-side, so callers must not report a
// confirmed failure.
var ErrAmbiguousOutcome = errors.New("order submission outcome ambiguous: request timed out")

var ErrEmptyCart = errors.New("cart is empty")

// Interfaces over the repositories so tests can swap in fakes.

type CatalogSource interface {
	Catalog(ctx context.Context) (models.Catalog, error)
}

type UsageLedger interface {
	GetUsed(ctx context.Context, businessNumber, yearMonth string) (int, error)
	RecordUsage(ctx context.Context, businessNumber, yearMonth string, delta, cap int) (int, error)
}

type OrderStore interface {
	Create(ctx context.Context, o *models.Order) error
	CountByUser(ctx context.Context, userID string) (int, error)
}

type EntitlementStore interface {
	CountForUser(ctx context.Context, userID string) (int, error)
	Create(ctx context.Context, req models.ApronRequest) (bool, error)
}

type OrderService struct {
	catalog      CatalogSource
	usage        UsageLedger
	orders       OrderStore
	entitlements EntitlementStore
	log          *zap.Logger
	now          func() time.Time
}

func NewOrderService(catalog CatalogSource, usage UsageLedger, orders OrderStore, entitlements EntitlementStore, log *zap.Logger) *OrderService {
	return &OrderService{
		catalog:      catalog,
		usage:        usage,
		orders:       orders,
		entitlements: entitlements,
		log:          log,
		now:          time.Now,
	}
}

// Quote is the promotion preview for a cart: totals, raw eligibility, the
// month's remaining quota applied, and the substituted free product.
type Quote struct {
	Totals           models.CartTotals
	Eligibility      promo.Eligibility
	UsedThisMonth    int
	GrantedFreeBoxes int
	FreeProduct      *models.Product
	DiscountPercent  int
	AverageBoxPrice  int64
}

// SubmitRequest carries everything the engine needs explicitly; there is
// no ambient session state.
type SubmitRequest struct {
	UserID          string
	BusinessName    string
	BusinessNumber  string
	Phone           string
	DeliveryAddress string
	Cart            models.Cart
}

// Quote evaluates the cart against the catalog and the month's ledger.
// A ledger read failure is an explicit fail-open: quota is treated as
// untouched and a warning is logged. The allocator still bounds the grant
// by raw eligibility, so a single order can never over-grant past that.
func (s *OrderService) Quote(ctx context.Context, businessNumber string, cart models.Cart) (Quote, error) {
	catalog, err := s.catalog.Catalog(ctx)
	if err != nil {
		return Quote{}, fmt.Errorf("load catalog: %w", err)
	}

	q := Quote{
		Totals:      models.ComputeTotals(cart, catalog),
		Eligibility: promo.Evaluate(cart, catalog),
	}

	normalized, err := models.NormalizeBusinessNumber(businessNumber)
	if err != nil {
		return Quote{}, err
	}

	used, err := s.usage.GetUsed(ctx, normalized, models.YearMonth(s.now()))
	if err != nil {
		s.log.Warn("monthly usage read failed, assuming zero",
			zap.String("business_number", normalized),
			zap.Error(err))
		used = 0
	}
	q.UsedThisMonth = used
	q.GrantedFreeBoxes = promo.Allocate(q.Eligibility.RawFreeBoxes, used, promo.MonthlyCap)

	if q.GrantedFreeBoxes > 0 {
		if p, ok := promo.SelectFreeProduct(cart, catalog); ok {
			q.FreeProduct = &p
			freeValue := int64(q.GrantedFreeBoxes) * p.Price
			q.DiscountPercent = promo.DiscountPercent(q.Totals.Amount, freeValue)
		}
	}
	if avg, ok := promo.AverageBoxPrice(q.Totals.Amount, q.Eligibility.PaidEligibleBoxes, q.GrantedFreeBoxes); ok {
		q.AverageBoxPrice = avg
	}
	return q, nil
}

// Submit persists the order and then settles the bookkeeping around it.
// The order insert is the authoritative event: ledger and entitlement
// writes that follow are best-effort and never roll it back.
func (s *OrderService) Submit(ctx context.Context, req SubmitRequest) (*models.Order, error) {
	if len(req.Cart) == 0 {
		return nil, ErrEmptyCart
	}
	normalized, err := models.NormalizeBusinessNumber(req.BusinessNumber)
	if err != nil {
		return nil, err
	}

	quote, err := s.Quote(ctx, normalized, req.Cart)
	if err != nil {
		return nil, err
	}

	catalog, err := s.catalog.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	// First-order check happens before the insert; the unique constraint on
	// the entitlement table catches whatever this check races past.
	shouldGrant := s.shouldGrantApron(ctx, req.UserID)

	order := s.buildOrder(req, normalized, quote, catalog)
	if err := s.orders.Create(ctx, order); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrAmbiguousOutcome, err)
		}
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.afterOrder(ctx, order, quote, shouldGrant)
	return order, nil
}

func (s *OrderService) buildOrder(req SubmitRequest, businessNumber string, quote Quote, catalog models.Catalog) *models.Order {
	now := s.now()
	order := &models.Order{
		ID:              uuid.NewString(),
		UserID:          req.UserID,
		BusinessName:    req.BusinessName,
		BusinessNumber:  businessNumber,
		Phone:           req.Phone,
		DeliveryAddress: req.DeliveryAddress,
		TotalBoxes:      quote.Eligibility.PaidEligibleBoxes + quote.GrantedFreeBoxes,
		WaterBoxes:      quote.Totals.AllBoxes - quote.Totals.EligibleBoxes,
		TotalAmount:     quote.Totals.Amount,
		Status:          models.OrderPending,
		PaymentStatus:   models.PaymentUnpaid,
		CreatedAt:       now,
	}

	for _, id := range req.Cart.ProductIDs() {
		p, ok := catalog[id]
		if !ok {
			continue
		}
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    req.Cart[id],
			Price:       p.Price,
		})
	}

	if quote.GrantedFreeBoxes > 0 && quote.FreeProduct != nil {
		order.ServiceItems = append(order.ServiceItems, models.OrderItem{
			ProductID:   quote.FreeProduct.ID,
			ProductName: quote.FreeProduct.Name,
			Quantity:    quote.GrantedFreeBoxes,
			Price:       0,
		})
	}
	return order
}

func (s *OrderService) shouldGrantApron(ctx context.Context, userID string) bool {
	orderCount, err := s.orders.CountByUser(ctx, userID)
	if err != nil {
		s.log.Warn("prior-order count failed, skipping apron grant", zap.Error(err))
		return false
	}
	grantCount, err := s.entitlements.CountForUser(ctx, userID)
	if err != nil {
		s.log.Warn("entitlement count failed, skipping apron grant", zap.Error(err))
		return false
	}
	return orderCount == 0 && grantCount == 0
}

// afterOrder runs the post-order bookkeeping. Both writes are detached
// from the request's cancellation: a client that has already timed out
// must not abort writes for an order that was persisted.
func (s *OrderService) afterOrder(ctx context.Context, order *models.Order, quote Quote, shouldGrant bool) {
	detached, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	var tasks []concurrency.Task
	if quote.GrantedFreeBoxes > 0 {
		tasks = append(tasks, func(ctx context.Context) {
			total, err := s.usage.RecordUsage(ctx, order.BusinessNumber, models.YearMonth(order.CreatedAt), quote.GrantedFreeBoxes, promo.MonthlyCap)
			if err != nil {
				s.log.Error("usage ledger write failed, order stands",
					zap.String("order_id", order.ID),
					zap.String("business_number", order.BusinessNumber),
					zap.Int("granted", quote.GrantedFreeBoxes),
					zap.Error(err))
				return
			}
			s.log.Info("monthly usage recorded",
				zap.String("business_number", order.BusinessNumber),
				zap.Int("used_free_boxes", total))
		})
	}
	if shouldGrant {
		tasks = append(tasks, func(ctx context.Context) {
			GrantApron(ctx, s.entitlements, s.log, models.UserProfile{
				ID:             order.UserID,
				BusinessName:   order.BusinessName,
				BusinessNumber: order.BusinessNumber,
				Phone:          order.Phone,
				Address:        order.DeliveryAddress,
			}, s.now())
		})
	}
	concurrency.Run(detached, 2, tasks)
}

// GrantApron creates the one-time apron entitlement. Both the first-order
// path and the manager "verified as new" path go through here so the two
// never diverge. A duplicate is reported, not errored: the grant already
// exists, which is the desired end state.
func GrantApron(ctx context.Context, store EntitlementStore, log *zap.Logger, user models.UserProfile, at time.Time) {
	created, err := store.Create(ctx, models.ApronRequest{
		ID:              uuid.NewString(),
		UserID:          user.ID,
		Quantity:        ApronQuantity,
		Status:          models.ApronPending,
		BusinessName:    user.BusinessName,
		BusinessNumber:  user.BusinessNumber,
		Phone:           user.Phone,
		DeliveryAddress: user.Address,
		CreatedAt:       at,
	})
	if err != nil {
		log.Error("apron grant failed, order stands",
			zap.String("user_id", user.ID),
			zap.Error(err))
		return
	}
	if !created {
		log.Info("apron already granted", zap.String("user_id", user.ID))
		return
	}
	log.Info("apron granted",
		zap.String("user_id", user.ID),
		zap.Int("quantity", ApronQuantity))
}
