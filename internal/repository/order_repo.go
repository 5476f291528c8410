package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/drinkport/beverage-promo-service/internal/models"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// Create persists the order and its item snapshots in one transaction.
// The order is the authoritative business event; callers must not roll it
// back for failures in the bookkeeping that follows it.
func (r *OrderRepo) Create(ctx context.Context, o *models.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const insertOrder = `
		INSERT INTO orders
		(id, user_id, business_name, business_number, phone, delivery_address,
		 total_boxes, water_boxes, total_amount, status, payment_status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`
	_, err = tx.ExecContext(ctx, insertOrder,
		o.ID,
		o.UserID,
		o.BusinessName,
		o.BusinessNumber,
		o.Phone,
		o.DeliveryAddress,
		o.TotalBoxes,
		o.WaterBoxes,
		o.TotalAmount,
		o.Status,
		o.PaymentStatus,
		o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	const insertItem = `
		INSERT INTO order_items (order_id, product_id, product_name, quantity, price, is_service)
		VALUES ($1,$2,$3,$4,$5,$6)
	`
	for _, it := range o.Items {
		if _, err := tx.ExecContext(ctx, insertItem, o.ID, it.ProductID, it.ProductName, it.Quantity, it.Price, false); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	for _, it := range o.ServiceItems {
		if _, err := tx.ExecContext(ctx, insertItem, o.ID, it.ProductID, it.ProductName, it.Quantity, it.Price, true); err != nil {
			return fmt.Errorf("insert service item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

// CountByUser reports how many orders the user has ever placed, cancelled
// ones included. Used for the first-order entitlement check.
func (r *OrderRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

// ListByBusiness returns a business's orders, newest first, items attached.
func (r *OrderRepo) ListByBusiness(ctx context.Context, businessNumber string) ([]models.Order, error) {
	const query = `
		SELECT id, user_id, business_name, business_number, phone, delivery_address,
		       total_boxes, water_boxes, total_amount, status, payment_status, paid_at, created_at
		FROM orders
		WHERE business_number = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, businessNumber)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		var paidAt sql.NullTime
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.BusinessName, &o.BusinessNumber, &o.Phone, &o.DeliveryAddress,
			&o.TotalBoxes, &o.WaterBoxes, &o.TotalAmount, &o.Status, &o.PaymentStatus, &paidAt, &o.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if paidAt.Valid {
			t := paidAt.Time
			o.PaidAt = &t
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		paid, service, err := r.itemsForOrder(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = paid
		orders[i].ServiceItems = service
	}
	return orders, nil
}

func (r *OrderRepo) itemsForOrder(ctx context.Context, orderID string) (paid, service []models.OrderItem, err error) {
	const query = `
		SELECT product_id, product_name, quantity, price, is_service
		FROM order_items
		WHERE order_id = $1
		ORDER BY product_id
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it models.OrderItem
		var isService bool
		if err := rows.Scan(&it.ProductID, &it.ProductName, &it.Quantity, &it.Price, &isService); err != nil {
			return nil, nil, fmt.Errorf("scan order item: %w", err)
		}
		if isService {
			service = append(service, it)
		} else {
			paid = append(paid, it)
		}
	}
	return paid, service, rows.Err()
}

// UpdateStatus moves the order through its lifecycle (confirm, cancel, ...).
func (r *OrderRepo) UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, orderID, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// MarkPaid records settlement of the order.
func (r *OrderRepo) MarkPaid(ctx context.Context, orderID string, paidAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET payment_status = $2, paid_at = $3 WHERE id = $1`,
		orderID, models.PaymentPaid, paidAt,
	)
	if err != nil {
		return fmt.Errorf("mark paid: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOrderNotFound
	}
	return nil
}
