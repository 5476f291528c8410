package models

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// OrderItem snapshots the product at order time; the name and price are
// copied so later catalog edits never rewrite history. Service items carry
// price 0.
type OrderItem struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Price       int64  `json:"price"`
}

// Order is the persisted snapshot of a submitted order. Items and amounts
// are immutable once created; only Status and PaymentStatus transition.
type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	BusinessName    string      `json:"business_name"`
	BusinessNumber  string      `json:"business_number"`
	Phone           string      `json:"phone"`
	DeliveryAddress string      `json:"delivery_address"`
	Items           []OrderItem `json:"items"`         // paid lines
	ServiceItems    []OrderItem `json:"service_items"` // free lines, price 0
	// TotalBoxes counts paid eligible boxes plus free boxes. Water is paid
	// and delivered but tracked separately in WaterBoxes.
	TotalBoxes    int           `json:"total_boxes"`
	WaterBoxes    int           `json:"water_boxes"`
	TotalAmount   int64         `json:"total_amount"` // paid subtotals only; free items never contribute
	Status        OrderStatus   `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

type ApronStatus string

const (
	ApronPending   ApronStatus = "pending"
	ApronCompleted ApronStatus = "completed"
)

// ApronRequest is the one-time first-order entitlement. At most one row may
// exist per user; the store enforces this with a unique constraint.
type ApronRequest struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	Quantity        int         `json:"quantity"`
	Status          ApronStatus `json:"status"`
	BusinessName    string      `json:"business_name"`
	BusinessNumber  string      `json:"business_number"`
	Phone           string      `json:"phone"`
	DeliveryAddress string      `json:"delivery_address"`
	CreatedAt       time.Time   `json:"created_at"`
}

type VerificationStatus string

const (
	VerifiedExisting VerificationStatus = "verified_existing"
	VerifiedNew      VerificationStatus = "verified_new"
	Blocked          VerificationStatus = "blocked"
)

// UserProfile is the slice of the member record the promotion engine needs.
type UserProfile struct {
	ID                 string
	Name               string
	Email              string
	BusinessName       string
	BusinessNumber     string
	Phone              string
	Address            string
	VerificationStatus VerificationStatus
}
