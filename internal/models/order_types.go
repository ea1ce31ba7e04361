package models

import (
	"fmt"
	"time"
)

// OrderStatus is the fulfillment axis of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// PaymentStatus is the money-received axis, tracked independently from
// fulfillment. Setting one never derives the other.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// orderTransitions is the legal forward path plus cancellation.
// delivered and cancelled are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered, OrderCancelled},
	OrderDelivered:  {},
	OrderCancelled:  {},
}

// ParseOrderStatus validates a raw status string from a request body.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	status := OrderStatus(s)
	_, ok := orderTransitions[status]
	return status, ok
}

// ParsePaymentStatus validates a raw payment status string.
func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch status := PaymentStatus(s); status {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return status, true
	default:
		return "", false
	}
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further status change is allowed.
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// NewOrderNumber builds the public order reference, e.g. BK-1718000000000.
func NewOrderNumber(now time.Time) string {
	return fmt.Sprintf("BK-%d", now.UnixMilli())
}

// ShippingInfo is the checkout form payload. All fields except Notes
// are required before an order may be created.
type ShippingInfo struct {
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	Address    string `json:"address" binding:"required"`
	City       string `json:"city" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
	Notes      string `json:"notes"`
}

// Order is the model for the 'orders' table
type Order struct {
	ID            int64         `json:"id" db:"id"`
	OrderNumber   string        `json:"order_number" db:"order_number"`
	UserID        int64         `json:"userId" db:"user_id"`
	TotalAmount   float64       `json:"total_amount" db:"total_amount"`
	Status        OrderStatus   `json:"status" db:"status"`
	PaymentStatus PaymentStatus `json:"payment_status" db:"payment_status"`

	ShippingName       string  `json:"shipping_name" db:"shipping_name"`
	ShippingPhone      string  `json:"shipping_phone" db:"shipping_phone"`
	ShippingAddress    string  `json:"shipping_address" db:"shipping_address"`
	ShippingCity       string  `json:"shipping_city" db:"shipping_city"`
	ShippingPostalCode string  `json:"shipping_postal_code" db:"shipping_postal_code"`
	ShippingCost       float64 `json:"shipping_cost" db:"shipping_cost"`

	TrackingNumber *string `json:"tracking_number,omitempty" db:"tracking_number"`
	ShippingNotes  *string `json:"shipping_notes,omitempty" db:"shipping_notes"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Joins (not DB columns, populated by handlers)
	CustomerName  string      `json:"customer_name,omitempty" db:"-"`
	CustomerEmail string      `json:"customer_email,omitempty" db:"-"`
	Items         []OrderItem `json:"items,omitempty" db:"-"`
}

// OrderItem is the model for the 'order_items' table. Title and UnitPrice
// are copied from the book at order time.
type OrderItem struct {
	ID        int64     `json:"id" db:"id"`
	OrderID   int64     `json:"orderId" db:"order_id"`
	BookID    int64     `json:"bookId" db:"book_id"`
	BookTitle string    `json:"book_title" db:"book_title"`
	Quantity  int       `json:"quantity" db:"quantity"`
	UnitPrice float64   `json:"unit_price" db:"unit_price"`
	LineTotal float64   `json:"total" db:"line_total"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
