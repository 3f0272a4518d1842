package domain

import "github.com/shopspring/decimal"

// OrderStatus is the order state vocabulary of the back office. Values outside
// the known set are kept as-is.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists the known order statuses.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusCompleted,
	OrderStatusCancelled,
	OrderStatusShipped,
}

// Known reports whether s belongs to the known vocabulary.
func (s OrderStatus) Known() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Order represents a customer order
type Order struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"user_id"`
	CustomerName string          `json:"customer_name,omitempty"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Status       OrderStatus     `json:"status"`
	CreatedAt    Timestamp       `json:"created_at"`
}
