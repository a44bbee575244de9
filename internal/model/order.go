package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order status lifecycle: pending → preparing → ready → delivered → completed.
// Cancellation is out of band (orders are deleted, not transitioned).
const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusDelivered = "delivered"
	OrderStatusCompleted = "completed"
)

// Order types.
const (
	OrderTypeDineIn   = "DINE_IN"
	OrderTypeTakeaway = "TAKEAWAY"
)

// TakeawayTable is the table_name sentinel for non-dine-in orders.
const TakeawayTable = "Takeaway"

// OrderStatuses lists every valid status in lifecycle order.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusDelivered,
	OrderStatusCompleted,
}

// Order is a customer's placed items tracked through the status lifecycle.
// Total is caller-supplied at placement and not re-validated server-side.
type Order struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	TableName     string          `gorm:"type:varchar(50);not null;index" json:"table_name"`
	Type          string          `gorm:"type:varchar(20);not null" json:"type"`
	Status        string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Total         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	Timestamp     time.Time       `gorm:"not null" json:"timestamp"`
	BillRequested bool            `gorm:"default:false" json:"bill_requested"`
	DeliveredAt   *time.Time      `json:"delivered_at"`
	BillGenerated bool            `gorm:"default:false" json:"bill_generated"`
	PaymentMethod *string         `gorm:"type:varchar(30)" json:"payment_method"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// OrderItem is a line on an order. Name and Price are denormalized snapshots
// so historical orders stay correct if the menu item is edited or deleted;
// MenuItemID is nullable for the same reason.
type OrderItem struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	OrderID    uint            `gorm:"not null;index" json:"order_id"`
	MenuItemID *uint           `json:"menu_item_id"`
	Name       string          `gorm:"type:varchar(255);not null" json:"name"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}

// ValidOrderStatus reports whether s is one of the lifecycle statuses.
func ValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}
