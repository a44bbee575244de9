package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill statuses.
const (
	BillStatusPending   = "pending"
	BillStatusPaid      = "paid"
	BillStatusCancelled = "cancelled"
)

// Bill is the financial settlement record for an order. Exactly one bill is
// created per order, as a side effect of the ready → delivered transition,
// and it is retained after order completion for audit.
type Bill struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OrderID       uint            `gorm:"not null;uniqueIndex" json:"order_id"`
	BillNumber    string          `gorm:"type:varchar(40);uniqueIndex;not null" json:"bill_number"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Tax           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"tax"`
	Total         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	PaymentMethod *string         `gorm:"type:varchar(30)" json:"payment_method"`
	Status        string          `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	GeneratedAt   time.Time       `gorm:"not null" json:"generated_at"`
	PaidAt        *time.Time      `json:"paid_at"`
}
