package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem is a tracked stock line (ingredients, packaging). Stock is
// decimal so weighed goods can be tracked fractionally.
type InventoryItem struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Name         string          `gorm:"type:varchar(255);not null" json:"name"`
	CurrentStock decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"current_stock"`
	MinStock     decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"min_stock"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// LowStock reports whether the item has fallen to or below its minimum.
func (i InventoryItem) LowStock() bool {
	return i.CurrentStock.LessThanOrEqual(i.MinStock)
}
