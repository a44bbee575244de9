package model

import "time"

// AdminRole is the superuser role. It is checked by name and holds the full
// permission universe regardless of its stored grants.
const AdminRole = "admin"

// Permission categories. Fixed enumeration; CreatePermission validates
// against this list.
const (
	CategoryUserManagement      = "user_management"
	CategoryMenuManagement      = "menu_management"
	CategoryOrderManagement     = "order_management"
	CategoryInventoryManagement = "inventory_management"
	CategoryBilling             = "billing"
	CategoryReporting           = "reporting"
	CategorySettings            = "settings"
)

// PermissionCategories lists every valid category.
var PermissionCategories = []string{
	CategoryUserManagement,
	CategoryMenuManagement,
	CategoryOrderManagement,
	CategoryInventoryManagement,
	CategoryBilling,
	CategoryReporting,
	CategorySettings,
}

// Role is a named bundle of permissions assigned to users by name.
type Role struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Description string       `gorm:"type:text" json:"description"`
	IsDefault   bool         `gorm:"default:false" json:"is_default"` // seeded built-in role
	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions"`
	CreatedAt   time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

// Permission is an atomic capability identifier, e.g. "mark_order_ready".
type Permission struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Category    string `gorm:"type:varchar(50);not null;index" json:"category"`
	Description string `gorm:"type:text" json:"description"`
}
