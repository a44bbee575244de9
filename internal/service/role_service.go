package service

import (
	"context"
	"slices"

	"restaurant-pos/internal/auth"
	"restaurant-pos/internal/model"
	"restaurant-pos/internal/repository"
	"restaurant-pos/pkg/apperr"
)

// --- DTOs ---

type CreatePermissionRequest struct {
	Name        string `json:"name" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Description string `json:"description"`
}

type CreateRoleRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"` // permission names
}

type UpdateRolePermissionsRequest struct {
	Permissions []string `json:"permissions" binding:"required"`
}

type RoleResponse struct {
	ID          uint                 `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	IsDefault   bool                 `json:"is_default"`
	Permissions []PermissionResponse `json:"permissions"`
}

type PermissionResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// --- Interface ---

type RoleService interface {
	ListRoles(ctx context.Context) ([]RoleResponse, error)
	GetRole(ctx context.Context, id uint) (*RoleResponse, error)
	CreateRole(ctx context.Context, req CreateRoleRequest) (*RoleResponse, error)
	UpdateRolePermissions(ctx context.Context, id uint, req UpdateRolePermissionsRequest) (*RoleResponse, error)
	ListPermissions(ctx context.Context) ([]PermissionResponse, error)
	CreatePermission(ctx context.Context, req CreatePermissionRequest) (*PermissionResponse, error)
	MyPermissions(ctx context.Context, roleName string) ([]string, error)
	SeedDefaults(ctx context.Context) error
}

type roleService struct {
	roles     repository.RoleRepository
	resolver  *auth.Resolver
	txManager repository.TransactionManager
}

func NewRoleService(roles repository.RoleRepository, resolver *auth.Resolver, txManager repository.TransactionManager) RoleService {
	return &roleService{roles: roles, resolver: resolver, txManager: txManager}
}

// --- Implementation ---

func (s *roleService) ListRoles(ctx context.Context) ([]RoleResponse, error) {
	roles, err := s.roles.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]RoleResponse, 0, len(roles))
	for _, r := range roles {
		res = append(res, toRoleResponse(r))
	}
	return res, nil
}

func (s *roleService) GetRole(ctx context.Context, id uint) (*RoleResponse, error) {
	role, err := s.roles.GetRoleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toRoleResponse(*role)
	return &resp, nil
}

// CreateRole creates a custom role. Permission names that do not exist
// in the registry are dropped without error.
func (s *roleService) CreateRole(ctx context.Context, req CreateRoleRequest) (*RoleResponse, error) {
	if req.Name == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "role name is required")
	}
	if existing, err := s.roles.GetRoleByName(ctx, req.Name); err == nil && existing != nil {
		return nil, apperr.Wrapf(apperr.ErrConflict, "role '%s' already exists", req.Name)
	}

	role := &model.Role{
		Name:        req.Name,
		Description: req.Description,
		IsDefault:   false,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.roles.CreateRole(txCtx, role); err != nil {
			return err
		}
		if len(req.Permissions) == 0 {
			return nil
		}
		perms, err := s.roles.FindPermissionsByNames(txCtx, req.Permissions)
		if err != nil {
			return err
		}
		return s.roles.ReplacePermissions(txCtx, role, perms)
	})
	if err != nil {
		return nil, err
	}

	return s.GetRole(ctx, role.ID)
}

// UpdateRolePermissions replaces the role's grant set wholesale. Unknown
// permission names are dropped without error.
func (s *roleService) UpdateRolePermissions(ctx context.Context, id uint, req UpdateRolePermissionsRequest) (*RoleResponse, error) {
	role, err := s.roles.GetRoleByID(ctx, id)
	if err != nil {
		return nil, err
	}

	perms, err := s.roles.FindPermissionsByNames(ctx, req.Permissions)
	if err != nil {
		return nil, err
	}
	if err := s.roles.ReplacePermissions(ctx, role, perms); err != nil {
		return nil, err
	}

	return s.GetRole(ctx, role.ID)
}

func (s *roleService) ListPermissions(ctx context.Context) ([]PermissionResponse, error) {
	perms, err := s.roles.ListPermissions(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]PermissionResponse, 0, len(perms))
	for _, p := range perms {
		res = append(res, toPermissionResponse(p))
	}
	return res, nil
}

func (s *roleService) CreatePermission(ctx context.Context, req CreatePermissionRequest) (*PermissionResponse, error) {
	if !slices.Contains(model.PermissionCategories, req.Category) {
		return nil, apperr.Wrapf(apperr.ErrValidation, "unknown permission category '%s'", req.Category)
	}
	if existing, err := s.roles.GetPermissionByName(ctx, req.Name); err == nil && existing != nil {
		return nil, apperr.Wrapf(apperr.ErrConflict, "permission '%s' already exists", req.Name)
	}

	perm := &model.Permission{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
	}
	if err := s.roles.CreatePermission(ctx, perm); err != nil {
		return nil, err
	}
	resp := toPermissionResponse(*perm)
	return &resp, nil
}

// MyPermissions returns the caller's effective permission names. Admins
// get the wildcard sentinel instead of an enumeration.
func (s *roleService) MyPermissions(ctx context.Context, roleName string) ([]string, error) {
	set, err := s.resolver.ResolveEffectivePermissions(ctx, roleName)
	if err != nil {
		return nil, err
	}
	if set.IsWildcard() {
		return []string{auth.Wildcard}, nil
	}
	return set.Names(), nil
}

// defaultPermissions is the full built-in registry.
var defaultPermissions = []model.Permission{
	// User Management
	{Name: "view_users", Category: model.CategoryUserManagement, Description: "View all users"},
	{Name: "create_user", Category: model.CategoryUserManagement, Description: "Create new users"},
	{Name: "edit_user", Category: model.CategoryUserManagement, Description: "Edit user details"},
	{Name: "delete_user", Category: model.CategoryUserManagement, Description: "Delete users"},
	{Name: "manage_roles", Category: model.CategoryUserManagement, Description: "Manage roles and permissions"},
	// Menu Management
	{Name: "view_menu", Category: model.CategoryMenuManagement, Description: "View menu items"},
	{Name: "create_menu_item", Category: model.CategoryMenuManagement, Description: "Create menu items"},
	{Name: "edit_menu_item", Category: model.CategoryMenuManagement, Description: "Edit menu items"},
	{Name: "delete_menu_item", Category: model.CategoryMenuManagement, Description: "Delete menu items"},
	// Order Management
	{Name: "view_orders", Category: model.CategoryOrderManagement, Description: "View orders"},
	{Name: "create_order", Category: model.CategoryOrderManagement, Description: "Create orders"},
	{Name: "edit_order", Category: model.CategoryOrderManagement, Description: "Edit orders"},
	{Name: "delete_order", Category: model.CategoryOrderManagement, Description: "Delete orders"},
	{Name: "manage_qr_codes", Category: model.CategoryOrderManagement, Description: "Manage QR codes and access QR ordering"},
	{Name: "mark_order_preparing", Category: model.CategoryOrderManagement, Description: "Mark orders as preparing in KDS"},
	{Name: "mark_order_ready", Category: model.CategoryOrderManagement, Description: "Mark orders as ready for pickup in KDS"},
	{Name: "confirm_order_delivery", Category: model.CategoryOrderManagement, Description: "Confirm order delivery and generate bills"},
	// Inventory Management
	{Name: "view_inventory", Category: model.CategoryInventoryManagement, Description: "View inventory"},
	{Name: "edit_inventory", Category: model.CategoryInventoryManagement, Description: "Edit and manage inventory"},
	// Billing
	{Name: "view_billing", Category: model.CategoryBilling, Description: "View billing information"},
	{Name: "process_payments", Category: model.CategoryBilling, Description: "Process and manage payments"},
	{Name: "view_bills", Category: model.CategoryBilling, Description: "View and access bills"},
	// Reporting & Operations
	{Name: "view_dashboard", Category: model.CategoryReporting, Description: "View analytics dashboard"},
	{Name: "view_reports", Category: model.CategoryReporting, Description: "View detailed reports"},
	{Name: "kitchen_display", Category: model.CategoryReporting, Description: "Access kitchen display system (KDS)"},
	// Settings & Admin
	{Name: "manage_settings", Category: model.CategorySettings, Description: "Manage system settings"},
	{Name: "manage_subfranchise", Category: model.CategorySettings, Description: "Manage sub-franchises"},
}

// defaultRoles maps each built-in role to its grant names.
var defaultRoles = []struct {
	Name        string
	Description string
	Permissions []string
}{
	{
		Name:        "admin",
		Description: "Super Admin - Full system access",
		Permissions: []string{
			"view_users", "create_user", "edit_user", "delete_user", "manage_roles",
			"view_menu", "create_menu_item", "edit_menu_item", "delete_menu_item",
			"view_orders", "create_order", "edit_order", "delete_order", "manage_qr_codes",
			"view_inventory", "edit_inventory",
			"view_billing", "process_payments", "view_bills",
			"view_dashboard", "view_reports", "kitchen_display",
			"manage_settings", "manage_subfranchise",
		},
	},
	{
		Name:        "franchise",
		Description: "Franchise owner - Manages sub-franchises and receives reports",
		Permissions: []string{
			"view_users", "create_user", "edit_user", "manage_roles",
			"view_menu",
			"view_orders",
			"view_dashboard", "view_reports", "manage_qr_codes",
			"manage_subfranchise",
		},
	},
	{
		Name:        "subfranchise",
		Description: "Sub-franchise owner - Full operational control for one location",
		Permissions: []string{
			"view_users", "create_user", "edit_user",
			"view_menu", "create_menu_item", "edit_menu_item", "delete_menu_item",
			"view_orders", "create_order", "edit_order", "delete_order", "manage_qr_codes",
			"view_inventory", "edit_inventory",
			"view_billing", "view_bills",
			"view_dashboard", "kitchen_display",
		},
	},
	{
		Name:        "manager",
		Description: "Restaurant Manager - Day-to-day operational management",
		Permissions: []string{
			"view_users", "create_user", "edit_user",
			"view_menu", "create_menu_item", "edit_menu_item",
			"view_orders", "create_order", "edit_order", "manage_qr_codes",
			"view_inventory", "edit_inventory",
			"view_billing", "view_bills",
			"view_dashboard", "view_reports",
		},
	},
	{
		Name:        "waiter",
		Description: "Waiter/Server - Takes orders and processes payments",
		Permissions: []string{
			"view_menu",
			"view_orders", "create_order", "edit_order", "manage_qr_codes",
			"view_billing", "process_payments", "view_bills",
		},
	},
	{
		Name:        "chef",
		Description: "Chef/Kitchen Staff - Prepares and tracks orders",
		Permissions: []string{
			"view_menu",
			"view_orders", "mark_order_preparing", "mark_order_ready", "confirm_order_delivery",
			"kitchen_display",
		},
	},
	{
		Name:        "customer",
		Description: "Customer - QR code ordering access only",
		Permissions: []string{
			"manage_qr_codes",
		},
	},
}

// SeedDefaults upserts the permission registry and the built-in roles.
// Safe to run on every startup; existing custom roles are untouched and
// built-in role grants are reset to their defaults.
func (s *roleService) SeedDefaults(ctx context.Context) error {
	for i := range defaultPermissions {
		p := defaultPermissions[i]
		p.ID = 0
		if err := s.roles.FindOrCreatePermission(ctx, &p); err != nil {
			return err
		}
	}

	for _, def := range defaultRoles {
		role, err := s.roles.GetRoleByName(ctx, def.Name)
		if err != nil {
			role = &model.Role{
				Name:        def.Name,
				Description: def.Description,
				IsDefault:   true,
			}
			if err := s.roles.CreateRole(ctx, role); err != nil {
				return err
			}
		}

		perms, err := s.roles.FindPermissionsByNames(ctx, def.Permissions)
		if err != nil {
			return err
		}
		if err := s.roles.ReplacePermissions(ctx, role, perms); err != nil {
			return err
		}
	}

	return nil
}

// --- Helpers ---

func toRoleResponse(r model.Role) RoleResponse {
	perms := make([]PermissionResponse, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		perms = append(perms, toPermissionResponse(p))
	}
	return RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		IsDefault:   r.IsDefault,
		Permissions: perms,
	}
}

func toPermissionResponse(p model.Permission) PermissionResponse {
	return PermissionResponse{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
	}
}
