package repository

import (
	"context"

	"restaurant-pos/internal/model"

	"gorm.io/gorm"
)

// RoleRepository defines data access for the role and permission catalog.
// It also satisfies auth.Registry for effective-permission resolution.
type RoleRepository interface {
	CreateRole(ctx context.Context, role *model.Role) error
	GetRoleByID(ctx context.Context, id uint) (*model.Role, error)
	GetRoleByName(ctx context.Context, name string) (*model.Role, error)
	ListRoles(ctx context.Context) ([]model.Role, error)
	ReplacePermissions(ctx context.Context, role *model.Role, perms []model.Permission) error

	CreatePermission(ctx context.Context, perm *model.Permission) error
	GetPermissionByName(ctx context.Context, name string) (*model.Permission, error)
	FindPermissionsByNames(ctx context.Context, names []string) ([]model.Permission, error)
	FindOrCreatePermission(ctx context.Context, perm *model.Permission) error
	ListPermissions(ctx context.Context) ([]model.Permission, error)

	ListPermissionNames(ctx context.Context) ([]string, error)
	PermissionNamesForRole(ctx context.Context, roleName string) ([]string, error)
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) CreateRole(ctx context.Context, role *model.Role) error {
	return translate(dbFrom(ctx, r.db).Create(role).Error)
}

func (r *roleRepository) GetRoleByID(ctx context.Context, id uint) (*model.Role, error) {
	var role model.Role
	if err := dbFrom(ctx, r.db).Preload("Permissions").First(&role, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &role, nil
}

func (r *roleRepository) GetRoleByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	if err := dbFrom(ctx, r.db).Preload("Permissions").First(&role, "name = ?", name).Error; err != nil {
		return nil, translate(err)
	}
	return &role, nil
}

func (r *roleRepository) ListRoles(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	if err := dbFrom(ctx, r.db).Preload("Permissions").Order("name ASC").Find(&roles).Error; err != nil {
		return nil, translate(err)
	}
	return roles, nil
}

// ReplacePermissions swaps the role's grant set wholesale. Grants are
// value-replaced, never diffed.
func (r *roleRepository) ReplacePermissions(ctx context.Context, role *model.Role, perms []model.Permission) error {
	err := dbFrom(ctx, r.db).Model(role).Association("Permissions").Replace(perms)
	return translate(err)
}

func (r *roleRepository) CreatePermission(ctx context.Context, perm *model.Permission) error {
	return translate(dbFrom(ctx, r.db).Create(perm).Error)
}

func (r *roleRepository) GetPermissionByName(ctx context.Context, name string) (*model.Permission, error) {
	var perm model.Permission
	if err := dbFrom(ctx, r.db).First(&perm, "name = ?", name).Error; err != nil {
		return nil, translate(err)
	}
	return &perm, nil
}

func (r *roleRepository) FindPermissionsByNames(ctx context.Context, names []string) ([]model.Permission, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var perms []model.Permission
	if err := dbFrom(ctx, r.db).Where("name IN ?", names).Find(&perms).Error; err != nil {
		return nil, translate(err)
	}
	return perms, nil
}

func (r *roleRepository) FindOrCreatePermission(ctx context.Context, perm *model.Permission) error {
	return translate(dbFrom(ctx, r.db).Where("name = ?", perm.Name).FirstOrCreate(perm).Error)
}

func (r *roleRepository) ListPermissions(ctx context.Context) ([]model.Permission, error) {
	var perms []model.Permission
	if err := dbFrom(ctx, r.db).Order("category ASC, name ASC").Find(&perms).Error; err != nil {
		return nil, translate(err)
	}
	return perms, nil
}

func (r *roleRepository) ListPermissionNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := dbFrom(ctx, r.db).Model(&model.Permission{}).Order("name ASC").Pluck("name", &names).Error; err != nil {
		return nil, translate(err)
	}
	return names, nil
}

// PermissionNamesForRole returns the grant names joined to a role, or
// NotFound if the role itself does not exist.
func (r *roleRepository) PermissionNamesForRole(ctx context.Context, roleName string) ([]string, error) {
	role, err := r.GetRoleByName(ctx, roleName)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(role.Permissions))
	for _, p := range role.Permissions {
		names = append(names, p.Name)
	}
	return names, nil
}
