package service

import (
	"context"
	"testing"

	"restaurant-pos/internal/auth"
	"restaurant-pos/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDefaultsCreatesRegistryAndRoles(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	ctx := context.Background()

	perms, err := env.roleService.ListPermissions(ctx)
	require.NoError(t, err)
	assert.Len(t, perms, 27)

	roles, err := env.roleService.ListRoles(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 7)

	byName := make(map[string][]string)
	for _, r := range roles {
		names := make([]string, 0, len(r.Permissions))
		for _, p := range r.Permissions {
			names = append(names, p.Name)
		}
		byName[r.Name] = names
	}

	assert.ElementsMatch(t, []string{
		"view_menu", "view_orders", "mark_order_preparing",
		"mark_order_ready", "confirm_order_delivery", "kitchen_display",
	}, byName["chef"])
	assert.Len(t, byName["waiter"], 8)
	assert.Contains(t, byName["waiter"], "process_payments")
	assert.Equal(t, []string{"manage_qr_codes"}, byName["customer"])
	assert.Len(t, byName["admin"], 24)
}

func TestSeedDefaultsIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	env.seed(t)
	ctx := context.Background()

	perms, err := env.roleService.ListPermissions(ctx)
	require.NoError(t, err)
	assert.Len(t, perms, 27)

	roles, err := env.roleService.ListRoles(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 7)
}

func TestCreateRoleDropsUnknownPermissionNames(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	ctx := context.Background()

	role, err := env.roleService.CreateRole(ctx, CreateRoleRequest{
		Name:        "host",
		Description: "Front of house",
		Permissions: []string{"view_menu", "does_not_exist", "view_orders"},
	})
	require.NoError(t, err, "unknown names are dropped, not rejected")

	granted := make([]string, 0, len(role.Permissions))
	for _, p := range role.Permissions {
		granted = append(granted, p.Name)
	}
	assert.ElementsMatch(t, []string{"view_menu", "view_orders"}, granted)
	assert.False(t, role.IsDefault)
}

func TestCreateRoleDuplicateNameConflicts(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	_, err := env.roleService.CreateRole(context.Background(), CreateRoleRequest{Name: "waiter"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestUpdateRolePermissionsReplacesWholesale(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	ctx := context.Background()

	roles, err := env.roleService.ListRoles(ctx)
	require.NoError(t, err)
	var chefID uint
	for _, r := range roles {
		if r.Name == "chef" {
			chefID = r.ID
		}
	}
	require.NotZero(t, chefID)

	updated, err := env.roleService.UpdateRolePermissions(ctx, chefID, UpdateRolePermissionsRequest{
		Permissions: []string{"view_menu"},
	})
	require.NoError(t, err)
	require.Len(t, updated.Permissions, 1)
	assert.Equal(t, "view_menu", updated.Permissions[0].Name)
}

func TestCreatePermissionDuplicateConflicts(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	_, err := env.roleService.CreatePermission(context.Background(), CreatePermissionRequest{
		Name:     "view_menu",
		Category: "menu_management",
	})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestCreatePermissionRejectsUnknownCategory(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	_, err := env.roleService.CreatePermission(context.Background(), CreatePermissionRequest{
		Name:     "export_reports",
		Category: "bookkeeping",
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	// Nothing is persisted for the rejected request.
	_, err = env.roles.GetPermissionByName(context.Background(), "export_reports")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMyPermissionsAdminGetsWildcard(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	perms, err := env.roleService.MyPermissions(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, []string{auth.Wildcard}, perms)
}

func TestMyPermissionsStandardRoleEnumerates(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	perms, err := env.roleService.MyPermissions(context.Background(), "customer")
	require.NoError(t, err)
	assert.Equal(t, []string{"manage_qr_codes"}, perms)
}

func TestMyPermissionsUnknownRoleIsEmpty(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	perms, err := env.roleService.MyPermissions(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, perms)
}
