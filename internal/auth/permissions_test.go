package auth

import (
	"context"
	"testing"

	"restaurant-pos/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRegistry struct {
	all   []string
	roles map[string][]string
}

func (f *fakeRegistry) ListPermissionNames(ctx context.Context) ([]string, error) {
	return f.all, nil
}

func (f *fakeRegistry) PermissionNamesForRole(ctx context.Context, roleName string) ([]string, error) {
	grants, ok := f.roles[roleName]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return grants, nil
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		all: []string{"view_menu", "create_order", "manage_roles"},
		roles: map[string][]string{
			"waiter": {"view_menu", "create_order"},
			"empty":  {},
		},
	}
}

func TestAdminResolvesToWildcard(t *testing.T) {
	r := NewResolver(newFakeRegistry())

	set, err := r.ResolveEffectivePermissions(context.Background(), "admin")
	require.NoError(t, err)

	assert.True(t, set.IsWildcard())
	assert.True(t, set.Has("manage_roles"))
	assert.True(t, set.Has("anything_at_all"), "wildcard grants names outside the registry too")
	assert.Equal(t, []string{"create_order", "manage_roles", "view_menu"}, set.Names())
}

func TestStandardRoleResolvesToGrants(t *testing.T) {
	r := NewResolver(newFakeRegistry())

	set, err := r.ResolveEffectivePermissions(context.Background(), "waiter")
	require.NoError(t, err)

	assert.False(t, set.IsWildcard())
	assert.True(t, set.Has("view_menu"))
	assert.True(t, set.Has("create_order"))
	assert.False(t, set.Has("manage_roles"))
}

func TestUnknownRoleResolvesToEmptySet(t *testing.T) {
	r := NewResolver(newFakeRegistry())

	set, err := r.ResolveEffectivePermissions(context.Background(), "ghost")
	require.NoError(t, err, "unknown roles deny access, they do not error")

	assert.False(t, set.IsWildcard())
	assert.False(t, set.Has("view_menu"))
	assert.Empty(t, set.Names())
}

func TestWildcardSentinelInStandardSet(t *testing.T) {
	set := NewSet("view_menu", Wildcard)

	assert.False(t, set.IsWildcard())
	assert.True(t, set.Has("view_menu"))
	assert.True(t, set.Has("delete_order"), "a stored '*' grant behaves as allow-all")
}

func TestEmptyGrantListDeniesEverything(t *testing.T) {
	r := NewResolver(newFakeRegistry())

	set, err := r.ResolveEffectivePermissions(context.Background(), "empty")
	require.NoError(t, err)
	assert.False(t, set.Has("view_menu"))
}
