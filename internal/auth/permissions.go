// Package auth resolves a role name into its effective permission set.
// Authorization is two-tier: the admin role is a superuser checked by
// identity, every other role is checked against its stored grants.
package auth

import (
	"context"
	"errors"
	"sort"

	"restaurant-pos/internal/model"
	"restaurant-pos/pkg/apperr"
)

// Wildcard is the sentinel permission meaning "everything". It appears in
// degraded/offline permission lists and in /api/my-permissions responses for
// admins.
const Wildcard = "*"

// ErrResolverNotReady means permission checks were attempted before the
// resolver was wired up at startup.
var ErrResolverNotReady = errors.New("auth: permission resolver not initialized")

// EffectiveSet is the resolved permission set for one role: either the
// superuser tier (wildcard over the whole registry) or an explicit grant set.
type EffectiveSet struct {
	wildcard bool
	names    map[string]struct{}
}

// NewSet builds a standard (non-wildcard) set from explicit grant names.
func NewSet(names ...string) EffectiveSet {
	s := EffectiveSet{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		s.names[n] = struct{}{}
	}
	return s
}

// NewWildcardSet builds the superuser tier. The registry snapshot is kept so
// Names can still enumerate what the wildcard currently expands to.
func NewWildcardSet(registry ...string) EffectiveSet {
	s := NewSet(registry...)
	s.wildcard = true
	return s
}

// Has reports whether the set grants the named permission. A wildcard set
// grants everything; a standard set grants a name only if it holds the name
// literally or holds the "*" sentinel.
func (s EffectiveSet) Has(name string) bool {
	if s.wildcard {
		return true
	}
	if _, ok := s.names[Wildcard]; ok {
		return true
	}
	_, ok := s.names[name]
	return ok
}

// IsWildcard reports whether this is the superuser tier.
func (s EffectiveSet) IsWildcard() bool { return s.wildcard }

// Names returns the sorted grant names. For a wildcard set this is the
// registry snapshot taken at resolution time.
func (s EffectiveSet) Names() []string {
	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Registry is the read side of the permission catalog the resolver needs.
// Satisfied by repository.RoleRepository.
type Registry interface {
	ListPermissionNames(ctx context.Context) ([]string, error)
	PermissionNamesForRole(ctx context.Context, roleName string) ([]string, error)
}

// Resolver maps role names to effective permission sets.
type Resolver struct {
	registry Registry
}

func NewResolver(registry Registry) *Resolver {
	return &Resolver{registry: registry}
}

// ResolveEffectivePermissions returns the effective set for a role name.
// The admin role resolves to the full registry regardless of any stored
// grants for an "admin" role row. An unknown role resolves to the empty set
// rather than an error; failing open to "no access" is the safety default.
func (r *Resolver) ResolveEffectivePermissions(ctx context.Context, roleName string) (EffectiveSet, error) {
	if roleName == model.AdminRole {
		all, err := r.registry.ListPermissionNames(ctx)
		if err != nil {
			return EffectiveSet{}, err
		}
		return NewWildcardSet(all...), nil
	}

	grants, err := r.registry.PermissionNamesForRole(ctx, roleName)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return NewSet(), nil
		}
		return EffectiveSet{}, err
	}
	return NewSet(grants...), nil
}
