// Package tenant carries the active tenant scope through request contexts.
// The scope is an explicit context value installed once per request, never a
// process-wide variable, so concurrent requests for different tenants stay
// isolated.
package tenant

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNoScope is returned when a core operation runs without a tenant scope.
var ErrNoScope = errors.New("tenant: no tenant scope in context")

type contextKey struct{}

// NewContext returns a context carrying the given tenant ID
func NewContext(ctx context.Context, tenantID uint) context.Context {
	return context.WithValue(ctx, contextKey{}, tenantID)
}

// FromContext retrieves the tenant ID from the context
func FromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(contextKey{}).(uint)
	return id, ok
}

// MustFromContext retrieves the tenant ID or fails with ErrNoScope
func MustFromContext(ctx context.Context) (uint, error) {
	id, ok := FromContext(ctx)
	if !ok {
		return 0, ErrNoScope
	}
	return id, nil
}

// Scope returns a gorm scope restricting queries to the context's tenant.
// Apply it to every query touching tenant-owned rows.
func Scope(ctx context.Context) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		id, ok := FromContext(ctx)
		if !ok {
			db.AddError(ErrNoScope)
			return db
		}
		return db.Where("tenant_id = ?", id)
	}
}
