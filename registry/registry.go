package registry

import (
	"context"

	"github.com/quarrylabs/tessera/core"
)

// TenantRegistry persists tenant records independently of the vector
// store's namespaces. Implementations must be thread-safe.
type TenantRegistry interface {
	// CreateTenant registers a new tenant.
	// Sets CreatedAt and UpdatedAt timestamps if not already set.
	// Returns ErrTenantExists if the tenant id is already registered.
	CreateTenant(ctx context.Context, tenant *core.Tenant) (*core.Tenant, error)

	// GetTenant retrieves a single tenant by id.
	// Returns ErrTenantNotFound if the tenant is not registered.
	GetTenant(ctx context.Context, id string) (*core.Tenant, error)

	// EnsureTenant finds or registers a tenant by id.
	// Thread-safe: handles concurrent registration attempts.
	EnsureTenant(ctx context.Context, id string) (*core.Tenant, error)

	// ListTenants retrieves every registered tenant, ordered by id.
	ListTenants(ctx context.Context) ([]*core.Tenant, error)

	// DeleteTenant removes a tenant's registry entry.
	// Returns ErrTenantNotFound if the tenant is not registered.
	// Removing the entry does not touch the tenant's vector records.
	DeleteTenant(ctx context.Context, id string) error

	// Close closes the registry backend and releases resources.
	Close() error
}
