package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/quarrylabs/tessera/core"
	"github.com/quarrylabs/tessera/registry"
)

// Registry implements registry.TenantRegistry for BadgerDB.
type Registry struct {
	backend *Backend
	logger  *slog.Logger
}

var _ registry.TenantRegistry = (*Registry)(nil)

// NewRegistry opens a tenant registry at the given path.
//
// Returns registry.TenantRegistry interface to enforce abstraction.
func NewRegistry(path string) (registry.TenantRegistry, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return newRegistry(backend), nil
}

func newRegistry(backend *Backend) *Registry {
	return &Registry{
		backend: backend,
		logger:  slog.Default().With("component", "tenant-registry"),
	}
}

// Close closes the underlying database.
func (r *Registry) Close() error {
	return r.backend.Close()
}

func (r *Registry) guard() error {
	if r.backend.IsClosed() {
		return registry.ErrRegistryClosed
	}
	return nil
}

// CreateTenant registers a new tenant.
func (r *Registry) CreateTenant(ctx context.Context, tenant *core.Tenant) (*core.Tenant, error) {
	if err := r.guard(); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeTenantKey(tenant.ID)

		_, err := tx.Get(key)
		if err == nil {
			return fmt.Errorf("%w: %s", registry.ErrTenantExists, tenant.ID)
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if tenant.CreatedAt.IsZero() {
			tenant.CreatedAt = time.Now().UTC()
		}
		tenant.UpdatedAt = tenant.CreatedAt

		if err := tx.Set(key, registry.MarshalTenant(tenant)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	r.logger.Info("registered tenant", "tenant", tenant.ID)
	return tenant, nil
}

// GetTenant retrieves a single tenant by id.
func (r *Registry) GetTenant(ctx context.Context, id string) (*core.Tenant, error) {
	if err := r.guard(); err != nil {
		return nil, err
	}

	var result *core.Tenant
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readTenant(tx, makeTenantKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return fmt.Errorf("%w: %s", registry.ErrTenantNotFound, id)
		}
		return nil
	}, false)
	return result, err
}

// EnsureTenant finds or registers a tenant by id.
func (r *Registry) EnsureTenant(ctx context.Context, id string) (*core.Tenant, error) {
	tenant, err := r.GetTenant(ctx, id)
	if err == nil {
		return tenant, nil
	}
	if !errors.Is(err, registry.ErrTenantNotFound) {
		return nil, err
	}

	created, err := r.CreateTenant(ctx, &core.Tenant{ID: id})
	if err != nil {
		// A concurrent caller may have registered it first.
		if errors.Is(err, registry.ErrTenantExists) {
			return r.GetTenant(ctx, id)
		}
		return nil, err
	}
	return created, nil
}

// ListTenants retrieves every registered tenant, ordered by id.
func (r *Registry) ListTenants(ctx context.Context) ([]*core.Tenant, error) {
	if err := r.guard(); err != nil {
		return nil, err
	}

	var results []*core.Tenant
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = tenantScanPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()

			var tenant *core.Tenant
			err := item.Value(func(val []byte) error {
				var err error
				tenant, err = registry.UnmarshalTenant(val)
				return err
			})
			if err != nil {
				return err
			}
			if tenant != nil {
				results = append(results, tenant)
			}
		}
		return nil
	}, false)

	return results, err
}

// DeleteTenant removes a tenant's registry entry.
func (r *Registry) DeleteTenant(ctx context.Context, id string) error {
	if err := r.guard(); err != nil {
		return err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeTenantKey(id)

		tenant, err := readTenant(tx, key)
		if err != nil {
			return err
		}
		if tenant == nil {
			return fmt.Errorf("%w: %s", registry.ErrTenantNotFound, id)
		}

		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}

	r.logger.Info("removed tenant", "tenant", id)
	return nil
}

// readTenant reads a tenant from the transaction.
// Returns nil without error when the key is absent.
func readTenant(tx *badger.Txn, key []byte) (*core.Tenant, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var tenant *core.Tenant
	err = item.Value(func(val []byte) error {
		var err error
		tenant, err = registry.UnmarshalTenant(val)
		return err
	})
	return tenant, err
}
