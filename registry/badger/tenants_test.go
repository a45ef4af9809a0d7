package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quarrylabs/tessera/core"
	"github.com/quarrylabs/tessera/registry"
)

func TestTenantBasics(t *testing.T) {
	reg, err := NewMemoryRegistry()
	if err != nil {
		t.Fatalf("Failed to create registry: %v", err)
	}
	defer reg.Close()

	ctx := context.Background()

	tenant := &core.Tenant{
		ID:          "acme",
		DisplayName: "Acme Corporation",
		Metadata:    map[string]string{"plan": "enterprise"},
	}

	created, err := reg.CreateTenant(ctx, tenant)
	if err != nil {
		t.Fatalf("Failed to create tenant: %v", err)
	}

	if created.CreatedAt.IsZero() {
		t.Fatal("Expected CreatedAt to be set")
	}
	if !created.UpdatedAt.Equal(created.CreatedAt) {
		t.Fatal("Expected UpdatedAt to equal CreatedAt on create")
	}

	retrieved, err := reg.GetTenant(ctx, "acme")
	if err != nil {
		t.Fatalf("Failed to get tenant: %v", err)
	}

	if retrieved.DisplayName != "Acme Corporation" {
		t.Fatalf("Expected 'Acme Corporation', got '%s'", retrieved.DisplayName)
	}
	if retrieved.Metadata["plan"] != "enterprise" {
		t.Fatalf("Expected metadata plan 'enterprise', got '%s'", retrieved.Metadata["plan"])
	}
}

func TestCreateTenant_Duplicate(t *testing.T) {
	reg, err := NewMemoryRegistry()
	if err != nil {
		t.Fatalf("Failed to create registry: %v", err)
	}
	defer reg.Close()

	ctx := context.Background()

	if _, err := reg.CreateTenant(ctx, &core.Tenant{ID: "acme"}); err != nil {
		t.Fatalf("Failed to create tenant: %v", err)
	}

	_, err = reg.CreateTenant(ctx, &core.Tenant{ID: "acme"})
	if !errors.Is(err, registry.ErrTenantExists) {
		t.Fatalf("Expected ErrTenantExists, got %v", err)
	}
}

func TestCreateTenant_PreservesProvidedTimestamp(t *testing.T) {
	reg, err := NewMemoryRegistry()
	if err != nil {
		t.Fatalf("Failed to create registry: %v", err)
	}
	defer reg.Close()

	ctx := context.Background()
	past := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	created, err := reg.CreateTenant(ctx, &core.Tenant{ID: "acme", CreatedAt: past})
	if err != nil {
		t.Fatalf("Failed to create tenant: %v", err)
	}

	if !created.CreatedAt.Equal(past) {
		t.Fatalf("Expected CreatedAt %v, got %v", past, created.CreatedAt)
	}
}

func TestGetTenant_NotFound(t *testing.T) {
	reg, err := NewMemoryRegistry()
	if err != nil {
		t.Fatalf("Failed to create registry: %v", err)
	}
	defer reg.Close()

	_, err = reg.GetTenant(context.Background(), "ghost")
	if !errors.Is(err, registry.ErrTenantNotFound) {
		t.Fatalf("Expected ErrTenantNotFound, got %v", err)
	}
}

func TestEnsureTenant(t *testing.T) {
	reg, err := NewMemoryRegistry()
	if err != nil {
		t.Fatalf("Failed to create registry: %v", err)
	}
	defer reg.Close()

	ctx := context.Background()

	// First call registers the tenant.
	first, err := reg.EnsureTenant(ctx, "acme")
	if err != nil {
		t.Fatalf("Failed to ensure tenant: %v", err)
	}
	if first.ID != "acme" {
		t.Fatalf("Expected id 'acme', got '%s'", first.ID)
	}

	// Second call returns the existing record.
	second, err := reg.EnsureTenant(ctx, "acme")
	if err != nil {
		t.Fatalf("Failed to ensure existing tenant: %v", err)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatal("Expected EnsureTenant to return the original record")
	}

	tenants, err := reg.ListTenants(ctx)
	if err != nil {
		t.Fatalf("Failed to list tenants: %v", err)
	}
	if len(tenants) != 1 {
		t.Fatalf("Expected 1 tenant, got %d", len(tenants))
	}
}

func TestListTenants_OrderedByID(t *testing.T) {
	reg, err := NewMemoryRegistry()
	if err != nil {
		t.Fatalf("Failed to create registry: %v", err)
	}
	defer reg.Close()

	ctx := context.Background()

	for _, id := range []string{"zephyr", "acme", "midway"} {
		if _, err := reg.CreateTenant(ctx, &core.Tenant{ID: id}); err != nil {
			t.Fatalf("Failed to create tenant %s: %v", id, err)
		}
	}

	tenants, err := reg.ListTenants(ctx)
	if err != nil {
		t.Fatalf("Failed to list tenants: %v", err)
	}

	if len(tenants) != 3 {
		t.Fatalf("Expected 3 tenants, got %d", len(tenants))
	}

	want := []string{"acme", "midway", "zephyr"}
	for i, tenant := range tenants {
		if tenant.ID != want[i] {
			t.Fatalf("Expected tenant %d to be '%s', got '%s'", i, want[i], tenant.ID)
		}
	}
}

func TestListTenants_Empty(t *testing.T) {
	reg, err := NewMemoryRegistry()
	if err != nil {
		t.Fatalf("Failed to create registry: %v", err)
	}
	defer reg.Close()

	tenants, err := reg.ListTenants(context.Background())
	if err != nil {
		t.Fatalf("Failed to list tenants: %v", err)
	}
	if len(tenants) != 0 {
		t.Fatalf("Expected no tenants, got %d", len(tenants))
	}
}

func TestDeleteTenant(t *testing.T) {
	reg, err := NewMemoryRegistry()
	if err != nil {
		t.Fatalf("Failed to create registry: %v", err)
	}
	defer reg.Close()

	ctx := context.Background()

	if _, err := reg.CreateTenant(ctx, &core.Tenant{ID: "acme"}); err != nil {
		t.Fatalf("Failed to create tenant: %v", err)
	}

	if err := reg.DeleteTenant(ctx, "acme"); err != nil {
		t.Fatalf("Failed to delete tenant: %v", err)
	}

	_, err = reg.GetTenant(ctx, "acme")
	if !errors.Is(err, registry.ErrTenantNotFound) {
		t.Fatalf("Expected ErrTenantNotFound after delete, got %v", err)
	}

	// Deleting again reports not found.
	err = reg.DeleteTenant(ctx, "acme")
	if !errors.Is(err, registry.ErrTenantNotFound) {
		t.Fatalf("Expected ErrTenantNotFound, got %v", err)
	}
}

func TestRegistry_Closed(t *testing.T) {
	reg, err := NewMemoryRegistry()
	if err != nil {
		t.Fatalf("Failed to create registry: %v", err)
	}

	if err := reg.Close(); err != nil {
		t.Fatalf("Failed to close registry: %v", err)
	}

	ctx := context.Background()

	if _, err := reg.GetTenant(ctx, "acme"); !errors.Is(err, registry.ErrRegistryClosed) {
		t.Fatalf("Expected ErrRegistryClosed, got %v", err)
	}
	if _, err := reg.CreateTenant(ctx, &core.Tenant{ID: "acme"}); !errors.Is(err, registry.ErrRegistryClosed) {
		t.Fatalf("Expected ErrRegistryClosed, got %v", err)
	}
	if _, err := reg.ListTenants(ctx); !errors.Is(err, registry.ErrRegistryClosed) {
		t.Fatalf("Expected ErrRegistryClosed, got %v", err)
	}
	if err := reg.DeleteTenant(ctx, "acme"); !errors.Is(err, registry.ErrRegistryClosed) {
		t.Fatalf("Expected ErrRegistryClosed, got %v", err)
	}
}

func TestTenantPersistence_AcrossTransactions(t *testing.T) {
	reg, err := NewMemoryRegistry()
	if err != nil {
		t.Fatalf("Failed to create registry: %v", err)
	}
	defer reg.Close()

	ctx := context.Background()

	// Writes in one transaction must be visible to later reads.
	for _, id := range []string{"a", "b", "c"} {
		if _, err := reg.CreateTenant(ctx, &core.Tenant{ID: id}); err != nil {
			t.Fatalf("Failed to create tenant %s: %v", id, err)
		}
	}

	for _, id := range []string{"a", "b", "c"} {
		if _, err := reg.GetTenant(ctx, id); err != nil {
			t.Fatalf("Failed to get tenant %s: %v", id, err)
		}
	}
}
