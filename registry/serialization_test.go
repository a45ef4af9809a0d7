package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrylabs/tessera/core"
)

func TestMarshalUnmarshalTenant(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name   string
		tenant *core.Tenant
	}{
		{
			name: "minimal tenant",
			tenant: &core.Tenant{
				ID:        "acme",
				CreatedAt: now,
				UpdatedAt: now,
			},
		},
		{
			name: "tenant with display name",
			tenant: &core.Tenant{
				ID:          "acme",
				DisplayName: "Acme Corporation",
				CreatedAt:   now,
				UpdatedAt:   now,
			},
		},
		{
			name: "tenant with metadata",
			tenant: &core.Tenant{
				ID:          "acme",
				DisplayName: "Acme Corporation",
				Metadata: map[string]string{
					"plan":   "enterprise",
					"region": "eu-west-1",
					"owner":  "ops@acme.example",
				},
				CreatedAt: now,
				UpdatedAt: now,
			},
		},
		{
			name: "tenant with dotted id",
			tenant: &core.Tenant{
				ID:        "acme.staging-2",
				CreatedAt: now,
				UpdatedAt: now,
			},
		},
		{
			name: "unicode display name",
			tenant: &core.Tenant{
				ID:          "tenant-1",
				DisplayName: "Société Générale 世界",
				CreatedAt:   now,
				UpdatedAt:   now,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalTenant(tt.tenant)
			require.NotNil(t, data)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalTenant(data)
			require.NoError(t, err)
			require.NotNil(t, decoded)

			assert.Equal(t, tt.tenant.ID, decoded.ID)
			assert.Equal(t, tt.tenant.DisplayName, decoded.DisplayName)
			assert.True(t, tt.tenant.CreatedAt.Equal(decoded.CreatedAt))
			assert.True(t, tt.tenant.UpdatedAt.Equal(decoded.UpdatedAt))
			if len(tt.tenant.Metadata) == 0 {
				assert.Empty(t, decoded.Metadata)
			} else {
				assert.Equal(t, tt.tenant.Metadata, decoded.Metadata)
			}
		})
	}
}

func TestMarshalTenant_Deterministic(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	tenant := &core.Tenant{
		ID: "acme",
		Metadata: map[string]string{
			"zebra": "1",
			"alpha": "2",
			"mike":  "3",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Map iteration order varies; the sorted-key encoding must not.
	first := MarshalTenant(tenant)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, MarshalTenant(tenant))
	}
}

func TestUnmarshalTenant_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"invalid data", []byte{0xFF, 0xFF, 0xFF}},
		{"partial data", []byte{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalTenant(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestTenantMUS_Skip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	tenant := core.Tenant{
		ID:          "acme",
		DisplayName: "Acme Corporation",
		Metadata:    map[string]string{"plan": "enterprise"},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	data := MarshalTenant(&tenant)

	n, err := TenantMUS.Skip(data)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
}

func TestRoundTripConsistency(t *testing.T) {
	t.Run("multiple marshal-unmarshal cycles", func(t *testing.T) {
		now := time.Now().UTC().Truncate(time.Microsecond)
		original := &core.Tenant{
			ID:          "acme",
			DisplayName: "Acme Corporation",
			Metadata:    map[string]string{"plan": "enterprise"},
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		current := original
		for i := 0; i < 3; i++ {
			data := MarshalTenant(current)
			decoded, err := UnmarshalTenant(data)
			require.NoError(t, err)
			current = decoded
		}

		assert.Equal(t, original.ID, current.ID)
		assert.Equal(t, original.DisplayName, current.DisplayName)
		assert.Equal(t, original.Metadata, current.Metadata)
		assert.True(t, original.CreatedAt.Equal(current.CreatedAt))
	})
}
