package badger

import "fmt"

// Key prefixes for stored record types
const (
	tenantPrefix = "tenant"
)

// makeTenantKey generates a key for a tenant record by id.
func makeTenantKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", tenantPrefix, id))
}

// tenantScanPrefix returns the prefix covering every tenant record.
// BadgerDB iterates keys in byte order, so a prefix scan yields tenants
// sorted by id.
func tenantScanPrefix() []byte {
	return []byte(tenantPrefix + ":")
}
