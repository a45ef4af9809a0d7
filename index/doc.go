// Package index manages the lifecycle of the shared vector index and the
// tenant namespaces inside it.
//
// One index holds all tenants; each tenant's records live in a namespace
// named by the tenant id. Namespaces need no explicit creation (the store
// creates them implicitly on first upsert), so the only real lifecycle
// work is at the index level: Manager.EnsureReady describes the index,
// creates it when missing, and polls at a fixed interval until the store
// reports it ready. Calling EnsureReady on an index that is already ready
// issues a single describe and no create call.
//
// ClearNamespace and DeleteNamespace both remove a tenant's records. They
// are the same operation at the store layer because an empty namespace has
// no independent existence; tenant bookkeeping beyond records is the
// registry's concern.
package index
