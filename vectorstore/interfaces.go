package vectorstore

import "context"

// Record is the persisted unit inside the vector index: an identifier
// unique within its namespace, the embedding vector, and a metadata
// payload carrying the original chunk text and its provenance fields.
// Records are created on upsert and removed by DeleteAll, never mutated.
type Record struct {
	ID       string
	Vector   []float32
	Metadata map[string]any
}

// Match is a single similarity hit returned by Query.
type Match struct {
	ID       string
	Score    float32
	Metadata map[string]any
}

// IndexStatus reports index-level administrative state.
type IndexStatus struct {
	// Ready is true once the index accepts data-plane operations.
	Ready bool

	// Dimension is the vector size the index was created with.
	Dimension int

	// Host is the data-plane endpoint, where the backend distinguishes
	// one. Empty for in-process stores.
	Host string
}

// Store is a namespace-partitioned vector index.
// Implementations must be thread-safe and support concurrent access.
type Store interface {
	// Upsert inserts or replaces one record in the namespace.
	// Returns ErrDimensionMismatch if the record's vector length differs
	// from the index dimension.
	Upsert(ctx context.Context, namespace string, record Record) error

	// Query returns at most topK records from the namespace, ordered by
	// descending similarity to the given vector. Fewer than topK results
	// are valid. A namespace with no records yields an empty result;
	// backends that distinguish absent namespaces from empty ones return
	// ErrNamespaceNotFound instead.
	Query(ctx context.Context, namespace string, vector []float32, topK int) ([]Match, error)

	// DeleteAll removes every record in the namespace. Idempotent:
	// clearing an empty or unknown namespace is a no-op, not an error.
	// Other namespaces and the index schema are unaffected.
	DeleteAll(ctx context.Context, namespace string) error

	// DescribeIndex reports the index status. Returns ErrIndexNotFound
	// if the index does not exist yet.
	DescribeIndex(ctx context.Context) (IndexStatus, error)

	// CreateIndex creates the index with the configured dimension and
	// similarity metric. Readiness is asynchronous; poll DescribeIndex
	// until Ready.
	CreateIndex(ctx context.Context) error
}
