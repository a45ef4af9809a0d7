package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/quarrylabs/tessera/vectorstore"
)

// Store is an in-process vectorstore.Store using brute-force cosine
// similarity. Namespaces are map partitions; the index itself is implicit
// and always ready, so local runs need no readiness polling.
//
// NewStore returns the concrete type (not the interface) so tests can use
// the extra inspection helpers.
type Store struct {
	mu         sync.RWMutex
	dimension  int
	namespaces map[string]map[string]vectorstore.Record
}

// NewStore creates an empty in-memory store for vectors of the given
// dimension.
func NewStore(dimension int) *Store {
	return &Store{
		dimension:  dimension,
		namespaces: make(map[string]map[string]vectorstore.Record),
	}
}

// Upsert inserts or replaces one record in the namespace.
func (s *Store) Upsert(ctx context.Context, namespace string, record vectorstore.Record) error {
	if len(record.Vector) != s.dimension {
		return vectorstore.ErrDimensionMismatch
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.namespaces[namespace]
	if !ok {
		ns = make(map[string]vectorstore.Record)
		s.namespaces[namespace] = ns
	}
	ns[record.ID] = cloneRecord(record)

	return nil
}

// Query returns at most topK records ordered by descending cosine
// similarity. An absent namespace yields an empty result; this store does
// not distinguish absent namespaces from empty ones.
func (s *Store) Query(ctx context.Context, namespace string, vector []float32, topK int) ([]vectorstore.Match, error) {
	if topK <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ns := s.namespaces[namespace]
	matches := make([]vectorstore.Match, 0, len(ns))
	for id, record := range ns {
		matches = append(matches, vectorstore.Match{
			ID:       id,
			Score:    cosineSimilarity(vector, record.Vector),
			Metadata: record.Metadata,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// DeleteAll removes every record in the namespace. Clearing an unknown
// namespace is a no-op.
func (s *Store) DeleteAll(ctx context.Context, namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.namespaces, namespace)
	return nil
}

// DescribeIndex always reports a ready index: the in-memory index exists
// implicitly, like its namespaces.
func (s *Store) DescribeIndex(ctx context.Context) (vectorstore.IndexStatus, error) {
	return vectorstore.IndexStatus{
		Ready:     true,
		Dimension: s.dimension,
	}, nil
}

// CreateIndex is a no-op; the in-memory index needs no creation.
func (s *Store) CreateIndex(ctx context.Context) error {
	return nil
}

// Count returns the number of records in the namespace. Test helper.
func (s *Store) Count(namespace string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.namespaces[namespace])
}

func cloneRecord(record vectorstore.Record) vectorstore.Record {
	clone := vectorstore.Record{
		ID:     record.ID,
		Vector: make([]float32, len(record.Vector)),
	}
	copy(clone.Vector, record.Vector)

	if record.Metadata != nil {
		clone.Metadata = make(map[string]any, len(record.Metadata))
		for k, v := range record.Metadata {
			clone.Metadata[k] = v
		}
	}
	return clone
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Zero vectors score zero against everything.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
