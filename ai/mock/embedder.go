package mock

import (
	"context"
	"hash/fnv"
	"math"
	"sync"
)

// DefaultDimension is the vector size the mock produces unless configured
// otherwise. Small on purpose so test fixtures stay readable.
const DefaultDimension = 384

// MockEmbedder is a configurable ai.Embedder double. Function fields
// override individual methods; unset fields fall back to canned
// deterministic behavior. Safe for concurrent use, matching the
// ai.Embedder contract.
type MockEmbedder struct {
	// EmbedTextFunc overrides EmbedText when set.
	EmbedTextFunc func(ctx context.Context, text string) ([]float32, error)

	// EmbedTextsFunc overrides EmbedTexts when set.
	EmbedTextsFunc func(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension is the vector size for default deterministic embeddings.
	// Zero means DefaultDimension.
	Dimension int

	mu        sync.Mutex
	callCount int
}

// NewMockEmbedder creates a mock embedder with default deterministic behavior.
// Note: Returns concrete type to allow test assertions via GetMockEmbedder().
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{}
}

func (m *MockEmbedder) recordCall() {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()
}

// EmbedText returns the same unit vector for the same text on every call.
// Distinct texts map to unrelated vectors; no semantic similarity is
// simulated.
func (m *MockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	m.recordCall()

	if m.EmbedTextFunc != nil {
		return m.EmbedTextFunc(ctx, text)
	}
	return m.vectorFor(text), nil
}

// EmbedTexts embeds each text independently, preserving input order.
func (m *MockEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	m.recordCall()

	if m.EmbedTextsFunc != nil {
		return m.EmbedTextsFunc(ctx, texts)
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = m.vectorFor(text)
	}
	return vectors, nil
}

// CallCount returns the number of times any method was called.
func (m *MockEmbedder) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockEmbedder) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.EmbedTextFunc = nil
	m.EmbedTextsFunc = nil
}

func (m *MockEmbedder) vectorFor(text string) []float32 {
	dim := m.Dimension
	if dim <= 0 {
		dim = DefaultDimension
	}
	return hashVector(text, dim)
}

// hashVector derives a unit vector from the FNV-64 hash of text. The
// derivation is pure, so equal texts always embed identically.
func hashVector(text string, dim int) []float32 {
	h := fnv.New64a()
	h.Write([]byte(text))
	state := h.Sum64()

	vector := make([]float32, dim)
	var sumSquares float64
	for i := range vector {
		// xorshift64 step
		state ^= state << 13
		state ^= state >> 7
		state ^= state << 17
		component := float64(int32(state>>32)) / float64(math.MaxInt32)
		vector[i] = float32(component)
		sumSquares += component * component
	}

	if sumSquares > 0 {
		scale := float32(1 / math.Sqrt(sumSquares))
		for i := range vector {
			vector[i] *= scale
		}
	}
	return vector
}
