package answer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/quarrylabs/tessera/ai/mock"
	"github.com/quarrylabs/tessera/core"
	"github.com/quarrylabs/tessera/search"
	"github.com/quarrylabs/tessera/vectorstore"
	"github.com/quarrylabs/tessera/vectorstore/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testGenerator implements ai.Generator for testing, capturing prompts.
type testGenerator struct {
	response string
	err      error

	mu      sync.Mutex
	prompts []string
}

func (g *testGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()

	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

func (g *testGenerator) lastPrompt() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.prompts) == 0 {
		return ""
	}
	return g.prompts[len(g.prompts)-1]
}

func seedChunk(t *testing.T, store *memory.Store, namespace, id, text string, vector []float32) {
	t.Helper()

	err := store.Upsert(context.Background(), namespace, vectorstore.Record{
		ID:     id,
		Vector: vector,
		Metadata: map[string]any{
			core.MetadataKeyText: text,
		},
	})
	require.NoError(t, err)
}

func newTestRetriever(t *testing.T, store *memory.Store) *search.Retriever {
	t.Helper()

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0, 0}, nil
	}

	retriever, err := search.NewRetriever(embedder, store)
	require.NoError(t, err)
	return retriever
}

func TestNewAnswerer(t *testing.T) {
	store := memory.NewStore(3)
	retriever := newTestRetriever(t, store)
	generator := &testGenerator{response: "ok"}

	t.Run("valid configuration", func(t *testing.T) {
		answerer, err := NewAnswerer(retriever, generator)
		require.NoError(t, err)
		require.NotNil(t, answerer)
		assert.Equal(t, DefaultContextSize, answerer.contextSize)
	})

	t.Run("with context size", func(t *testing.T) {
		answerer, err := NewAnswerer(retriever, generator, WithContextSize(5))
		require.NoError(t, err)
		assert.Equal(t, 5, answerer.contextSize)
	})

	t.Run("non-positive context size keeps default", func(t *testing.T) {
		answerer, err := NewAnswerer(retriever, generator, WithContextSize(0))
		require.NoError(t, err)
		assert.Equal(t, DefaultContextSize, answerer.contextSize)
	})

	t.Run("nil retriever", func(t *testing.T) {
		_, err := NewAnswerer(nil, generator)
		assert.Equal(t, ErrRetrieverRequired, err)
	})

	t.Run("nil generator", func(t *testing.T) {
		_, err := NewAnswerer(retriever, nil)
		assert.Equal(t, ErrGeneratorRequired, err)
	})
}

func TestAsk(t *testing.T) {
	store := memory.NewStore(3)
	seedChunk(t, store, "acme", "1", "Refunds are issued within 30 days.", []float32{1, 0, 0})
	seedChunk(t, store, "acme", "2", "Contact support to start a refund.", []float32{0.9, 0.435889894, 0})
	seedChunk(t, store, "acme", "3", "Shipping takes two weeks.", []float32{0.5, 0.866025404, 0})
	seedChunk(t, store, "acme", "4", "Our office cat is called Milo.", []float32{0, 1, 0})

	generator := &testGenerator{response: "Refunds are available within 30 days via support."}
	answerer, err := NewAnswerer(newTestRetriever(t, store), generator)
	require.NoError(t, err)

	result, err := answerer.Ask(context.Background(), "acme", "What is the refund policy?")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "What is the refund policy?", result.Question)
	assert.Equal(t, "Refunds are available within 30 days via support.", result.Text)

	// Top three chunks by similarity form the context, in rank order.
	require.Len(t, result.Context, 3)
	assert.Equal(t, "Refunds are issued within 30 days.", result.Context[0].Text)
	assert.Equal(t, "Contact support to start a refund.", result.Context[1].Text)
	assert.Equal(t, "Shipping takes two weeks.", result.Context[2].Text)

	prompt := generator.lastPrompt()
	assert.Contains(t, prompt, "What is the refund policy?")
	assert.Contains(t, prompt, "Refunds are issued within 30 days.")
	assert.Contains(t, prompt, "Contact support to start a refund.")
	assert.Contains(t, prompt, "Shipping takes two weeks.")
	assert.NotContains(t, prompt, "Milo", "fourth-ranked chunk stays out of the context")

	// Chunk texts are joined with a blank line.
	assert.Contains(t, prompt, "Refunds are issued within 30 days.\n\nContact support to start a refund.")
}

func TestAsk_ContextSize(t *testing.T) {
	store := memory.NewStore(3)
	seedChunk(t, store, "acme", "1", "First chunk.", []float32{1, 0, 0})
	seedChunk(t, store, "acme", "2", "Second chunk.", []float32{0.5, 0.866025404, 0})

	generator := &testGenerator{response: "ok"}
	answerer, err := NewAnswerer(newTestRetriever(t, store), generator, WithContextSize(1))
	require.NoError(t, err)

	result, err := answerer.Ask(context.Background(), "acme", "anything?")
	require.NoError(t, err)

	require.Len(t, result.Context, 1)
	assert.Equal(t, "First chunk.", result.Context[0].Text)
	assert.NotContains(t, generator.lastPrompt(), "Second chunk.")
}

func TestAsk_EmptyNamespace(t *testing.T) {
	store := memory.NewStore(3)

	generator := &testGenerator{response: "I don't know."}
	answerer, err := NewAnswerer(newTestRetriever(t, store), generator)
	require.NoError(t, err)

	result, err := answerer.Ask(context.Background(), "acme", "anything?")
	require.NoError(t, err)

	assert.Empty(t, result.Context)
	assert.Equal(t, "I don't know.", result.Text)

	// The generator is still consulted, with an empty context block.
	prompt := generator.lastPrompt()
	assert.Contains(t, prompt, "anything?")
	assert.Contains(t, prompt, "Context:\n\n")
}

func TestAsk_RetrieverError(t *testing.T) {
	store := memory.NewStore(3)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("embedder unavailable")
	}
	retriever, err := search.NewRetriever(embedder, store)
	require.NoError(t, err)

	answerer, err := NewAnswerer(retriever, &testGenerator{response: "ok"})
	require.NoError(t, err)

	_, err = answerer.Ask(context.Background(), "acme", "anything?")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retrieving context")
	assert.Contains(t, err.Error(), "embedder unavailable")
}

func TestAsk_GeneratorError(t *testing.T) {
	store := memory.NewStore(3)
	seedChunk(t, store, "acme", "1", "First chunk.", []float32{1, 0, 0})

	generator := &testGenerator{err: errors.New("model offline")}
	answerer, err := NewAnswerer(newTestRetriever(t, store), generator)
	require.NoError(t, err)

	_, err = answerer.Ask(context.Background(), "acme", "anything?")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generating answer")
	assert.Contains(t, err.Error(), "model offline")
}

func TestAsk_NeverCaches(t *testing.T) {
	store := memory.NewStore(3)
	seedChunk(t, store, "acme", "1", "First chunk.", []float32{1, 0, 0})

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0, 0}, nil
	}
	retriever, err := search.NewRetriever(embedder, store)
	require.NoError(t, err)

	generator := &testGenerator{response: "ok"}
	answerer, err := NewAnswerer(retriever, generator)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = answerer.Ask(ctx, "acme", "same question")
	require.NoError(t, err)
	_, err = answerer.Ask(ctx, "acme", "same question")
	require.NoError(t, err)

	assert.Equal(t, 2, embedder.CallCount(), "every ask re-embeds the question")
	assert.Len(t, generator.prompts, 2, "every ask re-generates the answer")
}
