package ingestion

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/quarrylabs/tessera/chunker"
	"github.com/quarrylabs/tessera/core"
	"github.com/quarrylabs/tessera/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEmbedder implements ai.Embedder for testing
type testEmbedder struct {
	failOnText string // fail any text containing this substring

	mu    sync.Mutex
	calls int
}

func (m *testEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.failOnText != "" && strings.Contains(text, m.failOnText) {
		return nil, errors.New("embedder error")
	}

	// Length-derived vector keeps chunks distinguishable in assertions.
	return []float32{float32(len(text)), 0.5, 0.25}, nil
}

func (m *testEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := m.EmbedText(ctx, text)
		if err != nil {
			return nil, err
		}
		result[i] = vector
	}
	return result, nil
}

func (m *testEmbedder) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// captureStore implements vectorstore.Store for testing, recording upserts
// in call order.
type captureStore struct {
	failOnChunk string // fail upserts whose chunk text contains this substring

	mu      sync.Mutex
	upserts []capturedUpsert
}

type capturedUpsert struct {
	namespace string
	record    vectorstore.Record
}

func (s *captureStore) Upsert(ctx context.Context, namespace string, record vectorstore.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failOnChunk != "" {
		if text, _ := record.Metadata[core.MetadataKeyText].(string); strings.Contains(text, s.failOnChunk) {
			return errors.New("store error")
		}
	}

	s.upserts = append(s.upserts, capturedUpsert{namespace: namespace, record: record})
	return nil
}

func (s *captureStore) Query(ctx context.Context, namespace string, vector []float32, topK int) ([]vectorstore.Match, error) {
	return nil, nil
}

func (s *captureStore) DeleteAll(ctx context.Context, namespace string) error {
	return nil
}

func (s *captureStore) DescribeIndex(ctx context.Context) (vectorstore.IndexStatus, error) {
	return vectorstore.IndexStatus{Ready: true}, nil
}

func (s *captureStore) CreateIndex(ctx context.Context) error {
	return nil
}

func (s *captureStore) records() []vectorstore.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]vectorstore.Record, len(s.upserts))
	for i, upsert := range s.upserts {
		out[i] = upsert.record
	}
	return out
}

func TestNewPipeline(t *testing.T) {
	embedder := &testEmbedder{}
	store := &captureStore{}

	t.Run("valid pipeline", func(t *testing.T) {
		pipeline, err := NewPipeline(embedder, store)
		require.NoError(t, err)
		require.NotNil(t, pipeline)
		defer pipeline.Release()

		assert.NotNil(t, pipeline.embedder)
		assert.NotNil(t, pipeline.store)
		assert.NotNil(t, pipeline.splitter)
		assert.NotNil(t, pipeline.logger)
		assert.Nil(t, pipeline.pool, "sequential by default")
		assert.Equal(t, 1, pipeline.concurrency)
	})

	t.Run("nil embedder", func(t *testing.T) {
		_, err := NewPipeline(nil, store)
		assert.Equal(t, ErrEmbedderRequired, err)
	})

	t.Run("nil store", func(t *testing.T) {
		_, err := NewPipeline(embedder, nil)
		assert.Equal(t, ErrStoreRequired, err)
	})
}

func TestPipeline_WithOptions(t *testing.T) {
	embedder := &testEmbedder{}
	store := &captureStore{}

	t.Run("with concurrency", func(t *testing.T) {
		pipeline, err := NewPipeline(embedder, store, WithConcurrency(4))
		require.NoError(t, err)
		defer pipeline.Release()

		assert.NotNil(t, pipeline.pool)
		assert.Equal(t, 4, pipeline.concurrency)
	})

	t.Run("with concurrency one stays sequential", func(t *testing.T) {
		pipeline, err := NewPipeline(embedder, store, WithConcurrency(1))
		require.NoError(t, err)
		defer pipeline.Release()

		assert.Nil(t, pipeline.pool)
	})

	t.Run("with concurrency zero defaults to 1", func(t *testing.T) {
		pipeline, err := NewPipeline(embedder, store, WithConcurrency(0))
		require.NoError(t, err)
		defer pipeline.Release()

		assert.Nil(t, pipeline.pool)
		assert.Equal(t, 1, pipeline.concurrency)
	})

	t.Run("with splitter", func(t *testing.T) {
		pipeline, err := NewPipeline(embedder, store, WithSplitter(chunker.New(chunker.WithMaxSize(50))))
		require.NoError(t, err)
		defer pipeline.Release()

		assert.Equal(t, 50, pipeline.splitter.MaxSize())
	})

	t.Run("with nil splitter keeps default", func(t *testing.T) {
		pipeline, err := NewPipeline(embedder, store, WithSplitter(nil))
		require.NoError(t, err)
		defer pipeline.Release()

		assert.Equal(t, chunker.DefaultMaxSize, pipeline.splitter.MaxSize())
	})

	t.Run("with custom logger", func(t *testing.T) {
		logger := slog.Default()
		pipeline, err := NewPipeline(embedder, store, WithLogger(logger))
		require.NoError(t, err)
		defer pipeline.Release()

		assert.Equal(t, logger, pipeline.logger)
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		pipeline, err := NewPipeline(embedder, store, WithLogger(nil))
		require.NoError(t, err)
		defer pipeline.Release()

		assert.NotNil(t, pipeline.logger)
	})
}

func TestPipeline_Ingest(t *testing.T) {
	ctx := context.Background()

	t.Run("single chunk document", func(t *testing.T) {
		embedder := &testEmbedder{}
		store := &captureStore{}
		pipeline, err := NewPipeline(embedder, store)
		require.NoError(t, err)
		defer pipeline.Release()

		result, err := pipeline.Ingest(ctx, "acme", "Hello world", nil)
		require.NoError(t, err)
		require.NotNil(t, result)

		assert.Equal(t, 1, result.ChunkCount)
		require.Len(t, result.ChunkIDs, 1)
		assert.NotEmpty(t, result.ChunkIDs[0])

		records := store.records()
		require.Len(t, records, 1)
		assert.Equal(t, "acme", store.upserts[0].namespace)
		assert.Equal(t, result.ChunkIDs[0], records[0].ID)
		assert.Equal(t, []float32{float32(len("Hello world.")), 0.5, 0.25}, records[0].Vector)

		metadata := records[0].Metadata
		assert.Equal(t, "Hello world.", metadata[core.MetadataKeyText])
		assert.Equal(t, 0, metadata[core.MetadataKeyIndex])
		assert.Equal(t, 1, metadata[core.MetadataKeyTotal])
		assert.Equal(t, "acme", metadata[core.MetadataKeyTenant])

		ingestedAt, ok := metadata[core.MetadataKeyIngestedAt].(string)
		require.True(t, ok)
		_, err = time.Parse(time.RFC3339, ingestedAt)
		assert.NoError(t, err)

		fingerprint, ok := metadata[core.MetadataKeyFingerprint].(string)
		require.True(t, ok)
		assert.Len(t, fingerprint, 16)
	})

	t.Run("multiple chunks in order", func(t *testing.T) {
		embedder := &testEmbedder{}
		store := &captureStore{}
		pipeline, err := NewPipeline(embedder, store,
			WithSplitter(chunker.New(chunker.WithMaxSize(10))))
		require.NoError(t, err)
		defer pipeline.Release()

		result, err := pipeline.Ingest(ctx, "acme", "First. Second. Third.", nil)
		require.NoError(t, err)
		assert.Equal(t, 3, result.ChunkCount)

		records := store.records()
		require.Len(t, records, 3)

		texts := []string{"First.", "Second.", "Third."}
		for i, record := range records {
			assert.Equal(t, texts[i], record.Metadata[core.MetadataKeyText], "chunk %d", i)
			assert.Equal(t, i, record.Metadata[core.MetadataKeyIndex], "chunk %d", i)
			assert.Equal(t, 3, record.Metadata[core.MetadataKeyTotal], "chunk %d", i)
			assert.Equal(t, result.ChunkIDs[i], record.ID, "chunk %d", i)
		}

		// All IDs are distinct
		assert.NotEqual(t, result.ChunkIDs[0], result.ChunkIDs[1])
		assert.NotEqual(t, result.ChunkIDs[1], result.ChunkIDs[2])
	})

	t.Run("merges caller metadata", func(t *testing.T) {
		embedder := &testEmbedder{}
		store := &captureStore{}
		pipeline, err := NewPipeline(embedder, store)
		require.NoError(t, err)
		defer pipeline.Release()

		_, err = pipeline.Ingest(ctx, "acme", "Hello world", map[string]string{
			"title":  "Greeting",
			"author": "bob",
		})
		require.NoError(t, err)

		records := store.records()
		require.Len(t, records, 1)
		assert.Equal(t, "Greeting", records[0].Metadata["title"])
		assert.Equal(t, "bob", records[0].Metadata["author"])
	})

	t.Run("caller metadata cannot shadow provenance fields", func(t *testing.T) {
		embedder := &testEmbedder{}
		store := &captureStore{}
		pipeline, err := NewPipeline(embedder, store)
		require.NoError(t, err)
		defer pipeline.Release()

		_, err = pipeline.Ingest(ctx, "acme", "Hello world", map[string]string{
			core.MetadataKeyTenant: "spoofed",
			core.MetadataKeyText:   "bogus",
		})
		require.NoError(t, err)

		records := store.records()
		require.Len(t, records, 1)
		assert.Equal(t, "acme", records[0].Metadata[core.MetadataKeyTenant])
		assert.Equal(t, "Hello world.", records[0].Metadata[core.MetadataKeyText])
	})

	t.Run("empty document yields zero chunks", func(t *testing.T) {
		embedder := &testEmbedder{}
		store := &captureStore{}
		pipeline, err := NewPipeline(embedder, store)
		require.NoError(t, err)
		defer pipeline.Release()

		result, err := pipeline.Ingest(ctx, "acme", "   \n\t  ", nil)
		require.NoError(t, err)
		assert.Equal(t, 0, result.ChunkCount)
		assert.Empty(t, result.ChunkIDs)
		assert.Empty(t, store.records())
		assert.Equal(t, 0, embedder.callCount())
	})

	t.Run("embedding failure stops before later chunks", func(t *testing.T) {
		embedder := &testEmbedder{failOnText: "Second"}
		store := &captureStore{}
		pipeline, err := NewPipeline(embedder, store,
			WithSplitter(chunker.New(chunker.WithMaxSize(10))))
		require.NoError(t, err)
		defer pipeline.Release()

		_, err = pipeline.Ingest(ctx, "acme", "First. Second. Third.", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "embedding chunk 2/3")
		assert.Contains(t, err.Error(), "embedder error")

		// Only the chunk before the failure reached the store.
		records := store.records()
		require.Len(t, records, 1)
		assert.Equal(t, "First.", records[0].Metadata[core.MetadataKeyText])
	})

	t.Run("upsert failure names the chunk", func(t *testing.T) {
		embedder := &testEmbedder{}
		store := &captureStore{failOnChunk: "Second"}
		pipeline, err := NewPipeline(embedder, store,
			WithSplitter(chunker.New(chunker.WithMaxSize(10))))
		require.NoError(t, err)
		defer pipeline.Release()

		_, err = pipeline.Ingest(ctx, "acme", "First. Second. Third.", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "upserting chunk 2/3")
		assert.Contains(t, err.Error(), "store error")
		assert.Len(t, store.records(), 1)
	})
}

func TestPipeline_Ingest_Concurrent(t *testing.T) {
	ctx := context.Background()
	text := "Aaa. Bbb. Ccc. Ddd. Eee. Fff."

	t.Run("preserves chunk order", func(t *testing.T) {
		embedder := &testEmbedder{}
		store := &captureStore{}
		pipeline, err := NewPipeline(embedder, store,
			WithSplitter(chunker.New(chunker.WithMaxSize(5))),
			WithConcurrency(4))
		require.NoError(t, err)
		defer pipeline.Release()

		result, err := pipeline.Ingest(ctx, "acme", text, nil)
		require.NoError(t, err)
		assert.Equal(t, 6, result.ChunkCount)
		assert.Equal(t, 6, embedder.callCount())

		records := store.records()
		require.Len(t, records, 6)

		texts := []string{"Aaa.", "Bbb.", "Ccc.", "Ddd.", "Eee.", "Fff."}
		for i, record := range records {
			assert.Equal(t, texts[i], record.Metadata[core.MetadataKeyText], "chunk %d", i)
			assert.Equal(t, i, record.Metadata[core.MetadataKeyIndex], "chunk %d", i)
			assert.Equal(t, result.ChunkIDs[i], record.ID, "chunk %d", i)
			assert.Equal(t, []float32{float32(len(texts[i])), 0.5, 0.25}, record.Vector, "chunk %d", i)
		}
	})

	t.Run("embedding failure blocks every upsert", func(t *testing.T) {
		embedder := &testEmbedder{failOnText: "Ddd"}
		store := &captureStore{}
		pipeline, err := NewPipeline(embedder, store,
			WithSplitter(chunker.New(chunker.WithMaxSize(5))),
			WithConcurrency(4))
		require.NoError(t, err)
		defer pipeline.Release()

		_, err = pipeline.Ingest(ctx, "acme", text, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "embedding chunk 4/6")
		assert.Empty(t, store.records(), "no chunk should be upserted when any embedding fails")
	})
}

func TestPipeline_IngestMany(t *testing.T) {
	ctx := context.Background()

	t.Run("ingests documents in order", func(t *testing.T) {
		embedder := &testEmbedder{}
		store := &captureStore{}
		pipeline, err := NewPipeline(embedder, store)
		require.NoError(t, err)
		defer pipeline.Release()

		documents := []core.Document{
			{Text: "Alpha report", Metadata: map[string]string{"source": "a"}},
			{Text: "Bravo report", Metadata: map[string]string{"source": "b"}},
			{Text: "Charlie report", Metadata: map[string]string{"source": "c"}},
		}

		results, err := pipeline.IngestMany(ctx, "acme", documents)
		require.NoError(t, err)
		require.Len(t, results, 3)

		records := store.records()
		require.Len(t, records, 3)
		assert.Equal(t, "a", records[0].Metadata["source"])
		assert.Equal(t, "b", records[1].Metadata["source"])
		assert.Equal(t, "c", records[2].Metadata["source"])

		for i, result := range results {
			assert.Equal(t, 1, result.ChunkCount, "document %d", i)
		}
	})

	t.Run("aborts on first failure", func(t *testing.T) {
		embedder := &testEmbedder{failOnText: "Bravo"}
		store := &captureStore{}
		pipeline, err := NewPipeline(embedder, store)
		require.NoError(t, err)
		defer pipeline.Release()

		documents := []core.Document{
			{Text: "Alpha report"},
			{Text: "Bravo report"},
			{Text: "Charlie report"},
		}

		results, err := pipeline.IngestMany(ctx, "acme", documents)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "document 2/3")
		assert.Nil(t, results)

		// The first document's records stay; the third was never started.
		records := store.records()
		require.Len(t, records, 1)
		assert.Equal(t, "Alpha report.", records[0].Metadata[core.MetadataKeyText])
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		embedder := &testEmbedder{}
		store := &captureStore{}
		pipeline, err := NewPipeline(embedder, store)
		require.NoError(t, err)
		defer pipeline.Release()

		results, err := pipeline.IngestMany(ctx, "acme", nil)
		require.NoError(t, err)
		assert.Nil(t, results)
		assert.Empty(t, store.records())
	})

	t.Run("reports progress", func(t *testing.T) {
		var buf bytes.Buffer
		embedder := &testEmbedder{}
		store := &captureStore{}
		pipeline, err := NewPipeline(embedder, store, WithProgressWriter(&buf))
		require.NoError(t, err)
		defer pipeline.Release()

		documents := []core.Document{
			{Text: "Alpha report"},
			{Text: "Bravo report"},
			{Text: "Charlie report"},
		}

		_, err = pipeline.IngestMany(ctx, "acme", documents)
		require.NoError(t, err)

		output := buf.String()
		assert.Contains(t, output, "Ingesting 3/3 documents")
		assert.Contains(t, output, "Ingested 3 documents, 3 chunks in ")
		assert.True(t, strings.HasSuffix(output, "\n"), "summary line ends the output")
	})
}

func TestPipeline_Release(t *testing.T) {
	embedder := &testEmbedder{}
	store := &captureStore{}

	pipeline, err := NewPipeline(embedder, store, WithConcurrency(2))
	require.NoError(t, err)

	// Release should not panic
	pipeline.Release()

	// Multiple releases should not panic
	pipeline.Release()

	// Release without a pool should not panic either
	sequential, err := NewPipeline(embedder, store)
	require.NoError(t, err)
	sequential.Release()
}
