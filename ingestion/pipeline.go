package ingestion

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/quarrylabs/tessera/ai"
	"github.com/quarrylabs/tessera/chunker"
	"github.com/quarrylabs/tessera/core"
	"github.com/quarrylabs/tessera/vectorstore"
)

// Pipeline orchestrates the ingestion of documents into the vector store.
// It splits text into chunks, embeds each chunk, and upserts the resulting
// records into the tenant's namespace.
type Pipeline struct {
	embedder       ai.Embedder
	store          vectorstore.Store
	splitter       *chunker.Splitter
	pool           *ants.Pool
	concurrency    int
	progressWriter io.Writer
	logger         *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithSplitter sets the chunk splitter.
// Default is chunker.New().
func WithSplitter(splitter *chunker.Splitter) Option {
	return func(p *Pipeline) error {
		if splitter != nil {
			p.splitter = splitter
		}
		return nil
	}
}

// WithConcurrency sets how many chunks of a document are embedded in
// parallel. Default is 1, which embeds and upserts chunks strictly one at
// a time. Values above 1 run embeddings on a worker pool; upserts always
// happen sequentially in chunk order.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) error {
		if n < 1 {
			n = 1
		}

		// Release old pool
		if p.pool != nil {
			p.pool.Release()
			p.pool = nil
		}

		p.concurrency = n
		if n == 1 {
			return nil
		}

		pool, err := ants.NewPool(n)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithProgressWriter enables per-document progress reporting during
// IngestMany. Progress lines are written to w (typically os.Stderr).
func WithProgressWriter(w io.Writer) Option {
	return func(p *Pipeline) error {
		p.progressWriter = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(embedder ai.Embedder, store vectorstore.Store, opts ...Option) (*Pipeline, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}

	// Create pipeline with defaults
	p := &Pipeline{
		embedder:    embedder,
		store:       store,
		splitter:    chunker.New(),
		concurrency: 1,
		logger:      slog.Default().With("component", "ingestion-pipeline"),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if err := opt(p); err != nil {
			p.Release()
			return nil, err
		}
	}

	return p, nil
}

// Result summarizes one document ingestion: how many chunks were stored
// and their record identifiers, in chunk order.
type Result struct {
	ChunkCount int
	ChunkIDs   []string
}

// Ingest splits text into chunks, embeds each chunk, and upserts one
// record per chunk into the tenant's namespace. Caller metadata is copied
// onto every record; provenance fields overwrite colliding keys.
//
// Records are upserted in chunk order. On failure the error names the
// failing chunk; records upserted before it remain in the store. Empty or
// whitespace-only text yields zero chunks and succeeds without touching
// the store.
func (p *Pipeline) Ingest(ctx context.Context, tenantID string, text string, metadata map[string]string) (*Result, error) {
	chunks := p.splitter.Split(text)
	if len(chunks) == 0 {
		p.logger.Debug("document produced no chunks", "tenant", tenantID)
		return &Result{}, nil
	}

	records := p.buildRecords(tenantID, text, chunks, metadata)

	if p.pool == nil {
		if err := p.ingestSequential(ctx, tenantID, chunks, records); err != nil {
			return nil, err
		}
	} else {
		if err := p.embedConcurrent(ctx, chunks, records); err != nil {
			return nil, err
		}
		for i := range records {
			if err := p.store.Upsert(ctx, tenantID, records[i]); err != nil {
				return nil, fmt.Errorf("upserting chunk %d/%d: %w", i+1, len(records), err)
			}
		}
	}

	ids := make([]string, len(records))
	for i, record := range records {
		ids[i] = record.ID
	}

	p.logger.Info("ingested document", "tenant", tenantID, "chunks", len(records))
	return &Result{ChunkCount: len(records), ChunkIDs: ids}, nil
}

// IngestMany ingests documents one after another, aborting on the first
// failure. The error names the failing document; records from documents
// ingested before it remain in the store. When a progress writer is
// configured, per-document progress is reported to it.
func (p *Pipeline) IngestMany(ctx context.Context, tenantID string, documents []core.Document) ([]*Result, error) {
	if len(documents) == 0 {
		return nil, nil
	}

	var tracker *ProgressTracker
	if p.progressWriter != nil {
		tracker = NewProgressTracker(p.progressWriter, len(documents))
	}

	results := make([]*Result, 0, len(documents))
	for i, document := range documents {
		result, err := p.Ingest(ctx, tenantID, document.Text, document.Metadata)
		if err != nil {
			return nil, fmt.Errorf("document %d/%d: %w", i+1, len(documents), err)
		}

		results = append(results, result)
		if tracker != nil {
			tracker.DocumentDone(result.ChunkCount)
		}
	}

	if tracker != nil {
		tracker.Finish()
	}

	p.logger.Info("ingested batch", "tenant", tenantID, "documents", len(documents))
	return results, nil
}

// buildRecords creates one store record per chunk with merged metadata.
// All records of a document share the same timestamp and content
// fingerprint; chunk ordinals are assigned here, before any embedding
// starts, so concurrent embedding cannot reorder them.
func (p *Pipeline) buildRecords(tenantID, text string, chunks []string, metadata map[string]string) []vectorstore.Record {
	now := time.Now().UTC()
	fingerprint := core.FingerprintContent(text)

	records := make([]vectorstore.Record, len(chunks))
	for i, chunk := range chunks {
		payload := make(map[string]any, len(metadata)+6)
		for key, value := range metadata {
			payload[key] = value
		}
		payload[core.MetadataKeyText] = chunk
		payload[core.MetadataKeyIndex] = i
		payload[core.MetadataKeyTotal] = len(chunks)
		payload[core.MetadataKeyIngestedAt] = now.Format(time.RFC3339)
		payload[core.MetadataKeyTenant] = tenantID
		payload[core.MetadataKeyFingerprint] = fmt.Sprintf("%016x", uint64(fingerprint))

		records[i] = vectorstore.Record{
			ID:       uuid.NewString(),
			Metadata: payload,
		}
	}

	return records
}

// ingestSequential embeds and upserts chunks strictly one at a time, so a
// failure stops the pipeline before any later chunk is embedded.
func (p *Pipeline) ingestSequential(ctx context.Context, tenantID string, chunks []string, records []vectorstore.Record) error {
	for i := range records {
		vector, err := p.embedder.EmbedText(ctx, chunks[i])
		if err != nil {
			return fmt.Errorf("embedding chunk %d/%d: %w", i+1, len(chunks), err)
		}
		records[i].Vector = vector

		if err := p.store.Upsert(ctx, tenantID, records[i]); err != nil {
			return fmt.Errorf("upserting chunk %d/%d: %w", i+1, len(chunks), err)
		}
	}
	return nil
}

// embedConcurrent fans chunk embedding out across the worker pool. Each
// task writes into its own pre-assigned slot, so chunk ordinals never
// move. Upserting stays with the caller, which proceeds only after every
// embedding has succeeded.
func (p *Pipeline) embedConcurrent(ctx context.Context, chunks []string, records []vectorstore.Record) error {
	var wg sync.WaitGroup
	errs := make([]error, len(chunks))

	for i := range chunks {
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()

			vector, err := p.embedder.EmbedText(ctx, chunks[i])
			if err != nil {
				errs[i] = err
				return
			}
			records[i].Vector = vector
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = submitErr
		}
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return fmt.Errorf("embedding chunk %d/%d: %w", i+1, len(chunks), err)
		}
	}
	return nil
}

// Release releases the worker pool, if any.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
