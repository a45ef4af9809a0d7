package search

import (
	"context"
	"log/slog"

	"github.com/quarrylabs/tessera/ai"
	"github.com/quarrylabs/tessera/core"
	"github.com/quarrylabs/tessera/vectorstore"
)

// Retriever performs similarity retrieval over a tenant's stored chunks.
type Retriever struct {
	embedder ai.Embedder
	store    vectorstore.Store
	logger   *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRetriever creates a new retriever.
func NewRetriever(embedder ai.Embedder, store vectorstore.Store, opts ...Option) (*Retriever, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}

	r := &Retriever{
		embedder: embedder,
		store:    store,
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Retrieve returns up to topK stored chunks from the tenant's namespace,
// ranked by descending similarity to the query. Fewer than topK results
// are valid; a tenant with no records or a non-positive topK yields an
// empty result.
func (r *Retriever) Retrieve(ctx context.Context, tenantID string, query string, topK int) ([]core.RetrievedChunk, error) {
	return r.RetrieveWithMonitor(ctx, tenantID, query, topK, nil)
}

// RetrieveWithMonitor retrieves with monitoring.
// The monitor receives callbacks at each stage of the retrieval process.
func (r *Retriever) RetrieveWithMonitor(ctx context.Context, tenantID string, query string, topK int, monitor SearchMonitor) ([]core.RetrievedChunk, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query)

	if topK <= 0 {
		monitor.Finish(nil)
		return nil, nil
	}

	vector, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		r.logger.Error("error generating embedding for query", "tenant", tenantID, "err", err)
		return nil, err
	}
	monitor.AfterQueryEmbedding(vector)

	matches, err := r.store.Query(ctx, tenantID, vector, topK)
	if err != nil {
		r.logger.Error("error querying vector store", "tenant", tenantID, "err", err)
		return nil, err
	}
	monitor.AfterVectorSearch(matches)

	// The store already honors topK; cap again in case a backend over-returns.
	if len(matches) > topK {
		matches = matches[:topK]
	}

	chunks := make([]core.RetrievedChunk, 0, len(matches))
	for _, match := range matches {
		text, _ := match.Metadata[core.MetadataKeyText].(string)
		chunks = append(chunks, core.RetrievedChunk{
			Text:     text,
			Score:    match.Score,
			Metadata: match.Metadata,
		})
	}

	r.logger.Debug("retrieved chunks", "tenant", tenantID, "hits", len(chunks), "topK", topK)
	monitor.Finish(chunks)

	return chunks, nil
}
