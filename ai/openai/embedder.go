package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quarrylabs/tessera/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
type Embedder struct {
	embedder  embeddings.Embedder
	model     string
	dimension int
	logger    *slog.Logger
}

// newEmbedder builds the concrete type; Provider holds it directly.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// The client insists on a token even against local OpenAI-compatible
	// services that ignore authentication.
	client, err := openai.New(
		openai.WithBaseURL(v1BaseURL(config.EmbeddingHost)),
		openai.WithToken("none"),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder:  embedder,
		model:     config.EmbeddingModel,
		dimension: config.EmbeddingDimension,
		logger:    slog.Default().With("component", "openai-embedder"),
	}, nil
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// checkDimension rejects vectors whose width differs from the configured
// embedding dimension. The vector index is created with that dimension, so
// a mismatched model would otherwise fail later at upsert time with a
// store error that hides the real culprit.
func (e *Embedder) checkDimension(vector []float32) error {
	if e.dimension > 0 && len(vector) != e.dimension {
		return fmt.Errorf("%w: model %q produced a %d-dimension vector, expected %d",
			ai.ErrInvalidResponse, e.model, len(vector), e.dimension)
	}
	return nil
}

// EmbedText embeds a single text.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("embedding one text", "length", len(text))

	vectors, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		e.logger.Error("failed to embed text", "err", err)
		return nil, err
	}

	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: embedding service returned no vectors", ai.ErrInvalidResponse)
	}
	if err := e.checkDimension(vectors[0]); err != nil {
		return nil, err
	}

	return vectors[0], nil
}

// EmbedTexts embeds a batch of texts in one round trip.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("embedding batch", "count", len(texts))

	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("failed to embed batch", "count", len(texts), "err", err)
		return nil, err
	}

	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: embedding service returned %d vectors for %d texts",
			ai.ErrInvalidResponse, len(vectors), len(texts))
	}
	for _, vector := range vectors {
		if err := e.checkDimension(vector); err != nil {
			return nil, err
		}
	}

	return vectors, nil
}
