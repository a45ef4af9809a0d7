package ollama

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quarrylabs/tessera/ai"
)

// Embedder implements ai.Embedder against Ollama's /api/embeddings endpoint.
type Embedder struct {
	client    *client
	model     string
	dimension int
	logger    *slog.Logger
}

type embeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embeddingResponse struct {
	Embedding []float32 `json:"embedding"`
}

// newEmbedder is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEmbedder(config *ai.Config) *Embedder {
	return &Embedder{
		client:    newClient(config.EmbeddingHost),
		model:     config.EmbeddingModel,
		dimension: config.EmbeddingDimension,
		logger:    slog.Default().With("component", "ollama-embedder"),
	}
}

// NewEmbedder creates an embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return newEmbedder(config), nil
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("generating embedding for single text", "length", len(text))

	var resp embeddingResponse
	err := e.client.postJSON(ctx, "/api/embeddings", embeddingRequest{
		Model:  e.model,
		Prompt: text,
	}, &resp)
	if err != nil {
		e.logger.Error("failed to generate embedding", "err", err)
		return nil, err
	}

	// A response without the embedding array is malformed, not empty.
	if resp.Embedding == nil {
		return nil, fmt.Errorf("%w: response contains no embedding array", ai.ErrInvalidResponse)
	}
	// The vector index is created with the configured dimension, so a
	// mismatched model must fail here rather than at upsert time.
	if e.dimension > 0 && len(resp.Embedding) != e.dimension {
		return nil, fmt.Errorf("%w: model %q produced a %d-dimension vector, expected %d",
			ai.ErrInvalidResponse, e.model, len(resp.Embedding), e.dimension)
	}

	return resp.Embedding, nil
}

// EmbedTexts generates vector embeddings for multiple text strings.
// Texts are embedded one at a time; the native API has no batch endpoint.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings for texts", "count", len(texts))

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := e.EmbedText(ctx, text)
		if err != nil {
			e.logger.Error("failed to generate embeddings", "index", i, "err", err)
			return nil, err
		}
		vectors[i] = vector
	}

	return vectors, nil
}
