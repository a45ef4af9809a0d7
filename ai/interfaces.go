package ai

import "context"

// Embedder turns text into fixed-width vectors. The same model embeds both
// document chunks at ingestion time and questions at retrieval time; mixing
// models across the two breaks similarity scoring.
// Implementations must be safe for concurrent use: the ingestion pipeline
// may fan chunk embedding out across workers.
type Embedder interface {
	// EmbedText embeds a single text.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts embeds a batch, one vector per input text in input order.
	// A partial failure fails the whole batch.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces text completions for fully constructed prompts.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Generate produces a completion for the given prompt. The prompt is
	// sent to the model unchanged; prompt construction belongs to the
	// caller. Returns an error if the generation fails.
	Generate(ctx context.Context, prompt string) (string, error)
}

// AIProvider bundles the embedding and generation services of one backend
// so they are constructed from shared configuration and torn down together.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Generator returns the text generation service.
	Generator() Generator

	// Close releases resources held by the provider and its services.
	// Neither the provider nor the services it handed out may be used
	// afterward.
	Close() error
}
