package answer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/prompts"

	"github.com/quarrylabs/tessera/ai"
	"github.com/quarrylabs/tessera/core"
	"github.com/quarrylabs/tessera/search"
)

// DefaultContextSize is the number of retrieved chunks fed to the
// generation model per question.
const DefaultContextSize = 3

// promptTemplate is the fixed prompt the generator receives; the context
// block and the question are the only variable parts.
var promptTemplate = prompts.NewPromptTemplate(
	`Answer the question using only the context below. If the context does not contain the answer, say so.

Context:
{{.context}}

Question: {{.question}}

Answer:`,
	[]string{"context", "question"},
)

// Answerer answers questions about a tenant's ingested documents.
type Answerer struct {
	retriever   *search.Retriever
	generator   ai.Generator
	contextSize int
	logger      *slog.Logger
}

// Option configures an Answerer.
type Option func(*Answerer) error

// WithContextSize sets how many retrieved chunks form the context block.
// Default is DefaultContextSize. Non-positive values keep the default.
func WithContextSize(n int) Option {
	return func(a *Answerer) error {
		if n > 0 {
			a.contextSize = n
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Answerer) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// NewAnswerer creates a new answerer.
func NewAnswerer(retriever *search.Retriever, generator ai.Generator, opts ...Option) (*Answerer, error) {
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	a := &Answerer{
		retriever:   retriever,
		generator:   generator,
		contextSize: DefaultContextSize,
		logger:      slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// Ask retrieves the most relevant chunks for the question from the
// tenant's namespace and generates an answer grounded in them. An empty
// namespace still produces an answer; the model just receives an empty
// context block.
func (a *Answerer) Ask(ctx context.Context, tenantID string, question string) (*core.Answer, error) {
	chunks, err := a.retriever.Retrieve(ctx, tenantID, question, a.contextSize)
	if err != nil {
		return nil, fmt.Errorf("retrieving context: %w", err)
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	prompt, err := promptTemplate.Format(map[string]any{
		"context":  strings.Join(texts, "\n\n"),
		"question": question,
	})
	if err != nil {
		return nil, fmt.Errorf("formatting prompt: %w", err)
	}

	text, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	a.logger.Info("answered question", "tenant", tenantID, "contextChunks", len(chunks))

	return &core.Answer{
		Question: question,
		Context:  chunks,
		Text:     text,
	}, nil
}
