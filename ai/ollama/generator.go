package ollama

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quarrylabs/tessera/ai"
)

// Generator implements ai.Generator against Ollama's /api/generate endpoint.
// Streaming is disabled; the full completion arrives in one response.
type Generator struct {
	client *client
	model  string
	logger *slog.Logger
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	// Pointer so an absent field can be told apart from an empty
	// completion.
	Response *string `json:"response"`
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(config *ai.Config) *Generator {
	return &Generator{
		client: newClient(config.GenerationHost),
		model:  config.GenerationModel,
		logger: slog.Default().With("component", "ollama-generator"),
	}
}

// NewGenerator creates a generator using the provided configuration.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return newGenerator(config), nil
}

// Generate produces a completion for the given prompt.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	g.logger.Debug("generating completion", "promptLength", len(prompt))

	var resp generateResponse
	err := g.client.postJSON(ctx, "/api/generate", generateRequest{
		Model:  g.model,
		Prompt: prompt,
		Stream: false,
	}, &resp)
	if err != nil {
		g.logger.Error("failed to generate completion", "err", err)
		return "", err
	}

	if resp.Response == nil {
		return "", fmt.Errorf("%w: response contains no completion text", ai.ErrInvalidResponse)
	}

	return *resp.Response, nil
}
