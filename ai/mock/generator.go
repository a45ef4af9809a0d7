package mock

import (
	"context"
	"fmt"
)

// MockGenerator is a configurable ai.Generator double. The function field
// overrides Generate; when unset, a canned completion is returned.
type MockGenerator struct {
	// GenerateFunc overrides Generate when set.
	GenerateFunc func(ctx context.Context, prompt string) (string, error)

	callCount   int
	lastPrompt  string
	promptCalls []string
}

// NewMockGenerator creates a mock generator with default canned behavior.
// Note: Returns concrete type to allow test assertions via GetMockGenerator().
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate returns a deterministic canned completion.
// Default behavior: echoes the prompt length so tests can tell prompts apart.
func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.callCount++
	m.lastPrompt = prompt
	m.promptCalls = append(m.promptCalls, prompt)

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}

	return fmt.Sprintf("mock answer (%d chars of prompt)", len(prompt)), nil
}

// CallCount returns the number of times Generate was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// LastPrompt returns the prompt from the most recent Generate call.
// Useful for asserting on prompt construction.
func (m *MockGenerator) LastPrompt() string {
	return m.lastPrompt
}

// Prompts returns every prompt passed to Generate, in call order.
func (m *MockGenerator) Prompts() []string {
	return m.promptCalls
}

// Reset clears the call history and injected behavior.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.lastPrompt = ""
	m.promptCalls = nil
	m.GenerateFunc = nil
}
