// Package mock provides in-memory doubles for the ai interfaces.
//
// Tests build against ai.Embedder, ai.Generator, and ai.AIProvider without
// reaching any AI service. Defaults are deterministic; function fields
// switch individual methods over to custom behavior:
//
//	provider := mock.NewMockProvider()
//	vector, err := provider.Embedder().EmbedText(ctx, "test")
//
//	mockEmbedder := mock.NewMockEmbedder()
//	mockEmbedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return []float32{0.1, 0.2, 0.3}, nil
//	}
//	count := mockEmbedder.CallCount()
//
// Default behavior per double:
//
//   - MockEmbedder: unit vectors derived from the text hash
//   - MockGenerator: a canned completion derived from the prompt
//   - MockProvider: aggregates the two
package mock
