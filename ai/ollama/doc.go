// Package ollama implements the ai interfaces against Ollama's native HTTP
// API. It speaks the /api/embeddings and /api/generate endpoints directly
// so it works with any Ollama version without an OpenAI compatibility
// layer.
//
// Transport failures and non-success statuses surface as ai.ErrTransport;
// responses missing the expected fields surface as ai.ErrInvalidResponse.
package ollama
