// Copyright 2025 Quarry Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package ai provides abstractions for the model services used in Tessera.
//
// The pipelines depend on these interfaces, never on a concrete backend, so
// embedding and generation providers are swappable through configuration.
//
// # Design Principles
//
// Three interfaces anchor the package:
//
//   - Embedder: turns chunk and query text into vectors
//   - Generator: produces completions for fully constructed prompts
//   - AIProvider: bundles both services behind one lifecycle
//
// # Implementation Packages
//
// Three sub-packages implement them:
//
//   - ai/ollama: production implementation speaking Ollama's native API
//   - ai/openai: alternative for OpenAI-compatible servers
//   - ai/mock: deterministic doubles, no running service required
//
// # Constructor Return Type Pattern
//
// Constructors split by audience:
//
// Public constructors (ollama.NewProvider, openai.NewEmbedder, etc.) return
// INTERFACE types so production callers cannot couple to one backend;
// switching Ollama for an OpenAI-compatible server is a config change, not
// a refactor.
//
//	provider, err := ollama.NewProvider(config)  // returns ai.AIProvider
//
// Test constructors (mock.NewMockEmbedder, mock.NewMockGenerator) return
// CONCRETE types, because assertions and behavior injection go through the
// double's function fields and counters (CallCount, Reset).
//
//	double := mock.NewMockEmbedder()  // returns *mock.MockEmbedder
//	double.EmbedTextFunc = ...        // needs the concrete type
//	count := double.CallCount()
//
// # Error Taxonomy
//
// Implementations distinguish two failure classes so callers can tell a
// broken network apart from a broken payload:
//
//   - ErrTransport: the service was unreachable or returned a non-success
//     HTTP status
//   - ErrInvalidResponse: the service answered but the payload lacked the
//     expected fields
//
// Neither class is retried at this layer. Retry policy, where one applies,
// belongs to the caller.
//
// # Usage Example
//
//	config := ai.DefaultConfig()
//	provider, err := ollama.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "Hello world")
//	text, err := provider.Generator().Generate(ctx, "Summarize: ...")
package ai
