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


// Package answer provides grounded question answering over a tenant's
// ingested documents.
//
// The Answerer type chains the retrieval and generation stages:
//   - Retrieves the most similar stored chunks for the question
//   - Joins their texts into a context block
//   - Formats a fixed prompt embedding the context and the question
//   - Calls the generation model and wraps the result in core.Answer
//
// Nothing is cached between calls: every question re-embeds the query and
// re-queries the vector store, so answers always reflect the current state
// of the tenant's namespace.
package answer
