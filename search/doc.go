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


// Package search provides similarity retrieval over a tenant's stored chunks.
//
// The Retriever type implements the query side of the pipeline:
//   - Query embedding using the configured embedder
//   - Ranked similarity search in the tenant's namespace
//   - Mapping raw matches back to chunk texts with their metadata
//
// Results keep the vector store's rank order (descending similarity) and
// never exceed the requested topK. Monitor hooks expose the intermediate
// stages for diagnostic tooling.
package search
