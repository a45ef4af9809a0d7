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


// Package vectorstore provides the vector index abstraction for Tessera.
//
// A Store is one shared index partitioned into namespaces, one namespace
// per tenant. Every data operation is scoped to a namespace; the two
// administrative operations (DescribeIndex, CreateIndex) act on the index
// as a whole. Namespaces need no explicit creation: they come into
// existence on first upsert and cease to matter once emptied.
//
// # Constructor Return Type Pattern
//
// The production constructor returns the Store interface to enforce
// abstraction and keep callers decoupled from the backend; the in-memory
// constructor returns its concrete type so tests can reach its inspection
// helpers:
//
//	store, err := pinecone.NewStore(cfg)  // returns vectorstore.Store
//	store := memory.NewStore(dimension)   // returns *memory.Store
//
// # Implementations
//
//   - vectorstore/pinecone: REST client for a serverless Pinecone index
//   - vectorstore/memory: in-process store with brute-force cosine
//     ranking, for tests and local runs
//
// # Invariants
//
// Records upserted under one namespace are never visible to queries in
// another. Upsert rejects vectors whose length differs from the index
// dimension with ErrDimensionMismatch. DeleteAll is idempotent: clearing
// an empty or unknown namespace succeeds.
package vectorstore
