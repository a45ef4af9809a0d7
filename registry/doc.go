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


// Package registry provides the tenant registry abstraction for tessera.
//
// The vector store gives namespaces no independent existence: a namespace
// appears on first upsert and vanishes when its last record is deleted.
// The registry is the entity that outlives records. It persists tenant
// identity and metadata so that "delete tenant" and "clear tenant
// documents" can mean different things: clearing empties the namespace
// and keeps the registry entry, deleting removes both.
//
// # Constructor Return Type Pattern
//
// This package follows a strict "return interface" pattern for all public
// constructors to enforce abstraction and enable alternative backends:
//
//	reg, err := badger.NewRegistry(path)  // returns registry.TenantRegistry
//
// This design decision prioritizes:
//   - Abstraction: Prevents accidental coupling to BadgerDB specifics
//   - Swappability: Easy to add alternative backends (SQL, in-memory, etc.)
//   - Testing: Consumers can substitute doubles without modification
//
// # Usage
//
// Open a registry on disk:
//
//	reg, err := badger.NewRegistry("/var/lib/tessera/registry")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer reg.Close()
//
// Use in tests with in-memory storage:
//
//	reg, err := badger.NewMemoryRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer reg.Close()
//
// # Thread Safety
//
// All registry implementations must be thread-safe and support concurrent
// access from multiple goroutines.
//
// # Context Support
//
// All registry methods accept context.Context for cancellation and
// timeout support. Pass context.Background() for operations without
// specific timeout requirements.
package registry
