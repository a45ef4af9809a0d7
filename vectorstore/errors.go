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


package vectorstore

import "errors"

// Vector store errors
var (
	// ErrDimensionMismatch indicates an upserted vector's length differs
	// from the dimension the index was created with.
	ErrDimensionMismatch = errors.New("vector dimension does not match index configuration")

	// ErrNamespaceNotFound indicates the backend distinguishes absent
	// namespaces from empty ones and the queried namespace is absent.
	ErrNamespaceNotFound = errors.New("namespace not found")

	// ErrIndexNotFound indicates the index has not been created yet.
	ErrIndexNotFound = errors.New("index not found")

	// ErrTransport indicates the store service could not be reached or
	// answered with an unexpected HTTP status.
	ErrTransport = errors.New("vector store transport failure")
)
