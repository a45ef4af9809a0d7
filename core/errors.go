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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidTenant indicates a Tenant failed validation.
	ErrInvalidTenant = errors.New("invalid tenant")

	// ErrEmptyContent indicates the document text is empty after trimming.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptyTenantID indicates a tenant identifier is missing.
	ErrEmptyTenantID = errors.New("tenant id cannot be empty")

	// ErrInvalidTenantID indicates a tenant identifier contains characters
	// that are not allowed in a namespace name.
	ErrInvalidTenantID = errors.New("tenant id contains invalid characters")

	// ErrEmptyQuestion indicates a query or question string is empty.
	ErrEmptyQuestion = errors.New("question cannot be empty")
)
