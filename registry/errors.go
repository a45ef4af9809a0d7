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


package registry

import "errors"

var (
	// ErrTenantNotFound indicates that the requested tenant is not registered.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrTenantExists indicates that the tenant id is already registered.
	ErrTenantExists = errors.New("tenant already exists")

	// ErrRegistryClosed indicates that the registry backend is closed.
	ErrRegistryClosed = errors.New("registry is closed")

	// ErrTruncatedData indicates that a stored record could not be decoded.
	ErrTruncatedData = errors.New("truncated data")
)
