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


package ai

import "errors"

// AI service errors
var (
	// ErrTransport indicates the remote service could not be reached or
	// answered with a non-success HTTP status.
	ErrTransport = errors.New("ai service transport failure")

	// ErrInvalidResponse indicates the remote service answered, but the
	// payload was malformed or missing the expected fields.
	ErrInvalidResponse = errors.New("invalid ai service response")
)
