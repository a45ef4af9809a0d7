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

import (
	"fmt"
	"strings"
)

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Text must contain at least one non-whitespace character
//
// NOT validated (populated by the pipeline):
//   - Metadata (nil is valid; reserved keys are added at ingestion time)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if strings.TrimSpace(doc.Text) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyContent)
	}

	return nil
}

// ValidateTenant validates a Tenant according to domain rules.
//
// Validation rules:
//   - ID must be a valid namespace name (see ValidateTenantID)
//
// NOT validated:
//   - DisplayName and Metadata (both optional)
//   - CreatedAt / UpdatedAt (populated by the registry)
func ValidateTenant(tenant *Tenant) error {
	if tenant == nil {
		return fmt.Errorf("%w: tenant is nil", ErrInvalidTenant)
	}

	if err := ValidateTenantID(tenant.ID); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTenant, err)
	}

	return nil
}

// ValidateTenantID validates that a tenant identifier can be used directly
// as a namespace name inside the vector index. Identifiers are limited to
// ASCII letters, digits, hyphen, underscore and dot.
func ValidateTenantID(id string) error {
	if id == "" {
		return ErrEmptyTenantID
	}

	for _, r := range id {
		if !isNamespaceRune(r) {
			return fmt.Errorf("%w: %q", ErrInvalidTenantID, id)
		}
	}

	return nil
}

// ValidateQuestion validates that a query string contains at least one
// non-whitespace character.
func ValidateQuestion(question string) error {
	if strings.TrimSpace(question) == "" {
		return ErrEmptyQuestion
	}
	return nil
}

func isNamespaceRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '-' || r == '_' || r == '.':
		return true
	}
	return false
}
