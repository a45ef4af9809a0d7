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


package ingestion

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/quarrylabs/tessera/core"
)

// MaxDocumentBytes is the largest raw document accepted for ingestion.
const MaxDocumentBytes = 10 << 20

// IngestPDF extracts the plain text of a PDF document and ingests it the
// same way Ingest does. Records are tagged with documentType "pdf" on top
// of the usual provenance fields.
//
// Returns ErrDocumentTooLarge when raw exceeds MaxDocumentBytes, and
// ErrExtraction when the document cannot be parsed or contains no
// extractable text.
func (p *Pipeline) IngestPDF(ctx context.Context, tenantID string, raw []byte, metadata map[string]string) (*Result, error) {
	if len(raw) > MaxDocumentBytes {
		return nil, fmt.Errorf("%w: %d bytes, limit is %d", ErrDocumentTooLarge, len(raw), MaxDocumentBytes)
	}

	text, err := extractPDFText(raw)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]string, len(metadata)+1)
	for key, value := range metadata {
		merged[key] = value
	}
	merged[core.MetadataKeyType] = core.DocumentTypePDF

	return p.Ingest(ctx, tenantID, text, merged)
}

// extractPDFText pulls the plain text layer out of a PDF. The underlying
// parser panics on some malformed inputs, so panics are reported the same
// way as parse errors.
func extractPDFText(raw []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrExtraction, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	content, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	text = string(content)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: document contains no extractable text", ErrExtraction)
	}

	return text, nil
}
