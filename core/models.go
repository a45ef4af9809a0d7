package core

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// Fingerprint is a deterministic 64-bit content hash.
// It identifies a source document across ingestions without requiring a
// registry lookup: identical text always produces the same fingerprint.
type Fingerprint uint64

// FingerprintContent computes the fingerprint of a piece of text using
// BLAKE2b hashing.
func FingerprintContent(text string) Fingerprint {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return Fingerprint(binary.LittleEndian.Uint64(sum))
}

// Metadata keys attached to every stored chunk record. Caller-supplied
// metadata is merged under its own keys; these are reserved.
const (
	MetadataKeyText        = "chunkText"
	MetadataKeyIndex       = "chunkIndex"
	MetadataKeyTotal       = "totalChunks"
	MetadataKeyIngestedAt  = "ingestedAt"
	MetadataKeyTenant      = "tenantId"
	MetadataKeyType        = "documentType"
	MetadataKeyFingerprint = "docFingerprint"
)

// DocumentTypePDF marks records whose source text was extracted from a PDF.
const DocumentTypePDF = "pdf"

// Document is the unit of ingestion: raw text plus caller-supplied metadata
// (title, author, filename, ...). Documents are ephemeral; only the chunks
// derived from them are persisted.
type Document struct {
	Text     string
	Metadata map[string]string
}

// Chunk is a contiguous, sentence-aligned piece of a normalized document.
// Index and Total describe its position within the source document; both are
// fixed before the chunk is embedded so concurrent embedding cannot reorder
// them.
type Chunk struct {
	Text      string
	Index     int
	Total     int
	TenantID  string
	Vector    []float32 // Embedding vector (populated by the ingestion pipeline)
	CreatedAt time.Time
}

// RetrievedChunk is a single retrieval hit: the stored chunk text, the
// store's similarity score, and the full metadata payload of the record.
type RetrievedChunk struct {
	Text     string         `json:"text"`
	Score    float32        `json:"score"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Answer is the result of the answer pipeline: the original question, the
// retrieved context chunks that were fed to the model, and the generated
// answer text. The JSON form is the structured output of the ask command.
type Answer struct {
	Question string           `json:"question"`
	Context  []RetrievedChunk `json:"context"`
	Text     string           `json:"answer"`
}

// Render writes the human-readable console form of the answer: the
// question, the retrieved context ranked with similarity scores, and the
// generated answer text.
func (a *Answer) Render(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Question: %s\n\n", a.Question); err != nil {
		return err
	}

	if len(a.Context) == 0 {
		if _, err := fmt.Fprintln(w, "No relevant documents found."); err != nil {
			return err
		}
	}
	for i, chunk := range a.Context {
		if _, err := fmt.Fprintf(w, "%d: '%s' [%0.3f]\n", i, chunk.Text, chunk.Score); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\nAnswer: %s\n", a.Text)
	return err
}

// Tenant is a registered tenant. Its ID doubles as the namespace inside the
// shared vector index; DisplayName and Metadata exist only in the registry
// and are untouched by namespace clear operations.
type Tenant struct {
	ID          string
	DisplayName string
	Metadata    map[string]string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
