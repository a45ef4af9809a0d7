package ingestion

import "errors"

var (
	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrStoreRequired is returned when a vector store is not provided.
	ErrStoreRequired = errors.New("vector store required")

	// ErrExtraction is returned when document text extraction fails.
	ErrExtraction = errors.New("document extraction failed")

	// ErrDocumentTooLarge is returned when a raw document exceeds the
	// ingestion size ceiling.
	ErrDocumentTooLarge = errors.New("document exceeds size limit")
)
