// Package ingestion provides pipeline orchestration for turning documents
// into retrievable vector records.
//
// The Pipeline type manages the ingestion workflow for one tenant's documents:
//   - Splitting text into sentence-aligned chunks
//   - Embedding each chunk
//   - Upserting records with chunk metadata into the tenant's namespace
//
// Chunks are processed in ordinal order, one at a time. An optional worker
// pool embeds chunks concurrently while keeping ordinals and upsert order
// stable. Failures surface to the caller; records upserted before a failing
// chunk are not rolled back.
package ingestion
