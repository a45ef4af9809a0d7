// Package chunker turns raw document text into bounded, sentence-aligned
// chunks suitable for embedding.
//
// Processing happens in two stages:
//   - Normalize cleans up whitespace and punctuation spacing
//   - Split breaks the normalized text into sentence segments and packs
//     them greedily into chunks no longer than a configured maximum
//
// Both functions are pure and deterministic. A single sentence longer than
// the maximum size becomes its own oversized chunk rather than being cut
// mid-sentence.
package chunker
