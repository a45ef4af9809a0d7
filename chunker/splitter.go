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


package chunker

import "strings"

// DefaultMaxSize is the chunk size used when no explicit maximum is
// configured. Sized so a chunk stays well inside typical embedding-model
// input limits while holding several sentences of context.
const DefaultMaxSize = 1000

// Splitter packs sentences into bounded chunks.
type Splitter struct {
	maxSize int
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithMaxSize sets the maximum chunk size in characters. Non-positive
// values keep the default.
func WithMaxSize(n int) Option {
	return func(s *Splitter) {
		if n > 0 {
			s.maxSize = n
		}
	}
}

// New creates a Splitter with DefaultMaxSize unless overridden.
func New(opts ...Option) *Splitter {
	s := &Splitter{maxSize: DefaultMaxSize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxSize returns the configured maximum chunk size.
func (s *Splitter) MaxSize() int {
	return s.maxSize
}

// Split normalizes text and packs its sentences into ordered chunks of at
// most the configured maximum size.
//
// The text is divided into sentence segments at the delimiters . ! ? and
// the delimiters are discarded. Segments are accumulated greedily: each
// chunk takes as many whole sentences as fit, joined with ". " and
// terminated with ".". A single sentence longer than the maximum becomes
// its own chunk unsplit.
//
// Chunk order follows sentence order in the input. Empty or whitespace-only
// input yields no chunks.
func (s *Splitter) Split(text string) []string {
	segments := sentenceSegments(Normalize(text))
	if len(segments) == 0 {
		return nil
	}

	var chunks []string
	current := segments[0]

	for _, segment := range segments[1:] {
		// Joining adds ". " between sentences plus the trailing "."
		// written at flush time.
		if len(current)+len(segment)+3 <= s.maxSize {
			current = current + ". " + segment
			continue
		}
		chunks = append(chunks, current+".")
		current = segment
	}

	return append(chunks, current+".")
}

// Split is a convenience for one-off splitting with an explicit maximum
// size. Non-positive maxSize falls back to DefaultMaxSize.
func Split(text string, maxSize int) []string {
	return New(WithMaxSize(maxSize)).Split(text)
}

func isSentenceDelimiter(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// sentenceSegments splits normalized text at sentence delimiters, trimming
// each segment and dropping empty ones.
func sentenceSegments(text string) []string {
	fields := strings.FieldsFunc(text, isSentenceDelimiter)

	segments := make([]string, 0, len(fields))
	for _, field := range fields {
		if trimmed := strings.TrimSpace(field); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}

	return segments
}
