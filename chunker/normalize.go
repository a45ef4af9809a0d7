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

import (
	"regexp"
	"strings"
)

var (
	concatenatedWords = regexp.MustCompile(`([a-z])([A-Z])`)
	whitespaceRun     = regexp.MustCompile(`\s+`)
	spaceBeforePunct  = regexp.MustCompile(`\s+([.,!?])`)
	punctNoSpace      = regexp.MustCompile(`([.,!?])(\S)`)
)

// Normalize cleans up text extracted from arbitrary sources (copy-paste,
// PDF extraction) into a single-line, consistently spaced form.
//
// Transformations, in order:
//   - insert a space between a lowercase letter immediately followed by an
//     uppercase letter (undoes words run together during extraction)
//   - collapse any whitespace run, including newlines, to a single space
//   - remove whitespace before the punctuation marks . , ! ?
//   - insert a space after those punctuation marks when one is missing
//   - trim leading and trailing whitespace
//
// Normalize is idempotent: applying it twice yields the same result as
// applying it once.
func Normalize(text string) string {
	text = concatenatedWords.ReplaceAllString(text, "$1 $2")
	text = whitespaceRun.ReplaceAllString(text, " ")
	text = spaceBeforePunct.ReplaceAllString(text, "$1")
	text = punctNoSpace.ReplaceAllString(text, "$1 $2")
	return strings.TrimSpace(text)
}
