package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "already clean",
			in:   "Hello world.",
			want: "Hello world.",
		},
		{
			name: "collapses whitespace runs",
			in:   "Hello   world\t\tagain",
			want: "Hello world again",
		},
		{
			name: "collapses newlines",
			in:   "line one\nline two\r\nline three",
			want: "line one line two line three",
		},
		{
			name: "space removed before punctuation",
			in:   "Hello , world .",
			want: "Hello, world.",
		},
		{
			name: "space inserted after punctuation",
			in:   "Hi!How are you?Good.",
			want: "Hi! How are you? Good.",
		},
		{
			name: "separates concatenated words",
			in:   "helloWorld",
			want: "hello World",
		},
		{
			name: "mixed cleanup",
			in:   " a  b,c .d",
			want: "a b, c. d",
		},
		{
			name: "empty string",
			in:   "",
			want: "",
		},
		{
			name: "whitespace only",
			in:   " \n\t ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"Hello world.",
		" a  b,c .d",
		"Hi!How are you?Good.",
		"helloWorld and moreTextHere",
		"spaced    out\n\nacross\tlines , with . stray punctuation !",
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		assert.Equal(t, once, twice, "normalize not idempotent for %q", in)
	}
}
