package ingestion

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker_RedrawsPerDocument(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 3)

	tracker.DocumentDone(2)
	assert.Equal(t, "\rIngesting 1/3 documents, 2 chunks", buf.String())

	tracker.DocumentDone(5)
	assert.Contains(t, buf.String(), "\rIngesting 2/3 documents, 7 chunks")
}

func TestProgressTracker_Finish(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 2)

	tracker.DocumentDone(1)
	tracker.DocumentDone(4)
	tracker.Finish()

	out := buf.String()
	assert.Contains(t, out, "Ingested 2 documents, 5 chunks in ")
	assert.True(t, strings.HasSuffix(out, "\n"), "summary line ends the output")
}

func TestProgressTracker_NeverExceedsTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 1)

	tracker.DocumentDone(1)
	tracker.DocumentDone(1)

	out := buf.String()
	assert.Contains(t, out, "1/1")
	assert.NotContains(t, out, "2/1")
}

func TestProgressTracker_EmptyBatch(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 0)

	tracker.Finish()
	assert.Contains(t, buf.String(), "Ingested 0 documents, 0 chunks in ")
}
