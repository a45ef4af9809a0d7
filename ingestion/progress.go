package ingestion

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker reports batch ingestion progress to a writer, typically
// a terminal. Each completed document redraws a single status line showing
// documents done and chunks stored; Finish replaces the line with a
// summary that includes the elapsed time.
type ProgressTracker struct {
	mu sync.Mutex

	writer    io.Writer
	totalDocs int
	docsDone  int
	chunks    int
	startedAt time.Time
}

// NewProgressTracker creates a tracker for a batch of totalDocs documents.
// The clock starts immediately.
func NewProgressTracker(w io.Writer, totalDocs int) *ProgressTracker {
	return &ProgressTracker{
		writer:    w,
		totalDocs: totalDocs,
		startedAt: time.Now(),
	}
}

// DocumentDone records one completed document and the number of chunks it
// produced, then redraws the status line.
func (p *ProgressTracker) DocumentDone(chunkCount int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.docsDone < p.totalDocs {
		p.docsDone++
	}
	p.chunks += chunkCount

	fmt.Fprintf(p.writer, "\rIngesting %d/%d documents, %d chunks",
		p.docsDone, p.totalDocs, p.chunks)
}

// Finish replaces the status line with a completion summary.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := time.Since(p.startedAt).Round(10 * time.Millisecond)
	fmt.Fprintf(p.writer, "\rIngested %d documents, %d chunks in %s\n",
		p.docsDone, p.chunks, elapsed)
}
