package search

import (
	"github.com/quarrylabs/tessera/core"
	"github.com/quarrylabs/tessera/vectorstore"
)

// SearchMonitor provides hooks to observe the retrieval process.
// Implement this interface to track intermediate steps and results during retrieval.
type SearchMonitor interface {
	Start(query string)
	AfterQueryEmbedding(vector []float32)
	AfterVectorSearch(matches []vectorstore.Match)
	Finish(chunks []core.RetrievedChunk)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                          {}
func (n *noopMonitor) AfterQueryEmbedding(_ []float32)         {}
func (n *noopMonitor) AfterVectorSearch(_ []vectorstore.Match) {}
func (n *noopMonitor) Finish(_ []core.RetrievedChunk)          {}
