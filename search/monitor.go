package search

import (
	"github.com/poiesic/staffit/core"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query *core.Query)
	AfterVectorSearch(matches []core.SimilarityMatch)
	AfterFiltering(remaining int)
	BoostApplied(id core.DocumentID, token string, score float32)
	BelowThreshold(id core.DocumentID, score float32)
	Finish(results []core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ *core.Query)                               {}
func (n *noopMonitor) AfterVectorSearch(_ []core.SimilarityMatch)        {}
func (n *noopMonitor) AfterFiltering(_ int)                              {}
func (n *noopMonitor) BoostApplied(_ core.DocumentID, _ string, _ float32) {}
func (n *noopMonitor) BelowThreshold(_ core.DocumentID, _ float32)       {}
func (n *noopMonitor) Finish(_ []core.SearchResult)                      {}
