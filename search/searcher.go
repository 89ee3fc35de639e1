package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/poiesic/staffit/ai"
	"github.com/poiesic/staffit/core"
	"github.com/poiesic/staffit/index"
)

// Default tuning parameters. Each can be overridden per Searcher; none of
// them is process-global state.
const (
	DefaultK              = 5
	DefaultScoreThreshold = 0.3
	DefaultKeywordBoost   = 0.15
	DefaultOversample     = 4
	DefaultMinCandidates  = 20
)

// Searcher provides hybrid semantic and structured search over profile
// documents. It is safe for concurrent use: per-query state stays on the
// stack and the index it reads is immutable.
type Searcher struct {
	embedder       ai.Embedder
	defaultK       int
	scoreThreshold float32
	keywordBoost   float32
	oversample     int
	minCandidates  int
	logger         *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithDefaultK sets the result count used when a query does not specify one.
func WithDefaultK(k int) Option {
	return func(s *Searcher) error {
		if k < 1 {
			return fmt.Errorf("default k must be positive, got %d", k)
		}
		s.defaultK = k
		return nil
	}
}

// WithScoreThreshold sets the minimum fused score used when a query does not
// specify one.
func WithScoreThreshold(threshold float32) Option {
	return func(s *Searcher) error {
		s.scoreThreshold = threshold
		return nil
	}
}

// WithKeywordBoost sets the score bonus applied when a query token matches a
// candidate's skills or department verbatim.
func WithKeywordBoost(boost float32) Option {
	return func(s *Searcher) error {
		if boost < 0 {
			return fmt.Errorf("keyword boost must not be negative, got %v", boost)
		}
		s.keywordBoost = boost
		return nil
	}
}

// WithOversampling sets the candidate oversampling policy: the vector search
// requests max(k*factor, floor) candidates, capped at the corpus size, to
// leave room for filtering and deduplication losses.
func WithOversampling(factor, floor int) Option {
	return func(s *Searcher) error {
		if factor < 1 || floor < 1 {
			return fmt.Errorf("oversampling factor and floor must be positive, got %d and %d", factor, floor)
		}
		s.oversample = factor
		s.minCandidates = floor
		return nil
	}
}

// NewSearcher creates a new searcher around the given embedder.
func NewSearcher(embedder ai.Embedder, opts ...Option) (*Searcher, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		embedder:       embedder,
		defaultK:       DefaultK,
		scoreThreshold: DefaultScoreThreshold,
		keywordBoost:   DefaultKeywordBoost,
		oversample:     DefaultOversample,
		minCandidates:  DefaultMinCandidates,
		logger:         slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// candidate is one document still in the running during a search.
type candidate struct {
	id    core.DocumentID
	score float32
	meta  core.DocumentMeta
}

// Search runs a hybrid query against the index and returns ranked,
// deduplicated profile results. See SearchWithMonitor for the algorithm.
func (s *Searcher) Search(ctx context.Context, idx *index.Index, query *core.Query) ([]core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, idx, query, nil)
}

// SearchWithMonitor runs a hybrid query with per-stage observation hooks.
//
// For a query with raw text, candidates come from an oversampled vector
// search; without raw text, every document passing the structured filters
// becomes a candidate at score 1.0. Candidates then pass through the filter
// predicate, the keyword boost, the score threshold, best-document-per-profile
// deduplication, and final ranking.
//
// A query with neither raw text nor active filters returns no results: an
// unconstrained full-corpus dump is refused by policy. If the embedding
// provider fails for a semantic query, the error is surfaced as
// ai.ErrEmbeddingUnavailable with no partial result.
func (s *Searcher) SearchWithMonitor(ctx context.Context, idx *index.Index, query *core.Query, monitor SearchMonitor) ([]core.SearchResult, error) {
	if idx == nil {
		return nil, ErrIndexRequired
	}
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query)

	k := query.K
	if k <= 0 {
		k = s.defaultK
	}
	threshold := query.ScoreThreshold
	if threshold <= 0 {
		threshold = s.scoreThreshold
	}

	rawText := strings.TrimSpace(query.RawText)
	if rawText == "" && !HasActiveFilters(query) {
		s.logger.Debug("refusing unconstrained query: no text and no filters")
		monitor.Finish(nil)
		return nil, nil
	}
	if idx.Len() == 0 {
		monitor.Finish(nil)
		return nil, nil
	}

	var candidates []candidate
	if rawText == "" {
		candidates = s.filterOnlyCandidates(idx, query)
		monitor.AfterFiltering(len(candidates))
	} else {
		vector, err := s.embedder.EmbedText(ctx, rawText)
		if err != nil {
			s.logger.Error("error generating embedding for query", "err", err)
			if !errors.Is(err, ai.ErrEmbeddingUnavailable) {
				err = fmt.Errorf("%w: %w", ai.ErrEmbeddingUnavailable, err)
			}
			return nil, err
		}

		// Oversample so filtering and dedup losses don't starve the final
		// top-k.
		topN := min(max(k*s.oversample, s.minCandidates), idx.Len())
		matches, err := idx.Search(vector, topN)
		if err != nil {
			return nil, err
		}
		monitor.AfterVectorSearch(matches)

		candidates = make([]candidate, 0, len(matches))
		for _, match := range matches {
			meta, ok := idx.Meta(match.DocumentId)
			if !ok {
				continue
			}
			if !Matches(&meta, query) {
				continue
			}
			candidates = append(candidates, candidate{
				id:    match.DocumentId,
				score: match.Score,
				meta:  meta,
			})
		}
		monitor.AfterFiltering(len(candidates))

		s.applyKeywordBoost(candidates, rawText, monitor)
	}

	// Threshold cut, then best-document-per-profile dedup.
	best := make(map[string]candidate)
	for _, c := range candidates {
		if c.score < threshold {
			monitor.BelowThreshold(c.id, c.score)
			continue
		}
		prev, seen := best[c.meta.ProfileId]
		if !seen || c.score > prev.score ||
			(c.score == prev.score && c.id.Compare(prev.id) < 0) {
			best[c.meta.ProfileId] = c
		}
	}

	results := make([]core.SearchResult, 0, len(best))
	for _, c := range best {
		results = append(results, core.SearchResult{
			ProfileId:  c.meta.ProfileId,
			Score:      c.score,
			DocumentId: c.id,
			Meta:       c.meta,
		})
	}

	// Sort by descending score; equal scores rank the smaller profile id
	// first so ordering is reproducible.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ProfileId < results[j].ProfileId
	})
	if len(results) > k {
		results = results[:k]
	}
	monitor.Finish(results)

	return results, nil
}

// filterOnlyCandidates collects every document whose metadata passes the
// structured filters, at a fixed score of 1.0. Used when the query carries no
// raw text to embed.
func (s *Searcher) filterOnlyCandidates(idx *index.Index, query *core.Query) []candidate {
	var candidates []candidate
	for id, meta := range idx.Documents() {
		if Matches(&meta, query) {
			candidates = append(candidates, candidate{id: id, score: 1.0, meta: meta})
		}
	}
	return candidates
}

// applyKeywordBoost adds the configured bonus to candidates whose skills or
// department contain a query token verbatim. The fused score is capped at
// 1.0. This is the fusion step that makes the search hybrid: exact
// terminology matches would otherwise be under-ranked by embedding distance
// alone.
func (s *Searcher) applyKeywordBoost(candidates []candidate, rawText string, monitor SearchMonitor) {
	tokens := tokenizeAndFilter(rawText)
	if len(tokens) == 0 {
		return
	}

	for i := range candidates {
		token, ok := keywordHit(&candidates[i].meta, tokens)
		if !ok {
			continue
		}
		boosted := candidates[i].score + s.keywordBoost
		if boosted > 1.0 {
			boosted = 1.0
		}
		candidates[i].score = boosted
		monitor.BoostApplied(candidates[i].id, token, boosted)
	}
}

// keywordHit returns the first query token that appears verbatim in the
// metadata skill set or department. A token matches a whole skill, any word
// of a multi-word skill, or any word of the department.
func keywordHit(meta *core.DocumentMeta, tokens []string) (string, bool) {
	words := make(map[string]bool)
	for _, skill := range meta.Skills {
		words[skill] = true
		for _, w := range strings.Fields(skill) {
			words[w] = true
		}
	}
	for _, w := range strings.Fields(strings.ToLower(meta.Department)) {
		words[w] = true
	}

	for _, token := range tokens {
		if words[token] {
			return token, true
		}
	}
	return "", false
}
