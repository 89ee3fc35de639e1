// Copyright 2025 Poiesic Systems
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


package index

import (
	"fmt"
	"iter"
	"math"
	"sort"

	"github.com/poiesic/staffit/core"
)

// entry is one indexed document: its id, embedding row, metadata, and the
// precomputed L2 norm of the row.
type entry struct {
	id   core.DocumentID
	vec  []float32
	meta core.DocumentMeta
	norm float64
}

// Index is an immutable vector index over profile documents. Once built it is
// safe for unbounded concurrent reads; there is no mutating method.
type Index struct {
	entries []entry
	dims    int
}

// Build constructs an index from a complete document set. Entries are ordered
// by ascending document id regardless of input order, so identical document
// sets always produce identical indexes.
//
// Build fails with ErrDimensionMismatch if documents carry embeddings of
// inconsistent length (a missing embedding counts as length zero) and with
// ErrDuplicateDocument on a repeated document id. A nil or empty document set
// yields a valid empty index.
func Build(docs []core.Document) (*Index, error) {
	if len(docs) == 0 {
		return &Index{}, nil
	}

	dims := len(docs[0].Embedding)
	entries := make([]entry, 0, len(docs))
	for _, doc := range docs {
		if len(doc.Embedding) != dims {
			return nil, fmt.Errorf("%w: document %s has %d dimensions, want %d",
				ErrDimensionMismatch, doc.Id, len(doc.Embedding), dims)
		}
		entries = append(entries, entry{
			id:   doc.Id,
			vec:  doc.Embedding,
			meta: doc.Meta,
			norm: vectorNorm(doc.Embedding),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].id.Compare(entries[j].id) < 0
	})
	for i := 1; i < len(entries); i++ {
		if entries[i].id == entries[i-1].id {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDocument, entries[i].id)
		}
	}

	return &Index{entries: entries, dims: dims}, nil
}

// Len returns the number of indexed documents.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Dimensions returns the embedding dimensionality shared by all entries.
// An empty index reports zero.
func (idx *Index) Dimensions() int {
	return idx.dims
}

// Meta returns the metadata of the document with the given id.
func (idx *Index) Meta(id core.DocumentID) (core.DocumentMeta, bool) {
	i := sort.Search(len(idx.entries), func(i int) bool {
		return idx.entries[i].id.Compare(id) >= 0
	})
	if i < len(idx.entries) && idx.entries[i].id == id {
		return idx.entries[i].meta, true
	}
	return core.DocumentMeta{}, false
}

// Documents iterates over all (id, metadata) pairs in ascending id order.
func (idx *Index) Documents() iter.Seq2[core.DocumentID, core.DocumentMeta] {
	return func(yield func(core.DocumentID, core.DocumentMeta) bool) {
		for i := range idx.entries {
			if !yield(idx.entries[i].id, idx.entries[i].meta) {
				return
			}
		}
	}
}

// Search returns the topN documents ranked by cosine similarity to the query
// vector. Scores lie in [-1, 1]; embeddings need not be pre-normalized, the
// norms are divided out internally. Ties are broken by ascending document id.
// A topN larger than the corpus returns every document; an empty index
// returns no matches. A query of the wrong dimensionality is rejected with
// ErrDimensionMismatch.
func (idx *Index) Search(query []float32, topN int) ([]core.SimilarityMatch, error) {
	if len(idx.entries) == 0 {
		return nil, nil
	}
	if len(query) != idx.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			ErrDimensionMismatch, len(query), idx.dims)
	}
	if topN <= 0 {
		return nil, nil
	}

	queryNorm := vectorNorm(query)
	matches := make([]core.SimilarityMatch, len(idx.entries))
	for i := range idx.entries {
		matches[i] = core.SimilarityMatch{
			DocumentId: idx.entries[i].id,
			Score:      cosine(query, queryNorm, &idx.entries[i]),
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].DocumentId.Compare(matches[j].DocumentId) < 0
	})

	if topN < len(matches) {
		matches = matches[:topN]
	}
	return matches, nil
}

// cosine computes the cosine similarity between the query and an entry.
// A zero vector on either side yields a score of zero.
func cosine(query []float32, queryNorm float64, e *entry) float32 {
	if queryNorm == 0 || e.norm == 0 {
		return 0
	}
	var dot float64
	for i, q := range query {
		dot += float64(q) * float64(e.vec[i])
	}
	return float32(dot / (queryNorm * e.norm))
}

// vectorNorm computes the L2 norm with float64 accumulation.
func vectorNorm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
