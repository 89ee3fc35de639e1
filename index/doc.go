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


// Package index implements the vector index over profile documents.
//
// An Index is an immutable collection of (document id, embedding, metadata)
// entries with a single dimensionality shared by every embedding. It is built
// once from a complete document set and never mutated afterwards, so any
// number of concurrent searches may run against the same Index without
// locking. Replacing the corpus means building a new Index and swapping the
// reference; see the Engine type in the root package.
//
// Search is brute-force cosine similarity. At the intended scale (hundreds to
// low thousands of documents) a linear scan outperforms the bookkeeping of an
// approximate structure and keeps the ranking exact: scores are accumulated in
// float64, ties are broken by ascending document id, and identical inputs
// always produce identical rankings.
//
// # Persistence
//
// An Index persists as two companion blobs: a dense vector blob (row-major
// float32 rows behind a counted header) and a metadata blob (document ids and
// profile attributes in the same ordinal order). Both carry a magic tag, a
// format version, the entry count, and the dimensionality; Load cross-checks
// the pair and rejects any disagreement with ErrCorruptIndex. Loading one
// blob without its companion is impossible by construction; both are
// required arguments.
//
// SaveDir and LoadDir store the pair as "index.vectors" and "index.meta" in a
// directory, writing through temp files so a crash never leaves a torn pair.
package index
