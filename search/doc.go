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


// Package search implements hybrid retrieval over the profile index.
//
// The Searcher combines three signals:
//   - Cosine similarity between the query embedding and document embeddings
//   - Structured attribute filters (skills, department, experience,
//     availability, name) evaluated as a conjunctive predicate
//   - A keyword boost for query tokens that appear verbatim in a candidate's
//     skill set or department, which keeps exact terminology matches from
//     being under-ranked by pure embedding distance
//
// Candidates are oversampled from the index, filtered, boosted, cut at the
// score threshold, deduplicated to the best document per profile, and ranked
// by descending score with ascending profile id as the tie-break. All tuning
// parameters (k, threshold, boost, oversampling) are per-Searcher
// configuration, never process-global state.
package search
