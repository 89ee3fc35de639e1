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

import "errors"

var (
	// ErrDimensionMismatch indicates embeddings of inconsistent length: either
	// documents with differing dimensionality at build time, or a query vector
	// whose length disagrees with the index.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrCorruptIndex indicates persisted index artifacts that are truncated,
	// damaged, or inconsistent with each other. The index cannot be loaded and
	// must be rebuilt from source records.
	ErrCorruptIndex = errors.New("corrupt index artifacts")

	// ErrDuplicateDocument indicates two documents with the same id in one
	// build. Document ids are derived deterministically from profile id and
	// document kind, so a duplicate means the input records are malformed.
	ErrDuplicateDocument = errors.New("duplicate document id")
)
