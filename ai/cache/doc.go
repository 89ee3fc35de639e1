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


// Package cache provides a persistent content-addressed cache for text
// embeddings, implemented as an ai.Embedder decorator over BadgerDB.
//
// Index builds re-embed every document text. Because documents are rendered
// deterministically from their source records, most texts are unchanged
// between builds; caching by content digest makes a rebuild cost only the
// texts that actually changed.
//
// Keys have the form "emb/<model>/<blake2b-digest>". The model identifier is
// part of the key, so changing the embedding model invalidates nothing and
// collides with nothing. Values are raw little-endian float32 bytes.
//
// The cache is strictly best-effort: a read error, a decode error, or a write
// error is logged and treated as a miss. Only the inner embedder's errors are
// returned to callers.
//
// # Usage
//
//	store, err := cache.OpenStore("/var/lib/staffit/embcache", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	cached, err := cache.NewEmbedder(innerEmbedder, store, "embeddinggemma")
package cache
