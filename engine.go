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


// Package staffit wires the profile retrieval engine together: roster
// ingestion, vector indexing, and hybrid search behind one facade.
//
// The Engine holds the active index in an atomic pointer. Searches read
// whatever index is current without locking; Rebuild constructs a complete
// new index off to the side and swaps it in with a single atomic store, so
// in-flight searches always observe a self-consistent index and never a
// partially built one.
package staffit

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/poiesic/staffit/ai"
	"github.com/poiesic/staffit/ai/cache"
	"github.com/poiesic/staffit/ai/openai"
	"github.com/poiesic/staffit/core"
	"github.com/poiesic/staffit/index"
	"github.com/poiesic/staffit/ingestion"
	"github.com/poiesic/staffit/search"
)

// Engine is the top-level facade over the retrieval components. It is safe
// for concurrent use: any number of searches may run while a rebuild is in
// progress, though rebuilds themselves are expected to be single-writer.
type Engine struct {
	provider   ai.AIProvider
	embedder   ai.Embedder
	pipeline   *ingestion.Pipeline
	searcher   *search.Searcher
	cacheStore *cache.Store
	active     atomic.Pointer[index.Index]
	logger     *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig     *ai.Config
	provider     ai.AIProvider
	cachePath    string
	searchOpts   []search.Option
	pipelineOpts []ingestion.Option
}

// WithAIConfig sets the embedding provider configuration.
// Default is ai.DefaultConfig().
func WithAIConfig(cfg *ai.Config) EngineOption {
	return func(o *engineOptions) {
		if cfg != nil {
			o.aiConfig = cfg
		}
	}
}

// WithProvider injects a pre-built AI provider instead of constructing the
// OpenAI-compatible one from the config. The engine takes ownership and
// closes it on Close.
func WithProvider(provider ai.AIProvider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithEmbeddingCache enables the persistent embedding cache at the given
// directory. Rebuilds then only pay for document texts that actually changed.
func WithEmbeddingCache(path string) EngineOption {
	return func(o *engineOptions) {
		o.cachePath = path
	}
}

// WithSearchOptions forwards options to the underlying searcher.
func WithSearchOptions(opts ...search.Option) EngineOption {
	return func(o *engineOptions) {
		o.searchOpts = append(o.searchOpts, opts...)
	}
}

// WithPipelineOptions forwards options to the underlying ingestion pipeline.
func WithPipelineOptions(opts ...ingestion.Option) EngineOption {
	return func(o *engineOptions) {
		o.pipelineOpts = append(o.pipelineOpts, opts...)
	}
}

// NewEngine creates an engine with an empty active index. Searches against a
// fresh engine return no results; call Rebuild or LoadIndex to populate it.
func NewEngine(opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	provider := options.provider
	if provider == nil {
		var err error
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			return nil, err
		}
	}

	embedder := provider.Embedder()
	var cacheStore *cache.Store
	if options.cachePath != "" {
		store, err := cache.OpenStore(options.cachePath, false)
		if err != nil {
			provider.Close()
			return nil, err
		}
		cached, err := cache.NewEmbedder(embedder, store, options.aiConfig.EmbeddingModel)
		if err != nil {
			store.Close()
			provider.Close()
			return nil, err
		}
		cacheStore = store
		embedder = cached
	}

	pipeline, err := ingestion.NewPipeline(embedder, options.pipelineOpts...)
	if err != nil {
		closeQuietly(cacheStore, provider)
		return nil, err
	}

	searcher, err := search.NewSearcher(embedder, options.searchOpts...)
	if err != nil {
		pipeline.Release()
		closeQuietly(cacheStore, provider)
		return nil, err
	}

	e := &Engine{
		provider:   provider,
		embedder:   embedder,
		pipeline:   pipeline,
		searcher:   searcher,
		cacheStore: cacheStore,
		logger:     slog.Default().With("component", "engine"),
	}
	empty, err := index.Build(nil)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.active.Store(empty)
	return e, nil
}

// Rebuild constructs a fresh index from the records and atomically swaps it
// in as the active one. In-flight searches keep reading the previous index
// until the swap; the old index is garbage once the last search releases it.
func (e *Engine) Rebuild(ctx context.Context, records []core.ProfileRecord) error {
	idx, err := e.pipeline.BuildIndex(ctx, records)
	if err != nil {
		return fmt.Errorf("rebuilding index: %w", err)
	}
	e.active.Store(idx)
	e.logger.Info("index rebuilt", "documents", idx.Len(), "dimensions", idx.Dimensions())
	return nil
}

// Search runs a hybrid query against the active index.
func (e *Engine) Search(ctx context.Context, query *core.Query) ([]core.SearchResult, error) {
	return e.searcher.Search(ctx, e.active.Load(), query)
}

// SearchWithMonitor runs a hybrid query with per-stage observation hooks.
func (e *Engine) SearchWithMonitor(ctx context.Context, query *core.Query, monitor search.SearchMonitor) ([]core.SearchResult, error) {
	return e.searcher.SearchWithMonitor(ctx, e.active.Load(), query, monitor)
}

// Index returns the currently active index snapshot. The snapshot stays
// valid and consistent even if a rebuild swaps the active index afterwards.
func (e *Engine) Index() *index.Index {
	return e.active.Load()
}

// SaveIndex persists the active index as a companion file pair in dir.
func (e *Engine) SaveIndex(dir string) error {
	return e.active.Load().SaveDir(dir)
}

// LoadIndex loads a persisted companion file pair and atomically makes it the
// active index.
func (e *Engine) LoadIndex(dir string) error {
	idx, err := index.LoadDir(dir)
	if err != nil {
		return err
	}
	e.active.Store(idx)
	e.logger.Info("index loaded", "dir", dir, "documents", idx.Len())
	return nil
}

// Close releases the worker pool, the embedding cache, and the AI provider.
// The engine should not be used afterwards.
func (e *Engine) Close() error {
	e.pipeline.Release()

	var firstErr error
	if e.cacheStore != nil {
		if err := e.cacheStore.Close(); err != nil {
			e.logger.Error("error closing embedding cache", "err", err)
			firstErr = err
		}
	}
	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func closeQuietly(store *cache.Store, provider ai.AIProvider) {
	if store != nil {
		store.Close()
	}
	provider.Close()
}
