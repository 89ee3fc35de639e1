package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/staffit/ai"
	"github.com/poiesic/staffit/core"
	"github.com/poiesic/staffit/index"
)

// Pipeline orchestrates a full index build: document construction, batched
// concurrent embedding, and index assembly.
type Pipeline struct {
	builder     *Builder
	embedder    ai.Embedder
	pool        *ants.Pool
	batchSize   int
	maxAttempts int
	retryDelay  time.Duration
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets the number of document texts embedded per provider call.
// Default is 16.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.batchSize = size
		return nil
	}
}

// WithRetry sets the retry policy for transient embedding failures.
// Default is 3 attempts with a 1 second base delay.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Pipeline) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		p.maxAttempts = maxAttempts
		p.retryDelay = baseDelay
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an ingestion pipeline around the given embedder.
func NewPipeline(embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		embedder:    embedder,
		pool:        pool,
		batchSize:   16,
		maxAttempts: 3,
		retryDelay:  time.Second,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	p.builder = NewBuilder(WithBuilderLogger(p.logger))
	return p, nil
}

// BuildIndex expands records into documents, embeds every document text, and
// assembles the vector index. Invalid records are skipped by the Builder; an
// embedding failure that survives the retry policy aborts the whole build.
// Document order is preserved regardless of batch completion order.
func (p *Pipeline) BuildIndex(ctx context.Context, records []core.ProfileRecord) (*index.Index, error) {
	docs := p.builder.Build(records)
	if len(docs) == 0 {
		return index.Build(nil)
	}

	p.logger.Info("embedding documents", "records", len(records), "documents", len(docs))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for start := 0; start < len(docs); start += p.batchSize {
		end := min(start+p.batchSize, len(docs))
		batch := docs[start:end]

		texts := make([]string, len(batch))
		for i := range batch {
			texts[i] = batch[i].Text
		}

		wg.Add(1)
		if err := p.pool.Submit(func() {
			defer wg.Done()

			var vectors [][]float32
			err := RetryWithBackoff(ctx, func() error {
				var embedErr error
				vectors, embedErr = p.embedder.EmbedTexts(ctx, texts)
				return embedErr
			}, p.maxAttempts, p.retryDelay)
			if err == nil && len(vectors) != len(batch) {
				err = fmt.Errorf("embedding result mismatch. expected %d, received %d",
					len(batch), len(vectors))
			}
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}

			// Each task writes only its own slice range, no locking needed.
			for i := range batch {
				batch[i].Embedding = vectors[i]
			}
		}); err != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
			break
		}
	}

	wg.Wait()
	if firstErr != nil {
		p.logger.Error("index build aborted", "err", firstErr)
		return nil, firstErr
	}

	return index.Build(docs)
}

// Release frees the worker pool. The pipeline should not be used afterwards.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
