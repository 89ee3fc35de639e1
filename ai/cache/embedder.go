package cache

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/poiesic/staffit/ai"
	"github.com/poiesic/staffit/core"
)

// keyPrefix namespaces embedding entries inside the store.
const keyPrefix = "emb/"

var (
	// ErrEmbedderRequired is returned when the inner embedder is not provided.
	ErrEmbedderRequired = errors.New("inner embedder required")

	// ErrStoreRequired is returned when the cache store is not provided.
	ErrStoreRequired = errors.New("cache store required")

	// ErrModelRequired is returned when the model identifier is not provided.
	ErrModelRequired = errors.New("model identifier required")
)

// Embedder wraps another ai.Embedder with a persistent content-addressed
// cache. Keys combine the model identifier with a BLAKE2b digest of the text,
// so switching embedding models never serves stale vectors. Cache read and
// write failures degrade to a miss; they are logged and never surfaced.
type Embedder struct {
	inner  ai.Embedder
	store  *Store
	model  string
	logger *slog.Logger
}

var _ ai.Embedder = (*Embedder)(nil)

// NewEmbedder wraps inner with the cache held in store. The model identifier
// scopes cache keys so different models never share entries.
//
// Returns the concrete type: callers typically also own the Store lifecycle.
func NewEmbedder(inner ai.Embedder, store *Store, model string) (*Embedder, error) {
	if inner == nil {
		return nil, ErrEmbedderRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}
	if model == "" {
		return nil, ErrModelRequired
	}

	return &Embedder{
		inner:  inner,
		store:  store,
		model:  model,
		logger: slog.Default().With("component", "embedding-cache"),
	}, nil
}

// EmbedText returns a cached embedding or calls the inner embedder.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	key := e.cacheKey(text)

	if vec, ok := e.getFromCache(key); ok {
		return vec, nil
	}

	vec, err := e.inner.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}

	e.putToCache(key, vec)
	return vec, nil
}

// EmbedTexts returns embeddings for all texts, calling the inner embedder only
// for the texts missing from the cache. Result order matches the input order.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, len(texts))
	var missIdx []int
	var missTexts []string

	for i, text := range texts {
		if vec, ok := e.getFromCache(e.cacheKey(text)); ok {
			vectors[i] = vec
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
	}

	e.logger.Debug("embedding cache lookup",
		"total", len(texts), "hits", len(texts)-len(missTexts), "misses", len(missTexts))

	if len(missTexts) == 0 {
		return vectors, nil
	}

	embedded, err := e.inner.EmbedTexts(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(embedded) != len(missTexts) {
		return nil, fmt.Errorf("embedding result mismatch. expected %d, received %d",
			len(missTexts), len(embedded))
	}

	for j, i := range missIdx {
		vectors[i] = embedded[j]
		e.putToCache(e.cacheKey(texts[i]), embedded[j])
	}

	return vectors, nil
}

// cacheKey builds the store key for a text under the configured model.
func (e *Embedder) cacheKey(text string) []byte {
	digest := strconv.FormatUint(core.HashContent(text), 16)
	return []byte(keyPrefix + e.model + "/" + digest)
}

func (e *Embedder) getFromCache(key []byte) ([]float32, bool) {
	data, err := e.store.Get(key)
	if err != nil {
		e.logger.Warn("failed to read cached embedding", "key", string(key), "err", err)
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	vec, err := bytesToVector(data)
	if err != nil {
		e.logger.Warn("failed to decode cached embedding", "key", string(key), "err", err)
		return nil, false
	}

	return vec, true
}

func (e *Embedder) putToCache(key []byte, vec []float32) {
	if err := e.store.Set(key, vectorToBytes(vec)); err != nil {
		e.logger.Warn("failed to cache embedding", "key", string(key), "err", err)
	}
}

// vectorToBytes encodes a vector as little-endian float32 bytes.
func vectorToBytes(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToVector decodes little-endian float32 bytes back into a vector.
func bytesToVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("invalid cached embedding: %d bytes is not a multiple of 4", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}
