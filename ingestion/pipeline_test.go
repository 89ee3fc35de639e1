package ingestion

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poiesic/staffit/ai/mock"
	"github.com/poiesic/staffit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecords() []core.ProfileRecord {
	return []core.ProfileRecord{
		{
			Id:              "1",
			Name:            "Alice Johnson",
			Position:        "ML Engineer",
			Department:      "Engineering",
			Skills:          []string{"Python", "Machine Learning"},
			ExperienceYears: 4,
			Availability:    core.AvailabilityAvailable,
			Projects:        []core.Project{{Name: "Healthcare ML System"}},
		},
		{
			Id:              "2",
			Name:            "Bob Smith",
			Position:        "Backend Developer",
			Department:      "Engineering",
			Skills:          []string{"Go", "Kubernetes"},
			ExperienceYears: 7,
			Availability:    core.AvailabilityUnavailable,
		},
	}
}

func TestNewPipeline(t *testing.T) {
	t.Run("valid pipeline", func(t *testing.T) {
		p, err := NewPipeline(mock.NewMockEmbedder())
		require.NoError(t, err)
		defer p.Release()
	})

	t.Run("nil embedder", func(t *testing.T) {
		_, err := NewPipeline(nil)
		assert.ErrorIs(t, err, ErrEmbedderRequired)
	})

	t.Run("invalid retry option", func(t *testing.T) {
		_, err := NewPipeline(mock.NewMockEmbedder(), WithRetry(0, time.Second))
		assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
	})
}

func TestBuildIndex(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	p, err := NewPipeline(embedder, WithBatchSize(2))
	require.NoError(t, err)
	defer p.Release()

	idx, err := p.BuildIndex(context.Background(), testRecords())
	require.NoError(t, err)

	// Alice: profile + 2 skills + 1 project; Bob: profile + 2 skills.
	assert.Equal(t, 7, idx.Len())
	assert.Equal(t, 384, idx.Dimensions())
}

func TestBuildIndex_OrderIndependentOfBatchCompletion(t *testing.T) {
	// The mock embeds deterministically per text, so regardless of which
	// batch finishes first every document must end up with the embedding of
	// its own text.
	embedder := mock.NewMockEmbedder()
	p, err := NewPipeline(embedder, WithBatchSize(1), WithPoolSize(4))
	require.NoError(t, err)
	defer p.Release()

	idx, err := p.BuildIndex(context.Background(), testRecords())
	require.NoError(t, err)

	// Build a second index serially and compare search results.
	serial, err := NewPipeline(mock.NewMockEmbedder(), WithBatchSize(100), WithPoolSize(1))
	require.NoError(t, err)
	defer serial.Release()
	want, err := serial.BuildIndex(context.Background(), testRecords())
	require.NoError(t, err)

	query, err := embedder.EmbedText(context.Background(), "machine learning")
	require.NoError(t, err)

	gotMatches, err := idx.Search(query, 10)
	require.NoError(t, err)
	wantMatches, err := want.Search(query, 10)
	require.NoError(t, err)
	assert.Equal(t, wantMatches, gotMatches)
}

func TestBuildIndex_EmptyRecords(t *testing.T) {
	p, err := NewPipeline(mock.NewMockEmbedder())
	require.NoError(t, err)
	defer p.Release()

	idx, err := p.BuildIndex(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())
}

func TestBuildIndex_SkipsInvalidRecords(t *testing.T) {
	records := testRecords()
	records[1].Name = "" // invalid, dropped by the builder

	p, err := NewPipeline(mock.NewMockEmbedder())
	require.NoError(t, err)
	defer p.Release()

	idx, err := p.BuildIndex(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 4, idx.Len())
}

func TestBuildIndex_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("transient failure")
		}
		vectors := make([][]float32, len(texts))
		for i := range vectors {
			vectors[i] = []float32{1, 0}
		}
		return vectors, nil
	}

	p, err := NewPipeline(embedder,
		WithBatchSize(100), WithRetry(3, time.Millisecond))
	require.NoError(t, err)
	defer p.Release()

	idx, err := p.BuildIndex(context.Background(), testRecords())
	require.NoError(t, err)
	assert.Equal(t, 7, idx.Len())
	assert.GreaterOrEqual(t, calls.Load(), int32(2))
}

func TestBuildIndex_AbortsAfterRetryExhaustion(t *testing.T) {
	embedderErr := errors.New("provider down")
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, embedderErr
	}

	p, err := NewPipeline(embedder, WithRetry(2, time.Millisecond))
	require.NoError(t, err)
	defer p.Release()

	_, err = p.BuildIndex(context.Background(), testRecords())
	require.Error(t, err)
	assert.ErrorIs(t, err, embedderErr)
}
