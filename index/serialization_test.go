package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/staffit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := Build([]core.Document{
		{
			Id: core.DocumentID{ProfileId: "1", Kind: core.DocumentKindProfile},
			Meta: core.DocumentMeta{
				ProfileId:       "1",
				Name:            "Alice Johnson",
				Position:        "ML Engineer",
				Department:      "engineering",
				Skills:          []string{"machine learning", "python"},
				ExperienceYears: 4,
				Availability:    core.AvailabilityAvailable,
			},
			Embedding: []float32{0.25, -0.5, 1.0},
		},
		{
			Id: core.DocumentID{ProfileId: "1", Kind: core.DocumentKindSkill, Key: "python"},
			Meta: core.DocumentMeta{
				ProfileId:       "1",
				Name:            "Alice Johnson",
				Position:        "ML Engineer",
				Department:      "engineering",
				Skills:          []string{"machine learning", "python"},
				ExperienceYears: 4,
				Availability:    core.AvailabilityAvailable,
			},
			Embedding: []float32{1.5, 0.25, 0},
		},
		{
			Id: core.DocumentID{ProfileId: "2", Kind: core.DocumentKindProfile},
			Meta: core.DocumentMeta{
				ProfileId:       "2",
				Name:            "Bob Smith",
				ExperienceYears: 7,
				Availability:    core.AvailabilityUnavailable,
			},
			Embedding: []float32{-0.75, 2.0, 0.125},
		},
	})
	require.NoError(t, err)
	return idx
}

func TestPersistLoad_RoundTrip(t *testing.T) {
	idx := buildTestIndex(t)

	vectors, metadata, err := idx.Persist()
	require.NoError(t, err)

	loaded, err := Load(vectors, metadata)
	require.NoError(t, err)

	assert.Equal(t, idx.Len(), loaded.Len())
	assert.Equal(t, idx.Dimensions(), loaded.Dimensions())

	// Search results must be identical before and after the round trip.
	query := []float32{0.5, 0.5, 0.5}
	want, err := idx.Search(query, 10)
	require.NoError(t, err)
	got, err := loaded.Search(query, 10)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Metadata survives intact.
	meta, ok := loaded.Meta(core.DocumentID{ProfileId: "1", Kind: core.DocumentKindProfile})
	require.True(t, ok)
	assert.Equal(t, "Alice Johnson", meta.Name)
	assert.Equal(t, []string{"machine learning", "python"}, meta.Skills)
	assert.Equal(t, 4, meta.ExperienceYears)
	assert.Equal(t, core.AvailabilityAvailable, meta.Availability)
}

func TestPersistLoad_EmptyIndex(t *testing.T) {
	idx, err := Build(nil)
	require.NoError(t, err)

	vectors, metadata, err := idx.Persist()
	require.NoError(t, err)

	loaded, err := Load(vectors, metadata)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())
}

func TestLoad_CorruptBlobs(t *testing.T) {
	idx := buildTestIndex(t)
	vectors, metadata, err := idx.Persist()
	require.NoError(t, err)

	corrupt := func(src []byte, mutate func([]byte)) []byte {
		cp := append([]byte(nil), src...)
		mutate(cp)
		return cp
	}

	tests := []struct {
		name     string
		vectors  []byte
		metadata []byte
	}{
		{
			name:     "bad vectors magic",
			vectors:  corrupt(vectors, func(b []byte) { b[0] = 'X' }),
			metadata: metadata,
		},
		{
			name:     "bad metadata magic",
			vectors:  vectors,
			metadata: corrupt(metadata, func(b []byte) { b[0] = 'X' }),
		},
		{
			name:     "unsupported version",
			vectors:  corrupt(vectors, func(b []byte) { b[4] = 0x7f }),
			metadata: metadata,
		},
		{
			name:     "truncated vectors",
			vectors:  vectors[:len(vectors)-3],
			metadata: metadata,
		},
		{
			name:     "truncated metadata",
			vectors:  vectors,
			metadata: metadata[:len(metadata)-2],
		},
		{
			name:     "trailing bytes in vectors",
			vectors:  append(append([]byte(nil), vectors...), 0xde, 0xad),
			metadata: metadata,
		},
		{
			name:     "trailing bytes in metadata",
			vectors:  vectors,
			metadata: append(append([]byte(nil), metadata...), 0xbe, 0xef),
		},
		{
			name:     "empty vectors blob",
			vectors:  nil,
			metadata: metadata,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.vectors, tt.metadata)
			assert.ErrorIs(t, err, ErrCorruptIndex)
		})
	}
}

func TestLoad_CompanionDisagreement(t *testing.T) {
	big := buildTestIndex(t)
	small, err := Build([]core.Document{
		{
			Id:        core.DocumentID{ProfileId: "1", Kind: core.DocumentKindProfile},
			Meta:      core.DocumentMeta{ProfileId: "1", Name: "Alice Johnson", Availability: core.AvailabilityAvailable},
			Embedding: []float32{1, 0, 0},
		},
	})
	require.NoError(t, err)

	bigVec, _, err := big.Persist()
	require.NoError(t, err)
	_, smallMeta, err := small.Persist()
	require.NoError(t, err)

	// Vector blob declares three entries, metadata blob declares one.
	_, err = Load(bigVec, smallMeta)
	assert.ErrorIs(t, err, ErrCorruptIndex)
}

func TestSaveDirLoadDir(t *testing.T) {
	idx := buildTestIndex(t)

	t.Run("round trip", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, idx.SaveDir(dir))

		loaded, err := LoadDir(dir)
		require.NoError(t, err)
		assert.Equal(t, idx.Len(), loaded.Len())

		query := []float32{1, 0, 0}
		want, err := idx.Search(query, 5)
		require.NoError(t, err)
		got, err := loaded.Search(query, 5)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("missing metadata companion", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, idx.SaveDir(dir))
		require.NoError(t, os.Remove(filepath.Join(dir, MetadataFile)))

		_, err := LoadDir(dir)
		assert.ErrorIs(t, err, ErrCorruptIndex)
	})

	t.Run("missing vectors companion", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, idx.SaveDir(dir))
		require.NoError(t, os.Remove(filepath.Join(dir, VectorsFile)))

		_, err := LoadDir(dir)
		assert.ErrorIs(t, err, ErrCorruptIndex)
	})

	t.Run("empty directory", func(t *testing.T) {
		_, err := LoadDir(t.TempDir())
		assert.Error(t, err)
	})
}
