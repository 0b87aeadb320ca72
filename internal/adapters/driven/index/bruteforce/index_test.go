package bruteforce

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lore-cli/internal/core/domain"
	"github.com/custodia-labs/lore-cli/internal/core/ports/driven"
)

// unitAt returns a 3-d vector whose cosine similarity to (1,0,0) is cos.
func unitAt(cos float64) []float32 {
	sin := math.Sqrt(1 - cos*cos)
	return []float32{float32(cos), float32(sin), 0}
}

func TestIndex_Search_Ranking(t *testing.T) {
	ctx := context.Background()
	idx := New()

	require.NoError(t, idx.Insert(ctx, "chunk-low", unitAt(0.1)))
	require.NoError(t, idx.Insert(ctx, "chunk-high", unitAt(0.9)))
	require.NoError(t, idx.Insert(ctx, "chunk-mid", unitAt(0.5)))

	hits, err := idx.Search(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, "chunk-high", hits[0].ChunkID)
	assert.InDelta(t, 0.9, hits[0].Similarity, 1e-3)
	assert.Equal(t, "chunk-mid", hits[1].ChunkID)
	assert.InDelta(t, 0.5, hits[1].Similarity, 1e-3)
}

func TestIndex_Search_Empty(t *testing.T) {
	ctx := context.Background()
	idx := New()

	hits, err := idx.Search(ctx, []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndex_Search_TieBreakByID(t *testing.T) {
	ctx := context.Background()
	idx := New()

	// Identical vectors score identically; order must fall back to
	// ascending chunk ID.
	require.NoError(t, idx.Insert(ctx, "b", []float32{1, 0}))
	require.NoError(t, idx.Insert(ctx, "a", []float32{1, 0}))
	require.NoError(t, idx.Insert(ctx, "c", []float32{1, 0}))

	hits, err := idx.Search(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, "a", hits[0].ChunkID)
	assert.Equal(t, "b", hits[1].ChunkID)
	assert.Equal(t, "c", hits[2].ChunkID)
}

func TestIndex_Search_KLargerThanIndex(t *testing.T) {
	ctx := context.Background()
	idx := New()

	require.NoError(t, idx.Insert(ctx, "only", []float32{0, 1}))

	hits, err := idx.Search(ctx, []float32{0, 1}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestIndex_Search_ZeroMagnitudeQuery(t *testing.T) {
	ctx := context.Background()
	idx := New()

	require.NoError(t, idx.Insert(ctx, "x", []float32{1, 0}))

	hits, err := idx.Search(ctx, []float32{0, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndex_Search_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	idx := New()

	require.NoError(t, idx.Insert(ctx, "x", []float32{1, 0, 0}))

	_, err := idx.Search(ctx, []float32{1, 0}, 3)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestIndex_Insert_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	idx := New()

	require.NoError(t, idx.Insert(ctx, "first", []float32{1, 0, 0}))
	err := idx.Insert(ctx, "second", []float32{1, 0})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestIndex_Insert_Replaces(t *testing.T) {
	ctx := context.Background()
	idx := New()

	require.NoError(t, idx.Insert(ctx, "x", unitAt(0.1)))
	require.NoError(t, idx.Insert(ctx, "x", unitAt(0.9)))
	assert.Equal(t, 1, idx.Len())

	hits, err := idx.Search(ctx, []float32{1, 0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.InDelta(t, 0.9, hits[0].Similarity, 1e-3)
}

func TestIndex_Remove(t *testing.T) {
	ctx := context.Background()
	idx := New()

	require.NoError(t, idx.Insert(ctx, "keep", unitAt(0.5)))
	require.NoError(t, idx.Insert(ctx, "drop", unitAt(0.9)))

	require.NoError(t, idx.Remove(ctx, "drop"))
	require.NoError(t, idx.Remove(ctx, "unknown")) // no-op

	assert.Equal(t, 1, idx.Len())

	hits, err := idx.Search(ctx, []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "keep", hits[0].ChunkID)
}

func TestIndex_Remove_LastResetsDimensions(t *testing.T) {
	ctx := context.Background()
	idx := New()

	require.NoError(t, idx.Insert(ctx, "x", []float32{1, 0}))
	require.NoError(t, idx.Remove(ctx, "x"))

	assert.Equal(t, 0, idx.Dimensions())

	// A different dimensionality is accepted once the index is empty.
	require.NoError(t, idx.Insert(ctx, "y", []float32{1, 0, 0}))
	assert.Equal(t, 3, idx.Dimensions())
}

func TestIndex_Rebuild(t *testing.T) {
	ctx := context.Background()
	idx := New()

	require.NoError(t, idx.Insert(ctx, "old", unitAt(0.9)))

	entries := []driven.VectorEntry{
		{ChunkID: "new-1", Embedding: unitAt(0.5)},
		{ChunkID: "new-2", Embedding: unitAt(0.8)},
	}
	require.NoError(t, idx.Rebuild(ctx, entries))

	assert.Equal(t, 2, idx.Len())

	hits, err := idx.Search(ctx, []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "new-2", hits[0].ChunkID)
	assert.Equal(t, "new-1", hits[1].ChunkID)
}

func TestIndex_Rebuild_Empty(t *testing.T) {
	ctx := context.Background()
	idx := New()

	require.NoError(t, idx.Insert(ctx, "x", []float32{1, 0}))
	require.NoError(t, idx.Rebuild(ctx, nil))

	assert.Equal(t, 0, idx.Len())
	assert.Equal(t, 0, idx.Dimensions())

	hits, err := idx.Search(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndex_Rebuild_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	idx := New()

	entries := []driven.VectorEntry{
		{ChunkID: "a", Embedding: []float32{1, 0}},
		{ChunkID: "b", Embedding: []float32{1, 0, 0}},
	}
	err := idx.Rebuild(ctx, entries)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}
