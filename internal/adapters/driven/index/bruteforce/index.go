// Package bruteforce provides an exact in-memory vector index.
//
// Every query scans all stored vectors (O(n*d)) with precomputed
// magnitudes, which keeps the ordering contract exact: descending cosine
// similarity, ties broken by ascending chunk ID. The index is a pure
// derivative of the record store and is rebuilt from it after a load.
package bruteforce

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/viant/vec/search"

	"github.com/custodia-labs/lore-cli/internal/core/domain"
	"github.com/custodia-labs/lore-cli/internal/core/ports/driven"
)

// Index is a brute-force cosine similarity index.
// Safe for concurrent use.
type Index struct {
	mu   sync.RWMutex
	ids  []string
	vecs [][]float32
	mags []float32
	slot map[string]int
	dim  int
}

var _ driven.VectorIndex = (*Index)(nil)

// New creates an empty index. Dimensionality is fixed by the first
// inserted vector.
func New() *Index {
	return &Index{slot: make(map[string]int)}
}

// Insert adds or replaces the vector for chunkID.
func (i *Index) Insert(_ context.Context, chunkID string, embedding []float32) error {
	if chunkID == "" || len(embedding) == 0 {
		return fmt.Errorf("insert %q: %w", chunkID, domain.ErrInvalidInput)
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if i.dim == 0 {
		i.dim = len(embedding)
	} else if len(embedding) != i.dim {
		return fmt.Errorf("insert %s: vector dim %d != index dim %d: %w",
			chunkID, len(embedding), i.dim, domain.ErrDimensionMismatch)
	}

	vec := append([]float32(nil), embedding...)
	mag := search.Float32s(vec).Magnitude()

	if j, ok := i.slot[chunkID]; ok {
		i.vecs[j] = vec
		i.mags[j] = mag
		return nil
	}

	i.slot[chunkID] = len(i.ids)
	i.ids = append(i.ids, chunkID)
	i.vecs = append(i.vecs, vec)
	i.mags = append(i.mags, mag)
	return nil
}

// Remove deletes chunkID from the index. Unknown IDs are a no-op.
func (i *Index) Remove(_ context.Context, chunkID string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	j, ok := i.slot[chunkID]
	if !ok {
		return nil
	}

	last := len(i.ids) - 1
	if j != last {
		i.ids[j] = i.ids[last]
		i.vecs[j] = i.vecs[last]
		i.mags[j] = i.mags[last]
		i.slot[i.ids[j]] = j
	}
	i.ids = i.ids[:last]
	i.vecs = i.vecs[:last]
	i.mags = i.mags[:last]
	delete(i.slot, chunkID)

	if len(i.ids) == 0 {
		i.dim = 0
	}
	return nil
}

// Search returns up to k hits ordered by descending similarity, ties by
// ascending chunk ID. An empty index or a non-positive k yields an empty
// result. Zero-magnitude and NaN comparisons are skipped.
func (i *Index) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if len(i.ids) == 0 || k <= 0 {
		return nil, nil
	}
	if len(query) != i.dim {
		return nil, fmt.Errorf("search: query dim %d != index dim %d: %w",
			len(query), i.dim, domain.ErrDimensionMismatch)
	}

	qm := search.Float32s(query).Magnitude()
	if qm == 0 {
		return nil, nil
	}

	hits := make([]driven.VectorHit, 0, len(i.ids))
	for j := range i.vecs {
		if i.mags[j] == 0 {
			continue
		}
		dist := search.Float32s(query).CosineDistanceWithMagnitudesNeon(i.vecs[j], qm, i.mags[j])
		s := 1 - float64(dist)
		if math.IsNaN(s) {
			continue
		}
		hits = append(hits, driven.VectorHit{ChunkID: i.ids[j], Similarity: s})
	}

	sort.Slice(hits, func(a, b int) bool {
		if hits[a].Similarity != hits[b].Similarity {
			return hits[a].Similarity > hits[b].Similarity
		}
		return hits[a].ChunkID < hits[b].ChunkID
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// Rebuild atomically replaces the index contents.
func (i *Index) Rebuild(_ context.Context, entries []driven.VectorEntry) error {
	if len(entries) == 0 {
		i.mu.Lock()
		defer i.mu.Unlock()
		i.ids, i.vecs, i.mags, i.dim = nil, nil, nil, 0
		i.slot = make(map[string]int)
		return nil
	}

	dim := len(entries[0].Embedding)
	ids := make([]string, 0, len(entries))
	vecs := make([][]float32, 0, len(entries))
	mags := make([]float32, 0, len(entries))
	slot := make(map[string]int, len(entries))

	for _, e := range entries {
		if len(e.Embedding) != dim {
			return fmt.Errorf("rebuild %s: vector dim %d != %d: %w",
				e.ChunkID, len(e.Embedding), dim, domain.ErrDimensionMismatch)
		}
		vec := append([]float32(nil), e.Embedding...)
		slot[e.ChunkID] = len(ids)
		ids = append(ids, e.ChunkID)
		vecs = append(vecs, vec)
		mags = append(mags, search.Float32s(vec).Magnitude())
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	i.ids, i.vecs, i.mags, i.slot, i.dim = ids, vecs, mags, slot, dim
	return nil
}

// Len returns the number of indexed vectors.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.ids)
}

// Dimensions returns the vector dimensionality, or zero when empty.
func (i *Index) Dimensions() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.dim
}

// Close releases the index contents.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.ids, i.vecs, i.mags, i.dim = nil, nil, nil, 0
	i.slot = make(map[string]int)
	return nil
}
