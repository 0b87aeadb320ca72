package driven

import "context"

// VectorIndex provides nearest-neighbour search over stored vectors.
// The index is a pure derivative of the record store: it can be rebuilt
// from persisted records at any time and carries no durability of its own.
type VectorIndex interface {
	// Insert adds a vector for the given chunk ID. Re-inserting an
	// existing ID replaces its vector.
	Insert(ctx context.Context, chunkID string, embedding []float32) error

	// Remove deletes a vector from the index. Unknown IDs are a no-op.
	Remove(ctx context.Context, chunkID string) error

	// Search finds the k nearest neighbours to the query vector,
	// ordered by descending cosine similarity with ties broken by
	// ascending chunk ID. An empty index yields an empty result.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Rebuild atomically replaces the index contents with the given
	// entries. Called after a load to restore store/index consistency.
	Rebuild(ctx context.Context, entries []VectorEntry) error

	// Len returns the number of indexed vectors.
	Len() int

	// Dimensions returns the dimensionality the index holds, or zero
	// when empty.
	Dimensions() int

	// Close releases resources.
	Close() error
}

// VectorEntry is one (id, vector) pair for bulk index construction.
type VectorEntry struct {
	// ChunkID identifies the record the vector belongs to.
	ChunkID string

	// Embedding is the vector.
	Embedding []float32
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Similarity is the cosine similarity score.
	Similarity float64
}
