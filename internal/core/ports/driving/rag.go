package driving

import (
	"context"

	"github.com/custodia-labs/lore-cli/internal/core/domain"
)

// RAGService exposes the knowledge store to external actors.
// One instance owns one corpus; all front-ends share the same handle.
type RAGService interface {
	// Ingest chunks, embeds and commits one artifact.
	// Unchanged content (same ID, same hash) is a no-op; changed
	// content replaces every prior chunk of the artifact. Embedding
	// failures leave no partial commit.
	Ingest(ctx context.Context, artifact domain.Artifact) (domain.IngestResult, error)

	// Query embeds the text and returns the top-k matches ordered by
	// descending similarity. Never mutates store state; an empty
	// corpus yields an empty result.
	Query(ctx context.Context, text string, k int) ([]domain.ChunkMatch, error)

	// Remove deletes an artifact and all its records.
	// Idempotent on unknown IDs.
	Remove(ctx context.Context, artifactID string) error

	// Status reports corpus statistics.
	Status(ctx context.Context) (domain.CorpusStatus, error)

	// Flush forces the persisted state to durable storage.
	Flush(ctx context.Context) error

	// Load reopens persisted state and rebuilds the similarity index.
	// Corrupt records are skipped with a warning and reported in the
	// returned count.
	Load(ctx context.Context) (int, error)

	// Close flushes and releases the store.
	Close() error
}
