package driven

import (
	"context"

	"github.com/custodia-labs/lore-cli/internal/core/domain"
)

// RecordStore persists records and artifact state.
// Backed by SQLite; an in-memory implementation exists for tests.
type RecordStore interface {
	// Put stores or overwrites a record. Idempotent on record ID.
	Put(ctx context.Context, rec domain.Record) error

	// Get retrieves a record by chunk ID.
	// Returns domain.ErrNotFound for unknown IDs.
	Get(ctx context.Context, id string) (domain.Record, error)

	// DeleteByArtifact removes every record belonging to the artifact
	// and returns how many were deleted. Unknown artifacts delete zero.
	DeleteByArtifact(ctx context.Context, artifactID string) (int, error)

	// IDsByArtifact returns the chunk IDs of every record belonging to
	// the artifact, in ascending order. Unknown artifacts return nothing.
	IDsByArtifact(ctx context.Context, artifactID string) ([]string, error)

	// Each iterates the committed records in ascending chunk ID order,
	// stopping early if fn returns an error. The iteration reads a
	// consistent snapshot and may be restarted at any time.
	Each(ctx context.Context, fn func(domain.Record) error) error

	// CountRecords returns the number of stored records.
	CountRecords(ctx context.Context) (int, error)

	// PutArtifact stores or updates the committed state of an artifact.
	PutArtifact(ctx context.Context, info domain.ArtifactInfo) error

	// GetArtifact retrieves the committed state of an artifact.
	// Returns domain.ErrNotFound for unknown IDs.
	GetArtifact(ctx context.Context, id string) (domain.ArtifactInfo, error)

	// DeleteArtifact removes an artifact's committed state.
	// Unknown IDs are a no-op.
	DeleteArtifact(ctx context.Context, id string) error

	// ListArtifacts returns all committed artifacts ordered by ID.
	ListArtifacts(ctx context.Context) ([]domain.ArtifactInfo, error)

	// Flush forces buffered state to durable storage.
	Flush(ctx context.Context) error

	// Path returns a human-readable location of the backing storage.
	Path() string

	// Close releases resources.
	Close() error
}
