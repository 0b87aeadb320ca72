package driven

import (
	"context"

	"github.com/custodia-labs/lore-cli/internal/core/domain"
)

// Chunker splits an artifact into retrieval-sized chunks.
// Chunking must be deterministic: identical text and configuration
// always produce identical boundaries and chunk IDs, so re-ingesting
// unchanged content is idempotent.
type Chunker interface {
	// Chunk splits the artifact text into chunks.
	// Returns domain.ErrEmptyArtifact for empty or whitespace-only
	// content. An artifact shorter than one window yields exactly
	// one chunk.
	Chunk(ctx context.Context, artifact domain.Artifact) ([]domain.Chunk, error)
}
