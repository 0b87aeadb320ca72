package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Artifact is a source text unit submitted for ingestion.
// Artifacts are immutable once committed; re-ingesting the same ID with
// changed content replaces every chunk derived from it.
type Artifact struct {
	// ID is the stable identity, typically a file path or logical name.
	ID string

	// Content is the raw text.
	Content string

	// Hash is the SHA-256 hex digest of Content.
	// Computed by NewArtifact; used to gate re-ingestion.
	Hash string
}

// NewArtifact builds an artifact and computes its content hash.
func NewArtifact(id, content string) Artifact {
	return Artifact{
		ID:      id,
		Content: content,
		Hash:    HashContent(content),
	}
}

// HashContent returns the SHA-256 hex digest of text.
func HashContent(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Chunk is a contiguous fragment of an artifact sized for embedding
// and retrieval. Chunks are owned by their parent artifact and are
// destroyed when it is re-ingested or removed.
type Chunk struct {
	// ID is derived deterministically from the artifact ID and the
	// chunk's start offset, so unchanged content always reproduces
	// the same IDs.
	ID string

	// ArtifactID is the parent artifact.
	ArtifactID string

	// Content is the chunk text.
	Content string

	// StartOffset is the rune offset of the chunk within the artifact.
	StartOffset int

	// EndOffset is the rune offset one past the last rune of the chunk.
	EndOffset int
}

// Length returns the chunk size in runes.
func (c Chunk) Length() int {
	return c.EndOffset - c.StartOffset
}

// NewChunkID derives the deterministic chunk identity.
func NewChunkID(artifactID string, startOffset int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", artifactID, startOffset)))
	return hex.EncodeToString(sum[:16])
}

// Record is the persisted (chunk, vector, metadata) tuple, the unit of
// durable storage.
type Record struct {
	// Chunk is the text fragment this record embeds.
	Chunk Chunk

	// Embedding is the vector representation of the chunk text.
	Embedding []float32

	// Model is the embedding model identifier that produced the vector.
	// Vectors from different models are never mixed in one store.
	Model string

	// Dimensions is len(Embedding), stored explicitly so corrupt rows
	// can be detected on load.
	Dimensions int

	// CreatedAt is the ingestion timestamp.
	CreatedAt time.Time
}

// ArtifactInfo is the committed state of one ingested artifact.
type ArtifactInfo struct {
	// ID is the artifact identity.
	ID string

	// Hash is the content hash at ingestion time.
	Hash string

	// ChunkCount is the number of records derived from the artifact.
	ChunkCount int

	// IngestedAt is when the artifact was committed.
	IngestedAt time.Time
}

// IngestResult reports the outcome of one ingest operation.
type IngestResult struct {
	// ArtifactID is the ingested artifact.
	ArtifactID string

	// ChunkCount is the number of chunks committed.
	ChunkCount int

	// Skipped is true when the content hash matched the committed
	// state and nothing was re-embedded.
	Skipped bool

	// Replaced is true when a prior version of the artifact was
	// deleted before re-ingestion.
	Replaced bool

	// Duration is the wall-clock time of the operation.
	Duration time.Duration
}

// ChunkMatch is a single retrieval hit.
type ChunkMatch struct {
	// ChunkID identifies the matched record.
	ChunkID string

	// ArtifactID is the source artifact of the chunk.
	ArtifactID string

	// Content is the chunk text.
	Content string

	// Score is the cosine similarity to the query vector.
	Score float64
}

// Answer is the result of the full retrieve-then-generate pipeline.
type Answer struct {
	// Text is the generated response.
	Text string

	// UsedChunkIDs lists the chunk IDs whose text was included in the
	// generation context, in ranked order. Provenance for every answer.
	UsedChunkIDs []string

	// Model is the generation model that produced the text.
	Model string
}

// CorpusStatus summarises the state of a RAG store.
type CorpusStatus struct {
	// ArtifactCount is the number of committed artifacts.
	ArtifactCount int

	// RecordCount is the number of stored records.
	RecordCount int

	// Dimensions is the store-wide vector dimensionality.
	// Zero when the store is empty.
	Dimensions int

	// Model is the embedding model the store was built with.
	Model string

	// Path is the on-disk location of the persisted state.
	Path string
}
