package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyArtifact indicates an artifact with no usable text was
	// submitted for ingestion. Rejected before any state change.
	ErrEmptyArtifact = errors.New("empty artifact")

	// ErrDimensionMismatch indicates a vector whose dimensionality or
	// model does not match the store. The whole ingest batch fails.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrCorruptRecord indicates a persisted record that cannot be
	// decoded. Skipped with a warning on load, never fatal.
	ErrCorruptRecord = errors.New("corrupt record")

	// ErrProviderUnavailable indicates the embedding or generation
	// provider cannot be reached (network or auth failure).
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrRateLimited indicates the provider rate limit was exceeded.
	// Retryable after backoff.
	ErrRateLimited = errors.New("rate limited")

	// ErrNotConfigured indicates a provider is selected but missing
	// credentials or endpoint configuration.
	ErrNotConfigured = errors.New("provider not configured")

	// ErrNoContext indicates a query retrieved nothing, so there is no
	// grounding context to hand to the generation model.
	ErrNoContext = errors.New("no context retrieved")

	// ErrStoreClosed indicates an operation on a closed RAG store.
	ErrStoreClosed = errors.New("store closed")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Ingest and query are disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the generation service is not
	// configured. Answer synthesis and code assistance are disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrUnsupportedFormat indicates an unknown dataset file format.
	ErrUnsupportedFormat = errors.New("unsupported format")
)
