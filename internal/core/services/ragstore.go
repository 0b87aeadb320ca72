package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/lore-cli/internal/core/domain"
	"github.com/custodia-labs/lore-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lore-cli/internal/core/ports/driving"
	"github.com/custodia-labs/lore-cli/internal/logger"
)

// Ensure RAGStore implements the interface.
var _ driving.RAGService = (*RAGStore)(nil)

const (
	// defaultTopK is the number of matches returned when the caller
	// does not specify one.
	defaultTopK = 4

	// defaultEmbedTimeout bounds a single provider round trip.
	defaultEmbedTimeout = 60 * time.Second
)

// RAGStore owns one corpus: it chunks and embeds artifacts, persists
// the resulting records and answers similarity queries against them.
//
// A single RWMutex guards the record store and the vector index so
// readers never observe an index entry without its record. Embedding
// calls happen outside the lock; only the commit is serialized.
// Close is terminal: operations after it fail with domain.ErrStoreClosed.
type RAGStore struct {
	mu       sync.RWMutex
	records  driven.RecordStore
	index    driven.VectorIndex
	embedder driven.EmbeddingService
	chunker  driven.Chunker
	closed   bool

	embedTimeout time.Duration
}

// RAGOption configures a RAGStore.
type RAGOption func(*RAGStore)

// WithEmbedTimeout overrides the per-call embedding timeout.
func WithEmbedTimeout(d time.Duration) RAGOption {
	return func(s *RAGStore) {
		if d > 0 {
			s.embedTimeout = d
		}
	}
}

// NewRAGStore creates a RAG store over the given record store, vector
// index and chunker. The embedder is optional (can be nil): without it
// the store can still load, report status and remove artifacts, but
// Ingest and Query return domain.ErrEmbeddingUnavailable.
func NewRAGStore(
	records driven.RecordStore,
	index driven.VectorIndex,
	embedder driven.EmbeddingService,
	chunker driven.Chunker,
	opts ...RAGOption,
) *RAGStore {
	s := &RAGStore{
		records:      records,
		index:        index,
		embedder:     embedder,
		chunker:      chunker,
		embedTimeout: defaultEmbedTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest chunks, embeds and commits one artifact.
//
//nolint:gocyclo // Orchestration function with necessary sequential steps.
func (s *RAGStore) Ingest(ctx context.Context, artifact domain.Artifact) (domain.IngestResult, error) {
	start := time.Now()
	logger.Section(fmt.Sprintf("Ingesting: %s", artifact.ID))

	if strings.TrimSpace(artifact.ID) == "" {
		return domain.IngestResult{}, fmt.Errorf("ingest: missing artifact id: %w", domain.ErrInvalidInput)
	}
	if s.embedder == nil {
		return domain.IngestResult{}, fmt.Errorf("ingest %s: %w", artifact.ID, domain.ErrEmbeddingUnavailable)
	}

	// 1. Hash the content and gate on the committed state. Unchanged
	// content is a no-op so re-ingesting a whole directory stays cheap.
	if artifact.Hash == "" {
		artifact.Hash = domain.HashContent(artifact.Content)
	}

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return domain.IngestResult{}, fmt.Errorf("ingest %s: %w", artifact.ID, domain.ErrStoreClosed)
	}
	prior, err := s.records.GetArtifact(ctx, artifact.ID)
	s.mu.RUnlock()
	committed := err == nil
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return domain.IngestResult{}, fmt.Errorf("check committed state: %w", err)
	}
	if committed && prior.Hash == artifact.Hash {
		logger.Info("Artifact unchanged, skipping: %s", artifact.ID)
		return domain.IngestResult{
			ArtifactID: artifact.ID,
			ChunkCount: prior.ChunkCount,
			Skipped:    true,
			Duration:   time.Since(start),
		}, nil
	}

	// 2. Chunk the artifact.
	chunks, err := s.chunker.Chunk(ctx, artifact)
	if err != nil {
		return domain.IngestResult{}, fmt.Errorf("chunk artifact: %w", err)
	}
	logger.Debug("Chunked %s into %d chunks", artifact.ID, len(chunks))

	// 3. Embed every chunk in one batch, outside the lock. Any failure
	// aborts here, before the store is touched.
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	embedCtx, cancel := context.WithTimeout(ctx, s.embedTimeout)
	defer cancel()
	embeddings, err := s.embedder.EmbedBatch(embedCtx, texts)
	if err != nil {
		logger.Warn("Embedding failed for %s: %v", artifact.ID, err)
		return domain.IngestResult{}, fmt.Errorf("embed chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return domain.IngestResult{}, fmt.Errorf("embed chunks: got %d vectors for %d chunks",
			len(embeddings), len(chunks))
	}

	// 4. Commit under the write lock: evict the prior version, insert
	// the new records and vectors, then write the artifact row last so
	// a failure part way never looks committed.
	s.mu.Lock()
	defer s.mu.Unlock()

	// The store may have been closed while we were embedding.
	if s.closed {
		return domain.IngestResult{}, fmt.Errorf("ingest %s: %w", artifact.ID, domain.ErrStoreClosed)
	}

	// Another writer may have committed the same content while we were
	// embedding.
	prior, err = s.records.GetArtifact(ctx, artifact.ID)
	committed = err == nil
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return domain.IngestResult{}, fmt.Errorf("recheck committed state: %w", err)
	}
	if committed && prior.Hash == artifact.Hash {
		logger.Debug("Artifact committed concurrently, skipping: %s", artifact.ID)
		return domain.IngestResult{
			ArtifactID: artifact.ID,
			ChunkCount: prior.ChunkCount,
			Skipped:    true,
			Duration:   time.Since(start),
		}, nil
	}

	// Evict prior records unconditionally. An interrupted earlier
	// ingest can leave records without an artifact row, so this cleans
	// up orphans as well as genuine replacements.
	if err := s.evictLocked(ctx, artifact.ID); err != nil {
		return domain.IngestResult{}, fmt.Errorf("evict prior records: %w", err)
	}

	now := time.Now().UTC()
	inserted := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		rec := domain.Record{
			Chunk:      chunk,
			Embedding:  embeddings[i],
			Model:      s.embedder.ModelName(),
			Dimensions: len(embeddings[i]),
			CreatedAt:  now,
		}
		if err := s.records.Put(ctx, rec); err != nil {
			s.rollbackLocked(ctx, artifact.ID, inserted)
			return domain.IngestResult{}, fmt.Errorf("store record %s: %w", chunk.ID, err)
		}
		if err := s.index.Insert(ctx, chunk.ID, embeddings[i]); err != nil {
			s.rollbackLocked(ctx, artifact.ID, append(inserted, chunk.ID))
			return domain.IngestResult{}, fmt.Errorf("index record %s: %w", chunk.ID, err)
		}
		inserted = append(inserted, chunk.ID)
	}

	info := domain.ArtifactInfo{
		ID:         artifact.ID,
		Hash:       artifact.Hash,
		ChunkCount: len(chunks),
		IngestedAt: now,
	}
	if err := s.records.PutArtifact(ctx, info); err != nil {
		s.rollbackLocked(ctx, artifact.ID, inserted)
		return domain.IngestResult{}, fmt.Errorf("commit artifact: %w", err)
	}

	logger.Info("Ingested %s: %d chunks (replaced=%t)", artifact.ID, len(chunks), committed)
	return domain.IngestResult{
		ArtifactID: artifact.ID,
		ChunkCount: len(chunks),
		Replaced:   committed,
		Duration:   time.Since(start),
	}, nil
}

// evictLocked removes every record and index entry of an artifact.
// Callers must hold the write lock.
func (s *RAGStore) evictLocked(ctx context.Context, artifactID string) error {
	ids, err := s.records.IDsByArtifact(ctx, artifactID)
	if err != nil {
		return fmt.Errorf("list prior records: %w", err)
	}
	for _, id := range ids {
		if err := s.index.Remove(ctx, id); err != nil {
			return fmt.Errorf("remove index entry %s: %w", id, err)
		}
	}
	if _, err := s.records.DeleteByArtifact(ctx, artifactID); err != nil {
		return fmt.Errorf("delete prior records: %w", err)
	}
	return nil
}

// rollbackLocked undoes a partial insert so a failed ingest leaves no
// committed trace. The prior version was already evicted, so the
// artifact row is deleted too: a stale row would wrongly gate the next
// ingest of the original content. Callers must hold the write lock.
func (s *RAGStore) rollbackLocked(ctx context.Context, artifactID string, chunkIDs []string) {
	for _, id := range chunkIDs {
		if err := s.index.Remove(ctx, id); err != nil {
			logger.Warn("Rollback: failed to remove index entry %s: %v", id, err)
		}
	}
	if _, err := s.records.DeleteByArtifact(ctx, artifactID); err != nil {
		logger.Warn("Rollback: failed to delete records for %s: %v", artifactID, err)
	}
	if err := s.records.DeleteArtifact(ctx, artifactID); err != nil {
		logger.Warn("Rollback: failed to delete artifact row for %s: %v", artifactID, err)
	}
}

// Query embeds the text and returns the top-k matches.
func (s *RAGStore) Query(ctx context.Context, text string, k int) ([]domain.ChunkMatch, error) {
	logger.Section("Query Execution")
	logger.Debug("Query: %q", text)

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("query: empty text: %w", domain.ErrInvalidInput)
	}
	if s.embedder == nil {
		return nil, fmt.Errorf("query: %w", domain.ErrEmbeddingUnavailable)
	}

	if k <= 0 {
		k = defaultTopK
	}
	logger.Debug("Top-k: %d", k)

	// An empty corpus never needs a provider round trip.
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, fmt.Errorf("query: %w", domain.ErrStoreClosed)
	}
	empty := s.index.Len() == 0
	s.mu.RUnlock()
	if empty {
		logger.Debug("Index empty, returning no matches")
		return []domain.ChunkMatch{}, nil
	}

	embedCtx, cancel := context.WithTimeout(ctx, s.embedTimeout)
	defer cancel()
	queryVec, err := s.embedder.Embed(embedCtx, text)
	if err != nil {
		logger.Warn("Query embedding failed: %v", err)
		return nil, fmt.Errorf("embed query: %w", err)
	}
	logger.Debug("Query embedding: %d dimensions", len(queryVec))

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, fmt.Errorf("query: %w", domain.ErrStoreClosed)
	}

	hits, err := s.index.Search(ctx, queryVec, k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	logger.Debug("Index search: %d hits", len(hits))

	matches := make([]domain.ChunkMatch, 0, len(hits))
	for _, hit := range hits {
		rec, err := s.records.Get(ctx, hit.ChunkID)
		if err != nil {
			logger.Debug("Skipping hit %s: %v", hit.ChunkID, err)
			continue
		}
		matches = append(matches, domain.ChunkMatch{
			ChunkID:    rec.Chunk.ID,
			ArtifactID: rec.Chunk.ArtifactID,
			Content:    rec.Chunk.Content,
			Score:      hit.Similarity,
		})
	}

	logger.Info("Query returned %d matches", len(matches))
	return matches, nil
}

// Remove deletes an artifact and all its records. Unknown IDs are a
// no-op.
func (s *RAGStore) Remove(ctx context.Context, artifactID string) error {
	if strings.TrimSpace(artifactID) == "" {
		return fmt.Errorf("remove: missing artifact id: %w", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("remove %s: %w", artifactID, domain.ErrStoreClosed)
	}
	if err := s.evictLocked(ctx, artifactID); err != nil {
		return fmt.Errorf("remove %s: %w", artifactID, err)
	}
	if err := s.records.DeleteArtifact(ctx, artifactID); err != nil {
		return fmt.Errorf("remove %s: %w", artifactID, err)
	}

	logger.Info("Removed artifact: %s", artifactID)
	return nil
}

// Status reports corpus statistics.
func (s *RAGStore) Status(ctx context.Context) (domain.CorpusStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return domain.CorpusStatus{}, fmt.Errorf("status: %w", domain.ErrStoreClosed)
	}
	artifacts, err := s.records.ListArtifacts(ctx)
	if err != nil {
		return domain.CorpusStatus{}, fmt.Errorf("list artifacts: %w", err)
	}
	recordCount, err := s.records.CountRecords(ctx)
	if err != nil {
		return domain.CorpusStatus{}, fmt.Errorf("count records: %w", err)
	}

	dims := s.index.Dimensions()
	model := ""
	if s.embedder != nil {
		model = s.embedder.ModelName()
		if dims == 0 && recordCount == 0 {
			dims = s.embedder.Dimensions()
		}
	}

	return domain.CorpusStatus{
		ArtifactCount: len(artifacts),
		RecordCount:   recordCount,
		Dimensions:    dims,
		Model:         model,
		Path:          s.records.Path(),
	}, nil
}

// Flush forces the persisted state to durable storage.
func (s *RAGStore) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("flush: %w", domain.ErrStoreClosed)
	}
	if err := s.records.Flush(ctx); err != nil {
		return fmt.Errorf("flush records: %w", err)
	}
	return nil
}

// Load reads the persisted records and rebuilds the similarity index.
// Undecodable rows and rows whose vector length disagrees with the
// rest of the corpus are skipped; the count of skipped rows is
// returned so callers can surface it.
func (s *RAGStore) Load(ctx context.Context) (int, error) {
	logger.Section("Loading Corpus")

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, fmt.Errorf("load: %w", domain.ErrStoreClosed)
	}

	var entries []driven.VectorEntry
	dims := 0
	err := s.records.Each(ctx, func(rec domain.Record) error {
		if dims == 0 {
			dims = len(rec.Embedding)
		}
		if len(rec.Embedding) != dims {
			logger.Debug("Skipping record %s: %d dimensions, corpus has %d",
				rec.Chunk.ID, len(rec.Embedding), dims)
			return nil
		}
		entries = append(entries, driven.VectorEntry{
			ChunkID:   rec.Chunk.ID,
			Embedding: rec.Embedding,
		})
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("read records: %w", err)
	}

	total, err := s.records.CountRecords(ctx)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}

	if err := s.index.Rebuild(ctx, entries); err != nil {
		return 0, fmt.Errorf("rebuild index: %w", err)
	}

	skipped := total - len(entries)
	if skipped > 0 {
		logger.Warn("Loaded %d records, skipped %d corrupt rows", len(entries), skipped)
	} else {
		logger.Info("Loaded %d records", len(entries))
	}

	return skipped, nil
}

// Close flushes and releases the store and the index. A second Close
// is a no-op.
func (s *RAGStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if err := s.records.Flush(context.Background()); err != nil {
		errs = append(errs, fmt.Errorf("flush records: %w", err))
	}
	if err := s.records.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close records: %w", err))
	}
	if err := s.index.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close index: %w", err))
	}
	return errors.Join(errs...)
}
