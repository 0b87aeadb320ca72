package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/lore-cli/internal/core/domain"
	"github.com/custodia-labs/lore-cli/internal/core/ports/driven"
)

// Ensure RecordStore implements the interface.
var _ driven.RecordStore = (*RecordStore)(nil)

// RecordStore is an in-memory implementation of driven.RecordStore.
// It is used in tests and as a fallback when no database is wanted.
type RecordStore struct {
	mu        sync.RWMutex
	records   map[string]domain.Record
	artifacts map[string]domain.ArtifactInfo
}

// NewRecordStore creates a new in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{
		records:   make(map[string]domain.Record),
		artifacts: make(map[string]domain.ArtifactInfo),
	}
}

// Put stores or overwrites a record.
func (s *RecordStore) Put(_ context.Context, rec domain.Record) error {
	if rec.Chunk.ID == "" || rec.Chunk.ArtifactID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.Chunk.ID] = rec
	return nil
}

// Get retrieves a record by chunk ID.
func (s *RecordStore) Get(_ context.Context, id string) (domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return domain.Record{}, domain.ErrNotFound
	}
	return rec, nil
}

// DeleteByArtifact removes every record belonging to the artifact.
func (s *RecordStore) DeleteByArtifact(_ context.Context, artifactID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for id, rec := range s.records {
		if rec.Chunk.ArtifactID == artifactID {
			delete(s.records, id)
			deleted++
		}
	}
	return deleted, nil
}

// IDsByArtifact returns the chunk IDs belonging to the artifact.
func (s *RecordStore) IDsByArtifact(_ context.Context, artifactID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for id, rec := range s.records {
		if rec.Chunk.ArtifactID == artifactID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Each streams records in ascending chunk ID order.
func (s *RecordStore) Each(_ context.Context, fn func(domain.Record) error) error {
	s.mu.RLock()
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	recs := make([]domain.Record, 0, len(ids))
	for _, id := range ids {
		recs = append(recs, s.records[id])
	}
	s.mu.RUnlock()

	for _, rec := range recs {
		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}

// CountRecords returns the number of stored records.
func (s *RecordStore) CountRecords(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// PutArtifact stores or updates the committed state of an artifact.
func (s *RecordStore) PutArtifact(_ context.Context, info domain.ArtifactInfo) error {
	if info.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts[info.ID] = info
	return nil
}

// GetArtifact retrieves the committed state of an artifact.
func (s *RecordStore) GetArtifact(_ context.Context, id string) (domain.ArtifactInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.artifacts[id]
	if !ok {
		return domain.ArtifactInfo{}, domain.ErrNotFound
	}
	return info, nil
}

// DeleteArtifact removes an artifact's committed state.
func (s *RecordStore) DeleteArtifact(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.artifacts, id)
	return nil
}

// ListArtifacts returns all committed artifacts ordered by ID.
func (s *RecordStore) ListArtifacts(_ context.Context) ([]domain.ArtifactInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	infos := make([]domain.ArtifactInfo, 0, len(s.artifacts))
	for _, info := range s.artifacts {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos, nil
}

// Flush is a no-op for the in-memory store.
func (s *RecordStore) Flush(_ context.Context) error {
	return nil
}

// Path identifies the store as in-memory.
func (s *RecordStore) Path() string {
	return ":memory:"
}

// Close is a no-op for the in-memory store.
func (s *RecordStore) Close() error {
	return nil
}
