package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lore-cli/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	// Create a temporary directory for the test database
	tempDir, err := os.MkdirTemp("", "lore-test-*")
	require.NoError(t, err)

	// Create store in temp directory
	store, err := NewStore(tempDir, "default")
	require.NoError(t, err)
	require.NotNil(t, store)

	// Return cleanup function
	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

// testRecord builds a record with a consistent shape for store tests.
func testRecord(chunkID, artifactID string, embedding []float32) domain.Record {
	return domain.Record{
		Chunk: domain.Chunk{
			ID:          chunkID,
			ArtifactID:  artifactID,
			Content:     "content of " + chunkID,
			StartOffset: 0,
			EndOffset:   len("content of " + chunkID),
		},
		Embedding:  embedding,
		Model:      "test-embed",
		Dimensions: len(embedding),
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
}

// ==================== Store Creation and Initialization Tests ====================

func TestNewStore(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "lore-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	store, err := NewStore(tempDir, "default")
	require.NoError(t, err)
	defer store.Close()

	// Database file should exist
	assert.Equal(t, filepath.Join(tempDir, "default.db"), store.Path())
	_, err = os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStore_EmptyCorpusDefaults(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "lore-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	store, err := NewStore(tempDir, "")
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(tempDir, "default.db"), store.Path())
}

func TestNewStore_SeparateCorpora(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "lore-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	a, err := NewStore(tempDir, "alpha")
	require.NoError(t, err)
	defer a.Close()

	b, err := NewStore(tempDir, "beta")
	require.NoError(t, err)
	defer b.Close()

	ctx := context.Background()
	require.NoError(t, a.RecordStore().Put(ctx, testRecord("c1", "art-1", []float32{1, 0})))

	// The other corpus must not see it
	_, err = b.RecordStore().Get(ctx, "c1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "lore-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	store, err := NewStore(tempDir, "default")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening the same database must not re-run migrations
	store, err = NewStore(tempDir, "default")
	require.NoError(t, err)
	defer store.Close()

	var version int
	row := store.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	require.NoError(t, row.Scan(&version))
	assert.Equal(t, 1, version)
}

// ==================== Record Tests ====================

func TestRecordStore_PutAndGet(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	rs := store.RecordStore()

	rec := testRecord("chunk-1", "art-1", []float32{0.1, 0.2, 0.3})
	require.NoError(t, rs.Put(ctx, rec))

	got, err := rs.Get(ctx, "chunk-1")
	require.NoError(t, err)
	assert.Equal(t, rec.Chunk, got.Chunk)
	assert.Equal(t, rec.Embedding, got.Embedding)
	assert.Equal(t, rec.Model, got.Model)
	assert.Equal(t, rec.Dimensions, got.Dimensions)
	assert.WithinDuration(t, rec.CreatedAt, got.CreatedAt, time.Second)
}

func TestRecordStore_PutOverwrites(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	rs := store.RecordStore()

	rec := testRecord("chunk-1", "art-1", []float32{0.1, 0.2})
	require.NoError(t, rs.Put(ctx, rec))

	rec.Chunk.Content = "updated content"
	rec.Embedding = []float32{0.9, 0.8}
	require.NoError(t, rs.Put(ctx, rec))

	got, err := rs.Get(ctx, "chunk-1")
	require.NoError(t, err)
	assert.Equal(t, "updated content", got.Chunk.Content)
	assert.Equal(t, []float32{0.9, 0.8}, got.Embedding)

	count, err := rs.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecordStore_GetNotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.RecordStore().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordStore_PutValidation(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	rs := store.RecordStore()

	t.Run("missing chunk id", func(t *testing.T) {
		rec := testRecord("", "art-1", []float32{1})
		assert.ErrorIs(t, rs.Put(ctx, rec), domain.ErrInvalidInput)
	})

	t.Run("missing artifact id", func(t *testing.T) {
		rec := testRecord("chunk-1", "", []float32{1})
		assert.ErrorIs(t, rs.Put(ctx, rec), domain.ErrInvalidInput)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		rec := testRecord("chunk-1", "art-1", []float32{1, 2, 3})
		rec.Dimensions = 2
		assert.ErrorIs(t, rs.Put(ctx, rec), domain.ErrDimensionMismatch)
	})
}

func TestRecordStore_DeleteByArtifact(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	rs := store.RecordStore()

	require.NoError(t, rs.Put(ctx, testRecord("a-1", "art-a", []float32{1, 0})))
	require.NoError(t, rs.Put(ctx, testRecord("a-2", "art-a", []float32{0, 1})))
	require.NoError(t, rs.Put(ctx, testRecord("b-1", "art-b", []float32{1, 1})))

	deleted, err := rs.DeleteByArtifact(ctx, "art-a")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	// Other artifact's records survive
	_, err = rs.Get(ctx, "b-1")
	assert.NoError(t, err)
	_, err = rs.Get(ctx, "a-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordStore_DeleteByArtifact_NoRecords(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	deleted, err := store.RecordStore().DeleteByArtifact(context.Background(), "missing")
	require.NoError(t, err)
	assert.Equal(t, 0, deleted)
}

func TestRecordStore_IDsByArtifact(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	rs := store.RecordStore()

	require.NoError(t, rs.Put(ctx, testRecord("a-2", "art-a", []float32{0, 1})))
	require.NoError(t, rs.Put(ctx, testRecord("a-1", "art-a", []float32{1, 0})))
	require.NoError(t, rs.Put(ctx, testRecord("b-1", "art-b", []float32{1, 1})))

	ids, err := rs.IDsByArtifact(ctx, "art-a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a-1", "a-2"}, ids)

	ids, err = rs.IDsByArtifact(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRecordStore_EachOrdersByID(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	rs := store.RecordStore()

	// Insert out of order
	require.NoError(t, rs.Put(ctx, testRecord("c", "art", []float32{1})))
	require.NoError(t, rs.Put(ctx, testRecord("a", "art", []float32{1})))
	require.NoError(t, rs.Put(ctx, testRecord("b", "art", []float32{1})))

	var ids []string
	err := rs.Each(ctx, func(rec domain.Record) error {
		ids = append(ids, rec.Chunk.ID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestRecordStore_EachSkipsCorruptRows(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	rs := store.RecordStore()

	require.NoError(t, rs.Put(ctx, testRecord("good-1", "art", []float32{1, 0})))
	require.NoError(t, rs.Put(ctx, testRecord("good-2", "art", []float32{0, 1})))

	// Inject a row whose blob length is not a multiple of 4
	_, err := store.db.Exec(`
		INSERT INTO records (id, artifact_id, content, start_offset, end_offset, embedding, dimensions, model, created_at)
		VALUES ('bad-blob', 'art', 'x', 0, 1, ?, 2, 'test-embed', CURRENT_TIMESTAMP)
	`, []byte{1, 2, 3})
	require.NoError(t, err)

	// Inject a row whose blob decodes to fewer floats than dimensions claims
	_, err = store.db.Exec(`
		INSERT INTO records (id, artifact_id, content, start_offset, end_offset, embedding, dimensions, model, created_at)
		VALUES ('bad-dims', 'art', 'x', 0, 1, ?, 3, 'test-embed', CURRENT_TIMESTAMP)
	`, float32SliceToBytes([]float32{1, 2}))
	require.NoError(t, err)

	var ids []string
	err = rs.Each(ctx, func(rec domain.Record) error {
		ids = append(ids, rec.Chunk.ID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"good-1", "good-2"}, ids)

	// CountRecords still reports the raw row count so callers can detect skips
	count, err := rs.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestRecordStore_GetCorruptRecord(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.db.Exec(`
		INSERT INTO records (id, artifact_id, content, start_offset, end_offset, embedding, dimensions, model, created_at)
		VALUES ('bad', 'art', 'x', 0, 1, ?, 2, 'test-embed', CURRENT_TIMESTAMP)
	`, []byte{9, 9, 9})
	require.NoError(t, err)

	_, err = store.RecordStore().Get(context.Background(), "bad")
	assert.ErrorIs(t, err, domain.ErrCorruptRecord)
}

func TestRecordStore_EachPropagatesCallbackError(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	rs := store.RecordStore()
	require.NoError(t, rs.Put(ctx, testRecord("chunk-1", "art", []float32{1})))

	wantErr := assert.AnError
	err := rs.Each(ctx, func(domain.Record) error { return wantErr })
	assert.ErrorIs(t, err, wantErr)
}

// ==================== Artifact Tests ====================

func TestRecordStore_ArtifactRoundTrip(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	rs := store.RecordStore()

	info := domain.ArtifactInfo{
		ID:         "art-1",
		Hash:       "abc123",
		ChunkCount: 5,
		IngestedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, rs.PutArtifact(ctx, info))

	got, err := rs.GetArtifact(ctx, "art-1")
	require.NoError(t, err)
	assert.Equal(t, info.ID, got.ID)
	assert.Equal(t, info.Hash, got.Hash)
	assert.Equal(t, info.ChunkCount, got.ChunkCount)
	assert.WithinDuration(t, info.IngestedAt, got.IngestedAt, time.Second)
}

func TestRecordStore_PutArtifactUpserts(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	rs := store.RecordStore()

	require.NoError(t, rs.PutArtifact(ctx, domain.ArtifactInfo{ID: "art-1", Hash: "old", ChunkCount: 2}))
	require.NoError(t, rs.PutArtifact(ctx, domain.ArtifactInfo{ID: "art-1", Hash: "new", ChunkCount: 7}))

	got, err := rs.GetArtifact(ctx, "art-1")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Hash)
	assert.Equal(t, 7, got.ChunkCount)

	infos, err := rs.ListArtifacts(ctx)
	require.NoError(t, err)
	assert.Len(t, infos, 1)
}

func TestRecordStore_GetArtifactNotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.RecordStore().GetArtifact(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordStore_PutArtifactValidation(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.RecordStore().PutArtifact(context.Background(), domain.ArtifactInfo{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordStore_DeleteArtifact(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	rs := store.RecordStore()

	require.NoError(t, rs.PutArtifact(ctx, domain.ArtifactInfo{ID: "art-1", Hash: "h"}))
	require.NoError(t, rs.DeleteArtifact(ctx, "art-1"))

	_, err := rs.GetArtifact(ctx, "art-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Deleting again is a no-op
	assert.NoError(t, rs.DeleteArtifact(ctx, "art-1"))
}

func TestRecordStore_ListArtifacts(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	rs := store.RecordStore()

	infos, err := rs.ListArtifacts(ctx)
	require.NoError(t, err)
	assert.Empty(t, infos)

	require.NoError(t, rs.PutArtifact(ctx, domain.ArtifactInfo{ID: "b", Hash: "h2"}))
	require.NoError(t, rs.PutArtifact(ctx, domain.ArtifactInfo{ID: "a", Hash: "h1"}))

	infos, err = rs.ListArtifacts(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "a", infos[0].ID)
	assert.Equal(t, "b", infos[1].ID)
}

// ==================== Flush Tests ====================

func TestRecordStore_Flush(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	rs := store.RecordStore()

	require.NoError(t, rs.Put(ctx, testRecord("chunk-1", "art", []float32{1, 2})))
	require.NoError(t, rs.Flush(ctx))

	// Data survives the checkpoint
	got, err := rs.Get(ctx, "chunk-1")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, got.Embedding)
}

// ==================== Blob Codec Tests ====================

func TestFloat32BlobCodec(t *testing.T) {
	tests := []struct {
		name   string
		floats []float32
	}{
		{"empty", nil},
		{"single", []float32{0.5}},
		{"negative and zero", []float32{-1.5, 0, 2.25}},
		{"typical embedding", []float32{0.1, -0.2, 0.3, -0.4, 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob := float32SliceToBytes(tt.floats)
			got := bytesToFloat32Slice(blob)
			assert.Equal(t, tt.floats, got)
		})
	}
}
