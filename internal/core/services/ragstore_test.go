package services

import (
	"context"
	"hash/fnv"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lore-cli/internal/adapters/driven/index/bruteforce"
	"github.com/custodia-labs/lore-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lore-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/lore-cli/internal/chunker"
	"github.com/custodia-labs/lore-cli/internal/core/domain"
	"github.com/custodia-labs/lore-cli/internal/core/ports/driven"
)

// --- Mock implementations for RAG store testing ---

// ragMockEmbedder implements driven.EmbeddingService with deterministic
// vectors. Texts listed in vectors get the prescribed vector; everything
// else gets a unit vector derived from the text hash.
type ragMockEmbedder struct {
	mu         sync.Mutex
	vectors    map[string][]float32
	batchErr   error
	embedCalls int
	batchCalls int
}

func newRAGMockEmbedder() *ragMockEmbedder {
	return &ragMockEmbedder{vectors: make(map[string][]float32)}
}

func (m *ragMockEmbedder) vectorFor(text string) []float32 {
	if v, ok := m.vectors[text]; ok {
		return v
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(text))
	angle := float64(h.Sum32()%360) * math.Pi / 180
	return []float32{float32(math.Cos(angle)), float32(math.Sin(angle))}
}

func (m *ragMockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embedCalls++
	return m.vectorFor(text), nil
}

func (m *ragMockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchCalls++
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = m.vectorFor(text)
	}
	return out, nil
}

func (m *ragMockEmbedder) Dimensions() int              { return 2 }
func (m *ragMockEmbedder) ModelName() string            { return "test-embed" }
func (m *ragMockEmbedder) Ping(_ context.Context) error { return nil }
func (m *ragMockEmbedder) Close() error                 { return nil }

// ragFailingIndex wraps a real index and fails the insert of one
// specific chunk ID, to exercise mid-commit rollback.
type ragFailingIndex struct {
	driven.VectorIndex
	failOn string
}

func (f *ragFailingIndex) Insert(ctx context.Context, chunkID string, embedding []float32) error {
	if chunkID == f.failOn {
		return assert.AnError
	}
	return f.VectorIndex.Insert(ctx, chunkID, embedding)
}

// ragMiscountStore wraps a record store and inflates CountRecords, to
// simulate rows that exist on disk but fail to decode.
type ragMiscountStore struct {
	driven.RecordStore
	extra int
}

func (s *ragMiscountStore) CountRecords(ctx context.Context) (int, error) {
	n, err := s.RecordStore.CountRecords(ctx)
	return n + s.extra, err
}

// newTestRAGStore wires a RAG store over in-memory adapters with
// single-chunk-friendly splitting.
func newTestRAGStore(embedder driven.EmbeddingService) (*RAGStore, *memory.RecordStore, *bruteforce.Index) {
	records := memory.NewRecordStore()
	index := bruteforce.New()
	split := chunker.New(chunker.WithChunkSize(200), chunker.WithOverlap(0), chunker.WithMinChunkSize(1))
	return NewRAGStore(records, index, embedder, split), records, index
}

func repeatText(n int) string {
	runes := make([]rune, n)
	for i := range runes {
		runes[i] = rune('a' + i%26)
	}
	return string(runes)
}

func TestRAGStore_Ingest(t *testing.T) {
	ctx := context.Background()
	embedder := newRAGMockEmbedder()
	store, records, index := newTestRAGStore(embedder)

	result, err := store.Ingest(ctx, domain.NewArtifact("notes.md", "some short notes"))
	require.NoError(t, err)

	assert.Equal(t, "notes.md", result.ArtifactID)
	assert.Equal(t, 1, result.ChunkCount)
	assert.False(t, result.Skipped)
	assert.False(t, result.Replaced)
	assert.Greater(t, result.Duration, time.Duration(0))

	count, err := records.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, index.Len())

	info, err := records.GetArtifact(ctx, "notes.md")
	require.NoError(t, err)
	assert.Equal(t, domain.HashContent("some short notes"), info.Hash)
	assert.Equal(t, 1, info.ChunkCount)
}

func TestRAGStore_Ingest_SplitsLongArtifacts(t *testing.T) {
	ctx := context.Background()
	store, records, index := newTestRAGStore(newRAGMockEmbedder())

	// 500 runes with a 200-rune window and no overlap makes three
	// chunks at offsets 0, 200 and 400.
	result, err := store.Ingest(ctx, domain.NewArtifact("long.txt", repeatText(500)))
	require.NoError(t, err)
	assert.Equal(t, 3, result.ChunkCount)

	ids, err := records.IDsByArtifact(ctx, "long.txt")
	require.NoError(t, err)
	assert.Len(t, ids, 3)
	assert.Equal(t, 3, index.Len())
}

func TestRAGStore_Ingest_UnchangedContentSkips(t *testing.T) {
	ctx := context.Background()
	embedder := newRAGMockEmbedder()
	store, records, index := newTestRAGStore(embedder)

	first, err := store.Ingest(ctx, domain.NewArtifact("doc.txt", "stable content"))
	require.NoError(t, err)
	require.False(t, first.Skipped)

	second, err := store.Ingest(ctx, domain.NewArtifact("doc.txt", "stable content"))
	require.NoError(t, err)
	assert.True(t, second.Skipped)
	assert.False(t, second.Replaced)
	assert.Equal(t, 1, second.ChunkCount)

	// The skip happens before any provider round trip.
	assert.Equal(t, 1, embedder.batchCalls)

	count, err := records.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, index.Len())
}

func TestRAGStore_Ingest_ChangedContentReplaces(t *testing.T) {
	ctx := context.Background()
	store, records, index := newTestRAGStore(newRAGMockEmbedder())

	// Three chunks first, then one: the replacement must not leave
	// stale chunks behind.
	_, err := store.Ingest(ctx, domain.NewArtifact("doc.txt", repeatText(500)))
	require.NoError(t, err)

	result, err := store.Ingest(ctx, domain.NewArtifact("doc.txt", "short replacement"))
	require.NoError(t, err)
	assert.True(t, result.Replaced)
	assert.False(t, result.Skipped)
	assert.Equal(t, 1, result.ChunkCount)

	ids, err := records.IDsByArtifact(ctx, "doc.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{domain.NewChunkID("doc.txt", 0)}, ids)
	assert.Equal(t, 1, index.Len())

	info, err := records.GetArtifact(ctx, "doc.txt")
	require.NoError(t, err)
	assert.Equal(t, domain.HashContent("short replacement"), info.Hash)
}

func TestRAGStore_Ingest_Validation(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestRAGStore(newRAGMockEmbedder())

	_, err := store.Ingest(ctx, domain.NewArtifact("", "content"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = store.Ingest(ctx, domain.NewArtifact("empty.txt", "   \n\t  "))
	assert.ErrorIs(t, err, domain.ErrEmptyArtifact)
}

func TestRAGStore_Ingest_EmbedderFailureLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	embedder := newRAGMockEmbedder()
	embedder.batchErr = assert.AnError
	store, records, index := newTestRAGStore(embedder)

	_, err := store.Ingest(ctx, domain.NewArtifact("doc.txt", repeatText(500)))
	require.Error(t, err)

	count, err := records.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, index.Len())

	_, err = records.GetArtifact(ctx, "doc.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRAGStore_Ingest_IndexFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	records := memory.NewRecordStore()
	// Fail on the second chunk of a three-chunk artifact.
	index := &ragFailingIndex{
		VectorIndex: bruteforce.New(),
		failOn:      domain.NewChunkID("doc.txt", 200),
	}
	split := chunker.New(chunker.WithChunkSize(200), chunker.WithOverlap(0), chunker.WithMinChunkSize(1))
	store := NewRAGStore(records, index, newRAGMockEmbedder(), split)

	_, err := store.Ingest(ctx, domain.NewArtifact("doc.txt", repeatText(500)))
	require.Error(t, err)

	count, err := records.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, index.VectorIndex.Len())

	_, err = records.GetArtifact(ctx, "doc.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRAGStore_Ingest_FailedReplaceUncommits(t *testing.T) {
	ctx := context.Background()
	records := memory.NewRecordStore()
	// The first version is one chunk at offset 0; the 500-rune second
	// version adds chunks at 200 and 400, and the insert at 200 fails.
	index := &ragFailingIndex{
		VectorIndex: bruteforce.New(),
		failOn:      domain.NewChunkID("doc.txt", 200),
	}
	split := chunker.New(chunker.WithChunkSize(200), chunker.WithOverlap(0), chunker.WithMinChunkSize(1))
	store := NewRAGStore(records, index, newRAGMockEmbedder(), split)

	_, err := store.Ingest(ctx, domain.NewArtifact("doc.txt", "version one"))
	require.NoError(t, err)

	_, err = store.Ingest(ctx, domain.NewArtifact("doc.txt", repeatText(500)))
	require.Error(t, err)

	// The prior version was evicted and the commit failed, so the
	// artifact must read as not ingested at all.
	count, err := records.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, index.VectorIndex.Len())

	_, err = records.GetArtifact(ctx, "doc.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRAGStore_Ingest_NoEmbedder(t *testing.T) {
	store, _, _ := newTestRAGStore(nil)

	_, err := store.Ingest(context.Background(), domain.NewArtifact("doc.txt", "content"))
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestRAGStore_Query_RanksByCosineSimilarity(t *testing.T) {
	ctx := context.Background()
	embedder := newRAGMockEmbedder()
	embedder.vectors["exact match"] = []float32{1, 0}
	embedder.vectors["close match"] = []float32{0.7071, 0.7071}
	embedder.vectors["unrelated"] = []float32{0, 1}
	embedder.vectors["the question"] = []float32{1, 0}
	store, _, _ := newTestRAGStore(embedder)

	for _, content := range []string{"unrelated", "exact match", "close match"} {
		_, err := store.Ingest(ctx, domain.NewArtifact(content+".txt", content))
		require.NoError(t, err)
	}

	matches, err := store.Query(ctx, "the question", 3)
	require.NoError(t, err)
	require.Len(t, matches, 3)

	assert.Equal(t, "exact match", matches[0].Content)
	assert.Equal(t, "close match", matches[1].Content)
	assert.Equal(t, "unrelated", matches[2].Content)

	assert.InDelta(t, 1.0, matches[0].Score, 0.001)
	assert.InDelta(t, 0.7071, matches[1].Score, 0.001)
	assert.InDelta(t, 0.0, matches[2].Score, 0.001)

	assert.Equal(t, "exact match.txt", matches[0].ArtifactID)
	assert.Equal(t, domain.NewChunkID("exact match.txt", 0), matches[0].ChunkID)
}

func TestRAGStore_Query_TiesBreakOnChunkID(t *testing.T) {
	ctx := context.Background()
	embedder := newRAGMockEmbedder()
	embedder.vectors["same text a"] = []float32{1, 0}
	embedder.vectors["same text b"] = []float32{1, 0}
	embedder.vectors["q"] = []float32{1, 0}
	store, _, _ := newTestRAGStore(embedder)

	_, err := store.Ingest(ctx, domain.NewArtifact("a.txt", "same text a"))
	require.NoError(t, err)
	_, err = store.Ingest(ctx, domain.NewArtifact("b.txt", "same text b"))
	require.NoError(t, err)

	matches, err := store.Query(ctx, "q", 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	first := domain.NewChunkID("a.txt", 0)
	second := domain.NewChunkID("b.txt", 0)
	if first > second {
		first, second = second, first
	}
	assert.Equal(t, first, matches[0].ChunkID)
	assert.Equal(t, second, matches[1].ChunkID)
}

func TestRAGStore_QueryFindsChunkWithinSplitArtifact(t *testing.T) {
	ctx := context.Background()
	text := repeatText(500)

	// Pin a vector per chunk so the middle one is the unambiguous best
	// answer for the query.
	embedder := newRAGMockEmbedder()
	embedder.vectors[text[0:200]] = []float32{0, 1}
	embedder.vectors[text[200:400]] = []float32{1, 0}
	embedder.vectors[text[400:500]] = []float32{0.7071, 0.7071}
	embedder.vectors["which chunk"] = []float32{1, 0}
	store, _, _ := newTestRAGStore(embedder)

	result, err := store.Ingest(ctx, domain.NewArtifact("a.py", text))
	require.NoError(t, err)
	require.Equal(t, 3, result.ChunkCount)

	matches, err := store.Query(ctx, "which chunk", 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	assert.Equal(t, "a.py", matches[0].ArtifactID)
	assert.Equal(t, domain.NewChunkID("a.py", 200), matches[0].ChunkID)
	assert.Equal(t, text[200:400], matches[0].Content)
	assert.InDelta(t, 1.0, matches[0].Score, 0.001)
}

func TestRAGStore_Query_EmptyCorpus(t *testing.T) {
	embedder := newRAGMockEmbedder()
	store, _, _ := newTestRAGStore(embedder)

	matches, err := store.Query(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, matches)

	// No provider round trip for an empty corpus.
	assert.Equal(t, 0, embedder.embedCalls)
}

func TestRAGStore_Query_EmptyText(t *testing.T) {
	store, _, _ := newTestRAGStore(newRAGMockEmbedder())

	_, err := store.Query(context.Background(), "   ", 5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRAGStore_Query_DefaultTopK(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestRAGStore(newRAGMockEmbedder())

	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		_, err := store.Ingest(ctx, domain.NewArtifact(name+".txt", "document "+name))
		require.NoError(t, err)
	}

	matches, err := store.Query(ctx, "document", 0)
	require.NoError(t, err)
	assert.Len(t, matches, 4)
}

func TestRAGStore_Query_NoEmbedder(t *testing.T) {
	store, _, _ := newTestRAGStore(nil)

	_, err := store.Query(context.Background(), "question", 3)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestRAGStore_Remove(t *testing.T) {
	ctx := context.Background()
	store, records, index := newTestRAGStore(newRAGMockEmbedder())

	_, err := store.Ingest(ctx, domain.NewArtifact("keep.txt", "keep this"))
	require.NoError(t, err)
	_, err = store.Ingest(ctx, domain.NewArtifact("drop.txt", repeatText(500)))
	require.NoError(t, err)

	require.NoError(t, store.Remove(ctx, "drop.txt"))

	count, err := records.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, index.Len())

	_, err = records.GetArtifact(ctx, "drop.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Removing again is a no-op.
	assert.NoError(t, store.Remove(ctx, "drop.txt"))

	assert.ErrorIs(t, store.Remove(ctx, ""), domain.ErrInvalidInput)
}

func TestRAGStore_Status(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestRAGStore(newRAGMockEmbedder())

	status, err := store.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, status.ArtifactCount)
	assert.Equal(t, 0, status.RecordCount)
	assert.Equal(t, 2, status.Dimensions)
	assert.Equal(t, "test-embed", status.Model)
	assert.Equal(t, ":memory:", status.Path)

	_, err = store.Ingest(ctx, domain.NewArtifact("a.txt", "one"))
	require.NoError(t, err)
	_, err = store.Ingest(ctx, domain.NewArtifact("b.txt", repeatText(500)))
	require.NoError(t, err)

	status, err = store.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, status.ArtifactCount)
	assert.Equal(t, 4, status.RecordCount)
	assert.Equal(t, 2, status.Dimensions)
}

func TestRAGStore_LoadRebuildsIndex(t *testing.T) {
	ctx := context.Background()
	embedder := newRAGMockEmbedder()
	embedder.vectors["needle"] = []float32{1, 0}
	embedder.vectors["find the needle"] = []float32{1, 0}

	records := memory.NewRecordStore()
	split := chunker.New(chunker.WithChunkSize(200), chunker.WithOverlap(0), chunker.WithMinChunkSize(1))
	first := NewRAGStore(records, bruteforce.New(), embedder, split)

	_, err := first.Ingest(ctx, domain.NewArtifact("a.txt", "needle"))
	require.NoError(t, err)
	_, err = first.Ingest(ctx, domain.NewArtifact("b.txt", "hay"))
	require.NoError(t, err)

	before, err := first.Query(ctx, "find the needle", 2)
	require.NoError(t, err)

	// A fresh index over the same records must answer identically
	// after a load.
	reopened := NewRAGStore(records, bruteforce.New(), embedder, split)
	skipped, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)

	after, err := reopened.Query(ctx, "find the needle", 2)
	require.NoError(t, err)
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ChunkID, after[i].ChunkID)
		assert.InDelta(t, before[i].Score, after[i].Score, 0.0001)
	}
}

func TestRAGStore_PersistedRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	embedder := newRAGMockEmbedder()
	embedder.vectors["needle"] = []float32{1, 0}
	embedder.vectors["find the needle"] = []float32{1, 0}
	split := chunker.New(chunker.WithChunkSize(200), chunker.WithOverlap(0), chunker.WithMinChunkSize(1))

	db, err := sqlite.NewStore(dir, "roundtrip")
	require.NoError(t, err)
	first := NewRAGStore(db.RecordStore(), bruteforce.New(), embedder, split)

	_, err = first.Ingest(ctx, domain.NewArtifact("a.txt", "needle"))
	require.NoError(t, err)
	_, err = first.Ingest(ctx, domain.NewArtifact("b.txt", "hay"))
	require.NoError(t, err)

	before, err := first.Query(ctx, "find the needle", 2)
	require.NoError(t, err)
	require.NotEmpty(t, before)
	require.NoError(t, first.Close())

	// A fresh process over the same database file must answer the same
	// query with the same ids in the same order.
	reopened, err := sqlite.NewStore(dir, "roundtrip")
	require.NoError(t, err)
	second := NewRAGStore(reopened.RecordStore(), bruteforce.New(), embedder, split)

	skipped, err := second.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)

	after, err := second.Query(ctx, "find the needle", 2)
	require.NoError(t, err)
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ChunkID, after[i].ChunkID)
		assert.Equal(t, before[i].ArtifactID, after[i].ArtifactID)
		assert.InDelta(t, before[i].Score, after[i].Score, 0.0001)
	}

	assert.NoError(t, second.Close())
}

func TestRAGStore_LoadReportsSkippedRows(t *testing.T) {
	ctx := context.Background()
	embedder := newRAGMockEmbedder()

	records := memory.NewRecordStore()
	split := chunker.New(chunker.WithChunkSize(200), chunker.WithOverlap(0), chunker.WithMinChunkSize(1))
	seeded := NewRAGStore(records, bruteforce.New(), embedder, split)
	_, err := seeded.Ingest(ctx, domain.NewArtifact("a.txt", "good row"))
	require.NoError(t, err)

	// Two rows exist on disk that the iterator cannot decode.
	miscounted := &ragMiscountStore{RecordStore: records, extra: 2}
	index := bruteforce.New()
	store := NewRAGStore(miscounted, index, embedder, split)

	skipped, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	assert.Equal(t, 1, index.Len())
}

func TestRAGStore_LoadEmptyStore(t *testing.T) {
	store, _, index := newTestRAGStore(newRAGMockEmbedder())

	skipped, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	assert.Equal(t, 0, index.Len())
}

func TestRAGStore_IndexMatchesStoreAfterMutations(t *testing.T) {
	ctx := context.Background()
	store, records, index := newTestRAGStore(newRAGMockEmbedder())

	check := func() {
		t.Helper()
		count, err := records.CountRecords(ctx)
		require.NoError(t, err)
		assert.Equal(t, count, index.Len())
	}

	_, err := store.Ingest(ctx, domain.NewArtifact("a.txt", repeatText(500)))
	require.NoError(t, err)
	check()

	_, err = store.Ingest(ctx, domain.NewArtifact("b.txt", "small"))
	require.NoError(t, err)
	check()

	_, err = store.Ingest(ctx, domain.NewArtifact("a.txt", "shrunk"))
	require.NoError(t, err)
	check()

	require.NoError(t, store.Remove(ctx, "b.txt"))
	check()

	skipped, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	check()
}

func TestRAGStore_FlushAndClose(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestRAGStore(newRAGMockEmbedder())

	_, err := store.Ingest(ctx, domain.NewArtifact("a.txt", "content"))
	require.NoError(t, err)

	assert.NoError(t, store.Flush(ctx))
	assert.NoError(t, store.Close())
}

func TestRAGStore_CloseIsIdempotent(t *testing.T) {
	store, _, _ := newTestRAGStore(newRAGMockEmbedder())

	require.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}

func TestRAGStore_OperationsAfterCloseFail(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestRAGStore(newRAGMockEmbedder())

	_, err := store.Ingest(ctx, domain.NewArtifact("a.txt", "content"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = store.Ingest(ctx, domain.NewArtifact("b.txt", "more content"))
	assert.ErrorIs(t, err, domain.ErrStoreClosed)

	_, err = store.Query(ctx, "content", 1)
	assert.ErrorIs(t, err, domain.ErrStoreClosed)

	assert.ErrorIs(t, store.Remove(ctx, "a.txt"), domain.ErrStoreClosed)

	_, err = store.Status(ctx)
	assert.ErrorIs(t, err, domain.ErrStoreClosed)

	assert.ErrorIs(t, store.Flush(ctx), domain.ErrStoreClosed)

	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrStoreClosed)
}
