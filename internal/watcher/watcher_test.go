package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lore-cli/internal/core/domain"
	"github.com/custodia-labs/lore-cli/internal/files"
)

// watcherMockRAG records ingest and remove calls.
type watcherMockRAG struct {
	ingested  []domain.Artifact
	removed   []string
	ingestErr error
}

func (m *watcherMockRAG) Ingest(_ context.Context, artifact domain.Artifact) (domain.IngestResult, error) {
	if m.ingestErr != nil {
		return domain.IngestResult{}, m.ingestErr
	}
	m.ingested = append(m.ingested, artifact)
	return domain.IngestResult{ArtifactID: artifact.ID, ChunkCount: 1}, nil
}

func (m *watcherMockRAG) Query(_ context.Context, _ string, _ int) ([]domain.ChunkMatch, error) {
	return nil, nil
}

func (m *watcherMockRAG) Remove(_ context.Context, artifactID string) error {
	m.removed = append(m.removed, artifactID)
	return nil
}

func (m *watcherMockRAG) Status(_ context.Context) (domain.CorpusStatus, error) {
	return domain.CorpusStatus{}, nil
}

func (m *watcherMockRAG) Flush(_ context.Context) error { return nil }

func (m *watcherMockRAG) Load(_ context.Context) (int, error) { return 0, nil }

func (m *watcherMockRAG) Close() error { return nil }

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		w := New(&watcherMockRAG{}, "some/dir")

		require.NotNil(t, w)
		assert.Equal(t, DefaultDebounce, w.debounce)
		assert.Equal(t, filepath.Clean("some/dir"), w.root)
	})

	t.Run("debounce option", func(t *testing.T) {
		w := New(&watcherMockRAG{}, ".", WithDebounce(2*time.Second))

		assert.Equal(t, 2*time.Second, w.debounce)
	})

	t.Run("non-positive debounce ignored", func(t *testing.T) {
		w := New(&watcherMockRAG{}, ".", WithDebounce(0))

		assert.Equal(t, DefaultDebounce, w.debounce)
	})
}

func TestWatcher_Hidden(t *testing.T) {
	w := New(&watcherMockRAG{}, "/data/notes")

	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"plain file", "/data/notes/readme.md", false},
		{"nested file", "/data/notes/docs/guide.md", false},
		{"hidden file", "/data/notes/.env", true},
		{"file in hidden dir", "/data/notes/.git/config", true},
		{"deeply hidden", "/data/notes/a/.cache/blob", true},
		{"dot in name is fine", "/data/notes/v1.2/file.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, w.hidden(tt.path))
		})
	}

	t.Run("hidden watch root is not judged", func(t *testing.T) {
		inside := New(&watcherMockRAG{}, "/home/user/.notes")

		assert.False(t, inside.hidden("/home/user/.notes/todo.md"))
		assert.True(t, inside.hidden("/home/user/.notes/.git/HEAD"))
	})
}

func TestWatcher_Flush(t *testing.T) {
	tempDir := t.TempDir()

	existing := filepath.Join(tempDir, "notes.md")
	require.NoError(t, os.WriteFile(existing, []byte("alpha content"), 0o644))
	gone := filepath.Join(tempDir, "removed.md")

	rag := &watcherMockRAG{}
	w := New(rag, tempDir)

	pending := map[string]fsnotify.Op{
		existing: fsnotify.Write,
		gone:     fsnotify.Remove,
	}

	w.flush(context.Background(), pending)

	require.Len(t, rag.ingested, 1)
	assert.Equal(t, files.ArtifactID(existing), rag.ingested[0].ID)
	assert.Equal(t, "alpha content", rag.ingested[0].Content)

	require.Len(t, rag.removed, 1)
	assert.Equal(t, files.ArtifactID(gone), rag.removed[0])
}

func TestWatcher_Flush_DeleteThenRecreate(t *testing.T) {
	tempDir := t.TempDir()

	path := filepath.Join(tempDir, "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("recreated"), 0o644))

	rag := &watcherMockRAG{}
	w := New(rag, tempDir)

	// Both ops accumulated in one batch; the file exists at flush time,
	// so disk state wins and it is ingested rather than removed.
	pending := map[string]fsnotify.Op{
		path: fsnotify.Remove | fsnotify.Create,
	}

	w.flush(context.Background(), pending)

	require.Len(t, rag.ingested, 1)
	assert.Empty(t, rag.removed)
}

func TestWatcher_Flush_Empty(t *testing.T) {
	rag := &watcherMockRAG{}
	w := New(rag, t.TempDir())

	w.flush(context.Background(), map[string]fsnotify.Op{})

	assert.Empty(t, rag.ingested)
	assert.Empty(t, rag.removed)
}

func TestWatcher_IngestTree(t *testing.T) {
	tempDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "a.md"), []byte("a"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(tempDir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "sub", "b.txt"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "logo.png"), []byte{0xff}, 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(tempDir, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, ".git", "config.txt"), []byte("x"), 0o644))

	rag := &watcherMockRAG{}
	w := New(rag, tempDir)

	err := w.ingestTree(context.Background(), tempDir)

	require.NoError(t, err)
	require.Len(t, rag.ingested, 2)
	assert.Equal(t, files.ArtifactID(filepath.Join(tempDir, "a.md")), rag.ingested[0].ID)
	assert.Equal(t, files.ArtifactID(filepath.Join(tempDir, "sub", "b.txt")), rag.ingested[1].ID)
}

func TestWatcher_IngestTree_NotADirectory(t *testing.T) {
	tempDir := t.TempDir()
	file := filepath.Join(tempDir, "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	w := New(&watcherMockRAG{}, file)

	err := w.ingestTree(context.Background(), file)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestWatcher_IngestTree_PropagatesIngestErrors(t *testing.T) {
	tempDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "a.md"), []byte("a"), 0o644))

	rag := &watcherMockRAG{ingestErr: assert.AnError}
	w := New(rag, tempDir)

	err := w.ingestTree(context.Background(), tempDir)

	assert.ErrorIs(t, err, assert.AnError)
}
