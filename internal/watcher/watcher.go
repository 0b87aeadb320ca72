// Package watcher keeps a corpus in sync with a directory tree.
// Filesystem events are debounced into batches; each batch re-ingests
// changed files through the normal hash-gated path and removes deleted
// ones. Unchanged files cost one hash comparison.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/custodia-labs/lore-cli/internal/core/domain"
	"github.com/custodia-labs/lore-cli/internal/core/ports/driving"
	"github.com/custodia-labs/lore-cli/internal/files"
	"github.com/custodia-labs/lore-cli/internal/logger"
)

// DefaultDebounce is how long the watcher waits after the last event
// before flushing a batch. Editors often emit several events per save.
const DefaultDebounce = 500 * time.Millisecond

// relevantOps are the event kinds that can change corpus state.
const relevantOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

// Watcher mirrors a directory tree into a RAG corpus.
type Watcher struct {
	rag      driving.RAGService
	root     string
	debounce time.Duration
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides the batch quiet period.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher over root feeding the given service.
func New(rag driving.RAGService, root string, opts ...Option) *Watcher {
	w := &Watcher{
		rag:      rag,
		root:     filepath.Clean(root),
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run ingests the existing tree, then blocks processing filesystem
// events until the context is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.ingestTree(ctx, w.root); err != nil {
		return fmt.Errorf("initial ingest: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := watchTree(fsw, w.root); err != nil {
		return err
	}
	logger.Info("Watching %s (debounce %s)", w.root, w.debounce)

	pending := make(map[string]fsnotify.Op)
	var flushAt <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&relevantOps == 0 {
				continue
			}
			if w.hidden(event.Name) {
				continue
			}

			// A new directory needs its own watch, and its files may
			// have landed before the watch existed.
			if event.Op.Has(fsnotify.Create) {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					if err := watchTree(fsw, event.Name); err != nil {
						logger.Warn("Watch %s: %v", event.Name, err)
					}
					found, listErr := files.ListTextFiles(event.Name)
					if listErr != nil {
						logger.Warn("List %s: %v", event.Name, listErr)
						continue
					}
					for _, path := range found {
						pending[path] |= fsnotify.Create
					}
					flushAt = time.After(w.debounce)
					continue
				}
			}

			if !files.IsTextFile(event.Name) {
				continue
			}
			pending[event.Name] |= event.Op
			flushAt = time.After(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)

		case <-flushAt:
			flushAt = nil
			w.flush(ctx, pending)
			pending = make(map[string]fsnotify.Op)
		}
	}
}

// ingestTree ingests every text file under root.
func (w *Watcher) ingestTree(ctx context.Context, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory: %w", root, domain.ErrInvalidInput)
	}

	found, err := files.ListTextFiles(root)
	if err != nil {
		return err
	}

	for _, path := range found {
		content, err := files.ReadText(path)
		if err != nil {
			logger.Debug("Skip %s: %v", path, err)
			continue
		}
		if _, err := w.rag.Ingest(ctx, domain.NewArtifact(files.ArtifactID(path), content)); err != nil {
			return fmt.Errorf("ingest %s: %w", path, err)
		}
	}

	logger.Info("Initial ingest: %d files", len(found))
	return nil
}

// flush reconciles one batch against the corpus. Disk state decides the
// outcome: paths that exist are ingested, paths that are gone are
// removed, so delete-then-recreate sequences resolve correctly.
func (w *Watcher) flush(ctx context.Context, pending map[string]fsnotify.Op) {
	if len(pending) == 0 {
		return
	}

	jobID := uuid.NewString()[:8]
	paths := make([]string, 0, len(pending))
	for path := range pending {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	logger.Section(fmt.Sprintf("Watch Batch %s (%d paths)", jobID, len(paths)))

	for _, path := range paths {
		id := files.ArtifactID(path)

		content, err := files.ReadText(path)
		switch {
		case err == nil:
			result, ingestErr := w.rag.Ingest(ctx, domain.NewArtifact(id, content))
			if ingestErr != nil {
				logger.Warn("[%s] Ingest %s: %v", jobID, id, ingestErr)
				continue
			}
			switch {
			case result.Skipped:
				logger.Debug("[%s] Unchanged %s", jobID, id)
			case result.Replaced:
				logger.Info("[%s] Re-ingested %s (%d chunks)", jobID, id, result.ChunkCount)
			default:
				logger.Info("[%s] Ingested %s (%d chunks)", jobID, id, result.ChunkCount)
			}

		case errors.Is(err, domain.ErrNotFound):
			if removeErr := w.rag.Remove(ctx, id); removeErr != nil {
				logger.Warn("[%s] Remove %s: %v", jobID, id, removeErr)
				continue
			}
			logger.Info("[%s] Removed %s", jobID, id)

		default:
			logger.Warn("[%s] Read %s: %v", jobID, path, err)
		}
	}
}

// hidden reports whether the path contains a dot-prefixed element below
// the watch root. The root itself is never judged, so watching inside a
// hidden directory works.
func (w *Watcher) hidden(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		rel = path
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part == "." || part == ".." || part == "" {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// watchTree registers root and every non-hidden subdirectory.
func watchTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
