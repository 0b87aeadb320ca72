// Package files provides path-safe filesystem helpers shared by the
// ingest walker and the project generator.
package files

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/lore-cli/internal/core/domain"
)

// textExtensions lists file extensions treated as ingestable text.
var textExtensions = map[string]bool{
	".c":     true,
	".cfg":   true,
	".cpp":   true,
	".cs":    true,
	".css":   true,
	".csv":   true,
	".go":    true,
	".h":     true,
	".html":  true,
	".ini":   true,
	".java":  true,
	".js":    true,
	".json":  true,
	".jsonl": true,
	".md":    true,
	".php":   true,
	".py":    true,
	".rb":    true,
	".rs":    true,
	".rst":   true,
	".sh":    true,
	".sql":   true,
	".toml":  true,
	".ts":    true,
	".tsv":   true,
	".txt":   true,
	".xml":   true,
	".yaml":  true,
	".yml":   true,
}

// SafeJoin joins rel onto baseDir and rejects anything that would
// escape it: absolute paths and ".." traversal both return
// domain.ErrInvalidInput.
func SafeJoin(baseDir, rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("empty relative path: %w", domain.ErrInvalidInput)
	}
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("absolute path %q not allowed: %w", rel, domain.ErrInvalidInput)
	}

	joined := filepath.Join(baseDir, rel)
	cleanBase := filepath.Clean(baseDir)
	if joined != cleanBase && !strings.HasPrefix(joined, cleanBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes %q: %w", rel, baseDir, domain.ErrInvalidInput)
	}
	return joined, nil
}

// WriteUnder writes data to rel inside baseDir, creating parent
// directories as needed. Returns the full path written.
func WriteUnder(baseDir, rel string, data []byte) (string, error) {
	path, err := SafeJoin(baseDir, rel)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// ReadText reads a file and returns its content as a string.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s: %w", path, domain.ErrNotFound)
		}
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// ReadJSON reads a file and unmarshals it into v.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", path, domain.ErrNotFound)
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// IsTextFile reports whether the path looks like an ingestable text
// file, judged by extension.
func IsTextFile(path string) bool {
	return textExtensions[strings.ToLower(filepath.Ext(path))]
}

// ArtifactID canonicalizes a file path into a stable artifact identity.
// The same file ingested from the same working directory always maps to
// the same id, so re-ingestion hits the hash gate instead of duplicating.
func ArtifactID(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}

// ListTextFiles walks dir and returns every text file under it, sorted.
// Hidden files and directories (dot-prefixed) are skipped.
func ListTextFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") && path != dir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && IsTextFile(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}
