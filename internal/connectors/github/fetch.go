package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/lore-cli/internal/core/domain"
)

// MaxBlobSize is the per-file size cap. Larger blobs are skipped; they
// are almost always generated or vendored content.
const MaxBlobSize = 1 << 20

// RepoRef identifies a repository and an optional ref.
type RepoRef struct {
	Owner string
	Repo  string
	Ref   string
}

// String returns the owner/repo[@ref] form.
func (r RepoRef) String() string {
	if r.Ref == "" {
		return r.Owner + "/" + r.Repo
	}
	return r.Owner + "/" + r.Repo + "@" + r.Ref
}

// ParseRepoRef parses "owner/repo" or "owner/repo@ref". A leading
// https://github.com/ prefix is tolerated so pasted URLs work.
func ParseRepoRef(spec string) (RepoRef, error) {
	spec = strings.TrimSpace(spec)
	spec = strings.TrimPrefix(spec, "https://github.com/")
	spec = strings.TrimPrefix(spec, "github.com/")
	spec = strings.TrimSuffix(spec, ".git")

	var ref RepoRef
	if at := strings.LastIndex(spec, "@"); at != -1 {
		ref.Ref = spec[at+1:]
		spec = spec[:at]
	}

	parts := strings.Split(spec, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RepoRef{}, fmt.Errorf("%w: expected owner/repo, got %q", domain.ErrInvalidInput, spec)
	}
	ref.Owner = parts[0]
	ref.Repo = parts[1]

	return ref, nil
}

// Fetch walks the repository tree at the ref and returns every text
// file as an artifact with id owner/repo/path. Binary and oversize
// files are skipped, as are blobs that fail to fetch or decode.
func Fetch(ctx context.Context, client *Client, repo RepoRef) ([]domain.Artifact, error) {
	ref := repo.Ref
	if ref == "" {
		branch, err := client.DefaultBranch(ctx, repo.Owner, repo.Repo)
		if err != nil {
			return nil, err
		}
		ref = branch
	}

	tree, err := client.Tree(ctx, repo.Owner, repo.Repo, ref)
	if err != nil {
		return nil, err
	}

	entries := filterTreeEntries(tree.Entries)

	artifacts := make([]domain.Artifact, 0, len(entries))
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return artifacts, ctx.Err()
		default:
		}

		content, err := fetchBlobContent(ctx, client, repo.Owner, repo.Repo, entry.GetSHA())
		if err != nil {
			if IsRateLimited(err) {
				return artifacts, err
			}
			// Skip files we can't read.
			continue
		}
		if !utf8.Valid(content) {
			continue
		}

		id := fmt.Sprintf("%s/%s/%s", repo.Owner, repo.Repo, entry.GetPath())
		artifacts = append(artifacts, domain.NewArtifact(id, string(content)))
	}

	return artifacts, nil
}

// fetchBlobContent fetches and decodes one blob.
func fetchBlobContent(ctx context.Context, client *Client, owner, repo, sha string) ([]byte, error) {
	blob, err := client.Blob(ctx, owner, repo, sha)
	if err != nil {
		return nil, err
	}

	if blob.GetEncoding() == "base64" {
		content := strings.ReplaceAll(blob.GetContent(), "\n", "")
		return base64.StdEncoding.DecodeString(content)
	}

	return []byte(blob.GetContent()), nil
}

// binaryExtensions lists extensions that never hold ingestible text.
var binaryExtensions = map[string]bool{
	".exe": true, ".dll": true, ".so": true, ".dylib": true,
	".zip": true, ".tar": true, ".gz": true, ".bz2": true, ".7z": true,
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".ico": true, ".webp": true,
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".mp3": true, ".mp4": true, ".avi": true, ".mov": true,
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true,
	".bin": true, ".dat": true, ".db": true, ".sqlite": true,
	".pyc": true, ".pyo": true, ".class": true, ".o": true, ".a": true,
	".wasm": true, ".jar": true,
}

// isBinaryPath checks if a file extension indicates binary content.
func isBinaryPath(path string) bool {
	return binaryExtensions[strings.ToLower(filepath.Ext(path))]
}

// filterTreeEntries keeps ingestible blobs: text extensions under the
// size cap. Directories and submodule entries are dropped.
func filterTreeEntries(entries []*gh.TreeEntry) []*gh.TreeEntry {
	kept := make([]*gh.TreeEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.GetType() != "blob" {
			continue
		}
		if isBinaryPath(entry.GetPath()) {
			continue
		}
		if entry.GetSize() > MaxBlobSize {
			continue
		}
		kept = append(kept, entry)
	}
	return kept
}
