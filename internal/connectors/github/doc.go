// Package github fetches repository files for corpus ingestion.
//
// The package walks a repository's git tree at a ref (the default
// branch unless one is named), filters to text blobs under a size cap,
// and returns each file as an artifact with id {owner}/{repo}/{path}.
// Re-running the fetch feeds the normal hash-gated ingestion path, so
// unchanged files cost nothing beyond the tree walk.
//
// # Authentication
//
// A personal access token raises the API quota from 60 to 5,000
// requests per hour and grants access to private repositories. Public
// repositories work without one, though large trees will exhaust the
// unauthenticated quota quickly.
//
// # Rate Limiting
//
// Two strategies run together:
//
//  1. Proactive throttling: a token bucket limits requests to roughly
//     1.2 per second, staying under the authenticated quota.
//
//  2. Reactive tracking: X-RateLimit-Remaining and X-RateLimit-Reset
//     headers are monitored, and the client sleeps to the reset time
//     when the remaining quota drops below a reserve.
//
// # Limitations
//
//   - Binary files are skipped (text content only)
//   - Files above 1MB are skipped
//   - Invalid UTF-8 blobs are skipped
//
// # Example Usage
//
//	repo, err := github.ParseRepoRef("custodia-labs/lore-cli")
//	if err != nil {
//	    return err
//	}
//
//	client := github.NewClient(ctx, os.Getenv("GITHUB_TOKEN"))
//	artifacts, err := github.Fetch(ctx, client, repo)
package github
