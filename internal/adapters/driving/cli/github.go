package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lore-cli/internal/connectors/github"
	"github.com/custodia-labs/lore-cli/internal/core/domain"
)

var githubToken string

var githubCmd = &cobra.Command{
	Use:   "github [owner/repo]",
	Short: "Ingest a GitHub repository",
	Long: `Fetches every text file from a GitHub repository tree and ingests it.
Accepts owner/repo, owner/repo@ref, or a pasted github.com URL.

Anonymous access is rate-limited to 60 requests per hour; pass --token
or set GITHUB_TOKEN for the authenticated limit.`,
	Args: cobra.ExactArgs(1),
	RunE: runGitHub,
}

func init() {
	githubCmd.Flags().StringVar(&githubToken, "token", "", "GitHub API token (defaults to GITHUB_TOKEN)")
	rootCmd.AddCommand(githubCmd)
}

func runGitHub(cmd *cobra.Command, args []string) error {
	repo, err := github.ParseRepoRef(args[0])
	if err != nil {
		return err
	}

	rag, err := ensureRAG(cmd)
	if err != nil {
		return err
	}

	token := githubToken
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}

	ctx := context.Background()
	client := github.NewClient(ctx, token)

	cmd.Printf("Fetching %s...\n", repo)
	artifacts, err := github.Fetch(ctx, client, repo)
	if err != nil {
		if len(artifacts) == 0 {
			return fmt.Errorf("fetch %s: %w", repo, err)
		}
		// Keep what we got; the corpus can be topped up later.
		cmd.PrintErrf("Warning: fetch incomplete: %v\n", err)
	}

	if len(artifacts) == 0 {
		cmd.Println("No text files found.")
		return nil
	}

	var ingested, unchanged int
	for _, artifact := range artifacts {
		result, err := rag.Ingest(ctx, artifact)
		if err != nil {
			if errors.Is(err, domain.ErrEmptyArtifact) {
				unchanged++
				continue
			}
			return fmt.Errorf("ingest %s: %w", artifact.ID, err)
		}
		if result.Skipped {
			unchanged++
			continue
		}
		ingested++
		cmd.Printf("  %s (%d chunks)\n", artifact.ID, result.ChunkCount)
	}

	cmd.Printf("Ingested %d files from %s (%d unchanged or empty).\n", ingested, repo, unchanged)
	return nil
}
