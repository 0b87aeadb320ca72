package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lore-cli/internal/core/domain"
	"github.com/custodia-labs/lore-cli/internal/core/ports/driving"
	"github.com/custodia-labs/lore-cli/internal/files"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Ingest a file or directory into the corpus",
	Long: `Chunks, embeds and stores the given file, or every text file under the
given directory (recursive). Hidden entries and binary extensions are
skipped. Re-ingesting unchanged content is a no-op: the content hash is
compared against the committed state before anything is re-embedded.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	rag, err := ensureRAG(cmd)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if !info.IsDir() {
		return ingestOne(ctx, cmd, rag, path)
	}
	return ingestDir(ctx, cmd, rag, path)
}

func ingestOne(ctx context.Context, cmd *cobra.Command, rag driving.RAGService, path string) error {
	content, err := files.ReadText(path)
	if err != nil {
		return err
	}

	result, err := rag.Ingest(ctx, domain.NewArtifact(files.ArtifactID(path), content))
	if err != nil {
		return fmt.Errorf("ingest %s: %w", path, err)
	}

	switch {
	case result.Skipped:
		cmd.Printf("Unchanged: %s\n", result.ArtifactID)
	case result.Replaced:
		cmd.Printf("Re-ingested %s (%d chunks)\n", result.ArtifactID, result.ChunkCount)
	default:
		cmd.Printf("Ingested %s (%d chunks)\n", result.ArtifactID, result.ChunkCount)
	}
	return nil
}

func ingestDir(ctx context.Context, cmd *cobra.Command, rag driving.RAGService, dir string) error {
	paths, err := files.ListTextFiles(dir)
	if err != nil {
		return fmt.Errorf("list files: %w", err)
	}
	if len(paths) == 0 {
		cmd.Println("No text files found.")
		return nil
	}

	var ingested, unchanged int
	for _, p := range paths {
		content, err := files.ReadText(p)
		if err != nil {
			cmd.PrintErrf("Warning: skipping %s: %v\n", p, err)
			continue
		}

		result, err := rag.Ingest(ctx, domain.NewArtifact(files.ArtifactID(p), content))
		if err != nil {
			// Whitespace-only files are not worth aborting a tree over.
			if errors.Is(err, domain.ErrEmptyArtifact) {
				unchanged++
				continue
			}
			return fmt.Errorf("ingest %s: %w", p, err)
		}
		if result.Skipped {
			unchanged++
			continue
		}
		ingested++
		cmd.Printf("  %s (%d chunks)\n", result.ArtifactID, result.ChunkCount)
	}

	cmd.Printf("Ingested %d files (%d unchanged or empty).\n", ingested, unchanged)
	return nil
}
