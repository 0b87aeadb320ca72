package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show corpus statistics",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	rag, err := ensureRAG(cmd)
	if err != nil {
		return err
	}

	status, err := rag.Status(context.Background())
	if err != nil {
		return fmt.Errorf("status failed: %w", err)
	}

	cmd.Println("Corpus Status")
	cmd.Println("=============")
	cmd.Printf("  Artifacts:  %d\n", status.ArtifactCount)
	cmd.Printf("  Records:    %d\n", status.RecordCount)
	if status.Dimensions > 0 {
		cmd.Printf("  Dimensions: %d\n", status.Dimensions)
	}
	if status.Model != "" {
		cmd.Printf("  Model:      %s\n", status.Model)
	}
	cmd.Printf("  Path:       %s\n", status.Path)
	return nil
}
