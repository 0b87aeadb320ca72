package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove [artifact-id]",
	Short: "Remove an artifact and all its records",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	rag, err := ensureRAG(cmd)
	if err != nil {
		return err
	}

	if err := rag.Remove(context.Background(), args[0]); err != nil {
		return fmt.Errorf("remove failed: %w", err)
	}

	cmd.Printf("Removed artifact: %s\n", args[0])
	return nil
}
