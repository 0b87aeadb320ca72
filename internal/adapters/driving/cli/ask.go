package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lore-cli/internal/core/domain"
	"github.com/custodia-labs/lore-cli/internal/core/ports/driving"
)

var askTopK int

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question answered from the corpus",
	Long: `Runs the full pipeline: retrieves the closest chunks for the question,
assembles them into a context block and asks the generation model for
an answer grounded in that context. Prints the answer together with the
ids of the chunks it was grounded on.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of chunks to retrieve (default from config)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	answerer, err := ensureAnswerer(cmd)
	if err != nil {
		return err
	}

	answer, err := answerer.Answer(context.Background(), args[0], driving.AnswerOptions{TopK: askTopK})
	if err != nil {
		if errors.Is(err, domain.ErrNoContext) {
			cmd.Println("Nothing relevant in the corpus. Ingest some files first.")
			return nil
		}
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(answer.Text)
	cmd.Println()
	cmd.Printf("Sources: %s\n", strings.Join(answer.UsedChunkIDs, ", "))
	cmd.Printf("Model:   %s\n", answer.Model)
	return nil
}
