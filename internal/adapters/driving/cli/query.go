package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lore-cli/internal/core/domain"
)

var (
	queryTopK int
	queryJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Retrieve the closest chunks for a query",
	Long: `Embeds the query text and returns the most similar chunks by cosine
similarity, ranked best first. Retrieval only; see 'lore ask' for
generated answers.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of chunks to retrieve (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output matches as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	rag, err := ensureRAG(cmd)
	if err != nil {
		return err
	}

	k := queryTopK
	if k <= 0 {
		if settings, err := loadSettings(); err == nil {
			k = settings.Query.TopK
		}
	}

	matches, err := rag.Query(context.Background(), args[0], k)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputMatchesJSON(cmd, matches)
	}
	return outputMatchesTable(cmd, matches)
}

func outputMatchesJSON(cmd *cobra.Command, matches []domain.ChunkMatch) error {
	data, err := json.MarshalIndent(matches, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal matches: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputMatchesTable(cmd *cobra.Command, matches []domain.ChunkMatch) error {
	if len(matches) == 0 {
		cmd.Println("No matches found.")
		return nil
	}

	cmd.Println("Matches:")
	cmd.Println()
	for i := range matches {
		cmd.Printf("  [%d] %s (%.4f)\n", i+1, matches[i].ArtifactID, matches[i].Score)
		cmd.Printf("      %s\n", snippet(matches[i].Content, 160))
		cmd.Println()
	}
	return nil
}

// snippet returns the first line of text, capped at max runes.
func snippet(text string, maxRunes int) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	runes := []rune(text)
	if len(runes) > maxRunes {
		return string(runes[:maxRunes]) + "..."
	}
	return text
}
