package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/lore-cli/internal/adapters/driving/tui"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Launch the interactive query console",
	Long: `Launch an interactive terminal console over the corpus.

Type a query and press Enter to search. Tab switches between retrieval
mode (ranked chunks) and ask mode (synthesized answer).

Controls:
  Enter - Run the query
  Tab   - Toggle retrieve / ask mode
  Esc   - Clear the input
  q     - Quit (when the input is empty)`,
	RunE: runConsole,
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}

func runConsole(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in console: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	rag, err := ensureRAG(cmd)
	if err != nil {
		return err
	}
	answer, err := ensureAnswerer(cmd)
	if err != nil {
		return err
	}
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	app, err := tui.NewApp(&tui.Ports{
		RAG:    rag,
		Answer: answer,
	})
	if err != nil {
		return fmt.Errorf("failed to create console: %w", err)
	}

	app.WithContext(cmd.Context())
	app.WithModelInfo(settings.LLM.Provider.String(), settings.LLM.Model)

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("console error: %w", err)
	}

	return nil
}
