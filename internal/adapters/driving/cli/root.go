// Package cli implements the lore command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/lore-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "lore",
	Short: "Local knowledge store for your code and notes",
	Long: `Lore keeps a local, queryable knowledge store built from your files.

Ingest files, directories or GitHub repositories: lore chunks the text,
embeds every chunk through your configured provider and persists the
records in a per-corpus SQLite database under ~/.lore/data. Query the
corpus for ranked passages, or ask questions answered by the generation
model grounded in retrieved context.

Run 'lore config list' to inspect the configuration and
'lore config set-key <provider>' to store an API key.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

// Execute runs the root command and releases whatever the run wired up.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&corpusFlag, "corpus", "", "corpus to operate on (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "verbose pipeline logging to stderr")
}
