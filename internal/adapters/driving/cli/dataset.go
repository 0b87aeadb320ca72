package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lore-cli/internal/core/domain"
)

// datasetPathKey remembers the last loaded dataset across invocations.
const datasetPathKey = "dataset.path"

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Load and analyse tabular datasets",
}

var datasetLoadCmd = &cobra.Command{
	Use:   "load [path]",
	Short: "Load a dataset and make it active",
	Long: `Parses a json, jsonl, csv or tsv file (chosen by extension) and records
it as the active dataset for 'lore dataset analyze'.`,
	Args: cobra.ExactArgs(1),
	RunE: runDatasetLoad,
}

var (
	datasetRow        int
	datasetIterations int
)

var datasetAnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyse a row of the active dataset",
	Long: `Sends one row of the active dataset to the generation model for
analysis. Without --row a random row is picked. Iterations beyond the
first re-run the prompt and join the results.`,
	RunE: runDatasetAnalyze,
}

func init() {
	datasetAnalyzeCmd.Flags().IntVar(&datasetRow, "row", -1, "row index to analyse (random when omitted)")
	datasetAnalyzeCmd.Flags().IntVar(&datasetIterations, "iterations", 1, "number of analysis passes (max 5)")
	datasetCmd.AddCommand(datasetLoadCmd)
	datasetCmd.AddCommand(datasetAnalyzeCmd)
	rootCmd.AddCommand(datasetCmd)
}

func runDatasetLoad(cmd *cobra.Command, args []string) error {
	ds, err := ensureDataset(cmd)
	if err != nil {
		return err
	}

	dataset, err := ds.Load(context.Background(), args[0])
	if err != nil {
		return err
	}

	// Remember the path so a later 'dataset analyze' can reload it.
	if store, err := ensureConfigStore(); err == nil {
		if err := store.Set(datasetPathKey, args[0]); err != nil {
			cmd.PrintErrf("Warning: could not remember dataset path: %v\n", err)
		}
	}

	cmd.Printf("Loaded %s: %d rows, %d columns (%s)\n",
		args[0], dataset.TotalRows(), len(dataset.Columns), dataset.Format)
	cmd.Printf("Columns: %s\n", strings.Join(dataset.Columns, ", "))
	return nil
}

func runDatasetAnalyze(cmd *cobra.Command, _ []string) error {
	ds, err := ensureDataset(cmd)
	if err != nil {
		return err
	}

	ctx := context.Background()

	// A fresh process has no active dataset; reload the remembered one.
	if _, err := ds.Active(); errors.Is(err, domain.ErrNotFound) {
		store, storeErr := ensureConfigStore()
		if storeErr != nil {
			return storeErr
		}
		path := store.GetString(datasetPathKey)
		if path == "" {
			return errors.New("no dataset loaded; run 'lore dataset load <path>' first")
		}
		if _, err := ds.Load(ctx, path); err != nil {
			return err
		}
	}

	analysis, err := ds.Analyze(ctx, datasetRow, datasetIterations)
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	cmd.Println("Analysis of dataset row:")
	cmd.Println(analysis)
	return nil
}
