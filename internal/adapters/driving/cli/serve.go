package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lore-cli/internal/adapters/driving/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Long: `Expose ingest, query, answer and the assistant operations over a JSON
HTTP API. Runs until interrupted.

Endpoints are versioned under /v1; see GET /healthz for liveness.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	rag, err := ensureRAG(cmd)
	if err != nil {
		return err
	}
	answer, err := ensureAnswerer(cmd)
	if err != nil {
		return err
	}
	assistant, err := ensureAssistant(cmd)
	if err != nil {
		return err
	}
	dataset, err := ensureDataset(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := api.NewServer(&api.Ports{
		RAG:       rag,
		Answer:    answer,
		Assistant: assistant,
		Dataset:   dataset,
	})
	if err != nil {
		return err
	}

	cmd.Printf("HTTP API listening on %s\n", serveAddr)
	return server.Listen(ctx, serveAddr)
}
