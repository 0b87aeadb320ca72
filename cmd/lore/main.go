package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/lore-cli/internal/adapters/driving/cli"
)

func main() {
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
