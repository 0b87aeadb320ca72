package mcp

import (
	"github.com/custodia-labs/lore-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// RAG provides ingest, retrieval and corpus inspection.
	RAG driving.RAGService

	// Answer provides the retrieve-then-generate pipeline.
	Answer driving.AnswerService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.RAG == nil {
		return ErrMissingRAGService
	}
	// Answer is optional; without it only retrieval tools are exposed.
	return nil
}
