// Package tui provides the interactive corpus console for lore.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/lore-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the console.
// This provides a single injection point for dependency injection.
type Ports struct {
	// RAG is the knowledge store service (required).
	RAG driving.RAGService

	// Answer runs the retrieve-then-generate pipeline. Optional; ask
	// mode reports an error without it.
	Answer driving.AnswerService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.RAG == nil {
		return ErrMissingRAGService
	}
	return nil
}
