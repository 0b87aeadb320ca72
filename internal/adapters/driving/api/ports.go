package api

import (
	"github.com/custodia-labs/lore-cli/internal/core/ports/driving"
)

// Ports defines the driving ports (services) that the API server needs.
type Ports struct {
	// RAG is the knowledge store service (required).
	RAG driving.RAGService

	// Answer runs the retrieve-then-generate pipeline (optional).
	Answer driving.AnswerService

	// Assistant provides code assistance operations (optional).
	Assistant driving.AssistantService

	// Dataset drives dataset row analysis (optional).
	Dataset driving.DatasetService
}

// Validate checks that all required ports are present.
// Optional ports gate their route groups instead of failing here.
func (p *Ports) Validate() error {
	if p.RAG == nil {
		return ErrMissingRAGService
	}
	return nil
}
