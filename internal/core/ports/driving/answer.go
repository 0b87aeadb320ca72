package driving

import (
	"context"

	"github.com/custodia-labs/lore-cli/internal/core/domain"
)

// AnswerService runs the full retrieve-then-generate pipeline.
type AnswerService interface {
	// Answer retrieves context for the question and invokes the
	// generation model with it. Returns the generated text plus the
	// chunk IDs actually used, so provenance is inspectable.
	// Returns domain.ErrNoContext when retrieval finds nothing.
	Answer(ctx context.Context, question string, opts AnswerOptions) (domain.Answer, error)
}

// AnswerOptions configures one answer pipeline run.
type AnswerOptions struct {
	// TopK is how many chunks to retrieve. Zero means the configured
	// default.
	TopK int

	// ContextBudget caps the assembled context block in runes. Zero
	// means the configured default. Lower-ranked chunks are dropped
	// first when the budget is exceeded.
	ContextBudget int
}
