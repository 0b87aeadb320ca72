// Package messages defines Bubbletea message types for the console.
// Messages represent events that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/lore-cli/internal/core/domain"
)

// QueryCompleted carries retrieval results back to the model.
type QueryCompleted struct {
	Matches []domain.ChunkMatch
	Err     error
}

// AnswerCompleted carries a generated answer back to the model.
type AnswerCompleted struct {
	Answer domain.Answer
	Err    error
}

// StatusLoaded carries corpus statistics for the status bar.
type StatusLoaded struct {
	Status domain.CorpusStatus
	Err    error
}
