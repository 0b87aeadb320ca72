package tui

import "errors"

// ErrMissingRAGService is returned when the RAG service is not provided.
var ErrMissingRAGService = errors.New("tui: rag service is required")

// ErrNoAnswerService is returned when ask mode is used without a
// configured generation pipeline.
var ErrNoAnswerService = errors.New("tui: answer service is not configured")
