package mcp

import (
	"context"

	"github.com/custodia-labs/lore-cli/internal/core/domain"
	"github.com/custodia-labs/lore-cli/internal/core/ports/driving"
)

// mockRAGService is a mock implementation of driving.RAGService.
type mockRAGService struct {
	ingestResult domain.IngestResult
	matches      []domain.ChunkMatch
	status       domain.CorpusStatus
	err          error

	ingested []domain.Artifact
	removed  []string
}

func (m *mockRAGService) Ingest(_ context.Context, artifact domain.Artifact) (domain.IngestResult, error) {
	m.ingested = append(m.ingested, artifact)
	return m.ingestResult, m.err
}

func (m *mockRAGService) Query(_ context.Context, _ string, _ int) ([]domain.ChunkMatch, error) {
	return m.matches, m.err
}

func (m *mockRAGService) Remove(_ context.Context, artifactID string) error {
	m.removed = append(m.removed, artifactID)
	return m.err
}

func (m *mockRAGService) Status(_ context.Context) (domain.CorpusStatus, error) {
	return m.status, m.err
}

func (m *mockRAGService) Flush(_ context.Context) error       { return m.err }
func (m *mockRAGService) Load(_ context.Context) (int, error) { return 0, m.err }
func (m *mockRAGService) Close() error                        { return m.err }

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	answer domain.Answer
	err    error

	gotOpts driving.AnswerOptions
}

func (m *mockAnswerService) Answer(_ context.Context, _ string, opts driving.AnswerOptions) (domain.Answer, error) {
	m.gotOpts = opts
	return m.answer, m.err
}
