package api

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

	gotQuestion string
	gotOpts     driving.AnswerOptions
}

func (m *mockAnswerService) Answer(_ context.Context, question string, opts driving.AnswerOptions) (domain.Answer, error) {
	m.gotQuestion = question
	m.gotOpts = opts
	return m.answer, m.err
}

// mockAssistantService is a mock implementation of driving.AssistantService.
type mockAssistantService struct {
	explanation string
	code        string
	analysis    driving.RequirementAnalysis
	plan        driving.ProjectPlan
	rowAnalysis string
	err         error

	gotCode   string
	gotPrompt string
}

func (m *mockAssistantService) ExplainCode(_ context.Context, code string) (string, error) {
	m.gotCode = code
	return m.explanation, m.err
}

func (m *mockAssistantService) GenerateCode(_ context.Context, prompt string) (string, error) {
	m.gotPrompt = prompt
	return m.code, m.err
}

func (m *mockAssistantService) AnalyzeRequirement(_ context.Context, _ string) (driving.RequirementAnalysis, error) {
	return m.analysis, m.err
}

func (m *mockAssistantService) GeneratePlan(_ context.Context, _ string, _ map[string]string) (driving.ProjectPlan, error) {
	return m.plan, m.err
}

func (m *mockAssistantService) CreateProject(_ context.Context, _ driving.ProjectPlan, _ string) error {
	return m.err
}

func (m *mockAssistantService) AnalyzeRow(_ context.Context, _ domain.DatasetRow, _ int) (string, error) {
	return m.rowAnalysis, m.err
}

// mockDatasetService is a mock implementation of driving.DatasetService.
type mockDatasetService struct {
	dataset  *domain.Dataset
	analysis string
	err      error

	loaded        []string
	gotIndex      int
	gotIterations int
}

func (m *mockDatasetService) Load(_ context.Context, path string) (*domain.Dataset, error) {
	m.loaded = append(m.loaded, path)
	return m.dataset, m.err
}

func (m *mockDatasetService) Active() (*domain.Dataset, error) {
	if m.dataset == nil {
		return nil, domain.ErrNotFound
	}
	return m.dataset, nil
}

func (m *mockDatasetService) Row(_ int) (domain.DatasetRow, error) {
	return domain.DatasetRow{}, m.err
}

func (m *mockDatasetService) RandomRow() (domain.DatasetRow, error) {
	return domain.DatasetRow{}, m.err
}

func (m *mockDatasetService) Analyze(_ context.Context, index int, iterations int) (string, error) {
	m.gotIndex = index
	m.gotIterations = iterations
	return m.analysis, m.err
}
