package cli

import (
	"context"

	"github.com/custodia-labs/lore-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lore-cli/internal/core/domain"
	"github.com/custodia-labs/lore-cli/internal/core/ports/driving"
)

// Shared test fixtures. setupTestServices swaps every package-level
// service for a mock and returns a cleanup restoring the previous
// wiring, so command tests never touch the real config or corpus.

type mockRAGService struct {
	ingestResult domain.IngestResult
	ingestErr    error
	matches      []domain.ChunkMatch
	queryErr     error
	removeErr    error
	status       domain.CorpusStatus
	statusErr    error

	ingested []domain.Artifact
	removed  []string
}

func (m *mockRAGService) Ingest(_ context.Context, artifact domain.Artifact) (domain.IngestResult, error) {
	m.ingested = append(m.ingested, artifact)
	if m.ingestErr != nil {
		return domain.IngestResult{}, m.ingestErr
	}
	result := m.ingestResult
	if result.ArtifactID == "" {
		result.ArtifactID = artifact.ID
	}
	if result.ChunkCount == 0 && !result.Skipped {
		result.ChunkCount = 2
	}
	return result, nil
}

func (m *mockRAGService) Query(_ context.Context, _ string, _ int) ([]domain.ChunkMatch, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.matches, nil
}

func (m *mockRAGService) Remove(_ context.Context, artifactID string) error {
	if m.removeErr != nil {
		return m.removeErr
	}
	m.removed = append(m.removed, artifactID)
	return nil
}

func (m *mockRAGService) Status(_ context.Context) (domain.CorpusStatus, error) {
	if m.statusErr != nil {
		return domain.CorpusStatus{}, m.statusErr
	}
	return m.status, nil
}

func (m *mockRAGService) Flush(_ context.Context) error      { return nil }
func (m *mockRAGService) Load(_ context.Context) (int, error) { return 0, nil }
func (m *mockRAGService) Close() error                        { return nil }

type mockAnswerService struct {
	answer  domain.Answer
	err     error
	gotOpts driving.AnswerOptions
}

func (m *mockAnswerService) Answer(_ context.Context, _ string, opts driving.AnswerOptions) (domain.Answer, error) {
	m.gotOpts = opts
	if m.err != nil {
		return domain.Answer{}, m.err
	}
	return m.answer, nil
}

type mockAssistantService struct {
	explanation string
	code        string
	analysis    driving.RequirementAnalysis
	plan        driving.ProjectPlan
	rowAnalysis string
	err         error

	createdIn string
}

func (m *mockAssistantService) ExplainCode(_ context.Context, _ string) (string, error) {
	return m.explanation, m.err
}

func (m *mockAssistantService) GenerateCode(_ context.Context, _ string) (string, error) {
	return m.code, m.err
}

func (m *mockAssistantService) AnalyzeRequirement(_ context.Context, _ string) (driving.RequirementAnalysis, error) {
	return m.analysis, m.err
}

func (m *mockAssistantService) GeneratePlan(_ context.Context, _ string, _ map[string]string) (driving.ProjectPlan, error) {
	return m.plan, m.err
}

func (m *mockAssistantService) CreateProject(_ context.Context, _ driving.ProjectPlan, outputDir string) error {
	m.createdIn = outputDir
	return m.err
}

func (m *mockAssistantService) AnalyzeRow(_ context.Context, _ domain.DatasetRow, _ int) (string, error) {
	return m.rowAnalysis, m.err
}

type mockDatasetService struct {
	dataset    *domain.Dataset
	active     *domain.Dataset
	analysis   string
	loadErr    error
	analyzeErr error

	loaded        []string
	gotIndex      int
	gotIterations int
}

func (m *mockDatasetService) Load(_ context.Context, path string) (*domain.Dataset, error) {
	m.loaded = append(m.loaded, path)
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	m.active = m.dataset
	return m.dataset, nil
}

func (m *mockDatasetService) Active() (*domain.Dataset, error) {
	if m.active == nil {
		return nil, domain.ErrNotFound
	}
	return m.active, nil
}

func (m *mockDatasetService) Row(index int) (domain.DatasetRow, error) {
	if m.active == nil || index < 0 || index >= len(m.active.Rows) {
		return nil, domain.ErrInvalidInput
	}
	return m.active.Rows[index], nil
}

func (m *mockDatasetService) RandomRow() (domain.DatasetRow, error) {
	if m.active == nil || len(m.active.Rows) == 0 {
		return nil, domain.ErrNotFound
	}
	return m.active.Rows[0], nil
}

func (m *mockDatasetService) Analyze(_ context.Context, index, iterations int) (string, error) {
	m.gotIndex = index
	m.gotIterations = iterations
	if m.analyzeErr != nil {
		return "", m.analyzeErr
	}
	return m.analysis, nil
}

type mockSettingsService struct {
	settings    *domain.AppSettings
	getErr      error
	saveErr     error
	validateErr error

	apiKeys map[domain.AIProvider]string
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	// Return a copy so the --corpus override never leaks between tests.
	var settings domain.AppSettings
	if m.settings != nil {
		settings = *m.settings
	} else {
		settings = domain.DefaultAppSettings()
	}
	return &settings, nil
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error { return m.saveErr }

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	settings := domain.DefaultAppSettings()
	if m.settings != nil {
		settings = *m.settings
	}
	settings.Embedding = domain.EmbeddingSettings{Provider: provider, Model: model, APIKey: apiKey}
	m.settings = &settings
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	settings := domain.DefaultAppSettings()
	if m.settings != nil {
		settings = *m.settings
	}
	settings.LLM = domain.LLMSettings{Provider: provider, Model: model, APIKey: apiKey}
	m.settings = &settings
	return nil
}

func (m *mockSettingsService) SetAPIKey(provider domain.AIProvider, apiKey string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if m.apiKeys == nil {
		m.apiKeys = make(map[domain.AIProvider]string)
	}
	m.apiKeys[provider] = apiKey
	return nil
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) ValidateEmbeddingConfig() error { return m.validateErr }

func (m *mockSettingsService) ValidateLLMConfig() error { return m.validateErr }

// setupTestServices installs happy-path mocks for every service.
func setupTestServices() func() {
	oldRAG := ragService
	oldAnswer := answerService
	oldAssistant := assistantService
	oldDataset := datasetService
	oldSettings := settingsService
	oldConfig := configStore
	oldPrompts := promptStore
	oldAI := aiServices
	oldOwned := ownedRAG
	oldCorpus := corpusFlag

	ragService = &mockRAGService{
		matches: []domain.ChunkMatch{
			{ChunkID: "notes.md#0", ArtifactID: "notes.md", Content: "alpha beta gamma", Score: 0.9132},
		},
		status: domain.CorpusStatus{
			ArtifactCount: 1,
			RecordCount:   3,
			Dimensions:    4,
			Model:         "nomic-embed-text",
			Path:          "/tmp/lore/default.db",
		},
	}
	answerService = &mockAnswerService{
		answer: domain.Answer{
			Text:         "Generated answer.",
			UsedChunkIDs: []string{"notes.md#0"},
			Model:        "test-model",
		},
	}
	assistantService = &mockAssistantService{
		explanation: "This code parses TOML.",
		code:        "package main",
		analysis: driving.RequirementAnalysis{
			Summary:   "A todo list API",
			TechStack: map[string]string{"language": "go", "storage": "sqlite"},
		},
		plan:        driving.ProjectPlan{Files: map[string]string{"main.go": "entry point", "go.mod": "module file"}},
		rowAnalysis: "Row looks consistent.",
	}
	datasetService = &mockDatasetService{
		dataset: &domain.Dataset{
			Path:    "people.csv",
			Format:  domain.DatasetFormatCSV,
			Columns: []string{"name", "age"},
			Rows:    []domain.DatasetRow{{"name": "ada", "age": 36}},
		},
		analysis: "The row describes a person.",
	}
	settingsService = &mockSettingsService{}
	configStore = memory.NewConfigStore()
	promptStore = nil
	aiServices = nil
	ownedRAG = nil
	corpusFlag = ""

	return func() {
		ragService = oldRAG
		answerService = oldAnswer
		assistantService = oldAssistant
		datasetService = oldDataset
		settingsService = oldSettings
		configStore = oldConfig
		promptStore = oldPrompts
		aiServices = oldAI
		ownedRAG = oldOwned
		corpusFlag = oldCorpus
	}
}
