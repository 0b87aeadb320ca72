package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lore-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/lore-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/lore-cli/internal/adapters/driven/index/bruteforce"
	"github.com/custodia-labs/lore-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/lore-cli/internal/chunker"
	"github.com/custodia-labs/lore-cli/internal/core/domain"
	"github.com/custodia-labs/lore-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lore-cli/internal/core/ports/driving"
	"github.com/custodia-labs/lore-cli/internal/core/services"
)

// Commands read services through these package variables. They start
// nil and are wired lazily on first use, after flags are parsed, so the
// --corpus flag can select the database. Tests inject mocks by
// assigning them directly.
var (
	ragService       driving.RAGService
	answerService    driving.AnswerService
	assistantService driving.AssistantService
	datasetService   driving.DatasetService
	settingsService  driving.SettingsService

	configStore driven.ConfigStore
	promptStore driven.PromptStore

	corpusFlag string

	aiServices *ai.InitResult
	ownedRAG   driving.RAGService
)

// closeServices releases everything the wiring built. Injected mocks
// are left alone.
func closeServices() {
	if ownedRAG != nil {
		if err := ownedRAG.Close(); err != nil {
			fmt.Fprintf(rootCmd.ErrOrStderr(), "Warning: closing corpus: %v\n", err)
		}
		ownedRAG = nil
		ragService = nil
	}
	if aiServices != nil {
		aiServices.Close()
		aiServices = nil
	}
}

// ensureConfigStore opens the on-disk TOML config store.
func ensureConfigStore() (driven.ConfigStore, error) {
	if configStore != nil {
		return configStore, nil
	}
	store, err := file.NewConfigStore("")
	if err != nil {
		return nil, fmt.Errorf("open config store: %w", err)
	}
	configStore = store
	return configStore, nil
}

// ensureSettings wires the settings service over the config store.
func ensureSettings() (driving.SettingsService, error) {
	if settingsService != nil {
		return settingsService, nil
	}
	store, err := ensureConfigStore()
	if err != nil {
		return nil, err
	}
	settingsService = services.NewSettingsService(store, ai.NewConfigValidator())
	return settingsService, nil
}

// loadSettings reads the current settings and applies the --corpus
// override.
func loadSettings() (*domain.AppSettings, error) {
	svc, err := ensureSettings()
	if err != nil {
		return nil, err
	}
	settings, err := svc.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if corpusFlag != "" {
		settings.Storage.Corpus = corpusFlag
	}
	return settings, nil
}

// ensureAI initialises the provider adapters once. Failures degrade
// rather than abort: a missing embedder disables ingest and query, a
// missing generator disables answer synthesis. Each failure surfaces
// as a warning here and as a typed error when the capability is used.
func ensureAI(cmd *cobra.Command, settings *domain.AppSettings) *ai.InitResult {
	if aiServices != nil {
		return aiServices
	}
	aiServices = ai.InitializeServices(settings)
	for _, warning := range aiServices.Warnings {
		cmd.PrintErrf("Warning: %s\n", warning)
	}
	return aiServices
}

// ensurePrompts opens the prompt store. A nil return means the
// services fall back to their built-in templates.
func ensurePrompts() driven.PromptStore {
	if promptStore != nil {
		return promptStore
	}
	store, err := file.NewPromptStore("")
	if err != nil {
		return nil
	}
	promptStore = store
	return promptStore
}

// ensureRAG builds the corpus stack on first use: SQLite record store,
// vector index, chunker and embedder, then loads the persisted records.
func ensureRAG(cmd *cobra.Command) (driving.RAGService, error) {
	if ragService != nil {
		return ragService, nil
	}

	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}
	result := ensureAI(cmd, settings)

	store, err := sqlite.NewStore(settings.Storage.DataDir, settings.Storage.Corpus)
	if err != nil {
		return nil, fmt.Errorf("open corpus %q: %w", settings.Storage.Corpus, err)
	}

	rag := services.NewRAGStore(
		store.RecordStore(),
		bruteforce.New(),
		result.EmbeddingService,
		chunker.FromSettings(settings.Chunker),
	)
	skipped, err := rag.Load(context.Background())
	if err != nil {
		_ = rag.Close() //nolint:errcheck // Already failing, report the load error.
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	if skipped > 0 {
		cmd.PrintErrf("Warning: skipped %d undecodable records\n", skipped)
	}

	ragService = rag
	ownedRAG = rag
	return ragService, nil
}

// ensureAnswerer wires the retrieve-then-generate pipeline.
func ensureAnswerer(cmd *cobra.Command) (driving.AnswerService, error) {
	if answerService != nil {
		return answerService, nil
	}

	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}
	rag, err := ensureRAG(cmd)
	if err != nil {
		return nil, err
	}
	result := ensureAI(cmd, settings)

	answerer := services.NewAnswerer(rag, result.LLMService, settings.LLM, settings.Query)
	if prompts := ensurePrompts(); prompts != nil {
		answerer.SetPromptStore(prompts)
	}
	answerService = answerer
	return answerService, nil
}

// ensureAssistant wires the generation-backed helper operations.
func ensureAssistant(cmd *cobra.Command) (driving.AssistantService, error) {
	if assistantService != nil {
		return assistantService, nil
	}

	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}
	result := ensureAI(cmd, settings)

	assistant := services.NewAssistant(result.LLMService, settings.LLM)
	if prompts := ensurePrompts(); prompts != nil {
		assistant.SetPromptStore(prompts)
	}
	assistantService = assistant
	return assistantService, nil
}

// ensureDataset wires the dataset service over the assistant.
func ensureDataset(cmd *cobra.Command) (driving.DatasetService, error) {
	if datasetService != nil {
		return datasetService, nil
	}
	assistant, err := ensureAssistant(cmd)
	if err != nil {
		return nil, err
	}
	datasetService = services.NewDatasetService(assistant)
	return datasetService, nil
}
