package services

import (
	"errors"
	"fmt"
	"os"

	"github.com/custodia-labs/lore-cli/internal/core/domain"
	"github.com/custodia-labs/lore-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lore-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider  = "embedding.provider"
	keyEmbedModel     = "embedding.model"
	keyEmbedBaseURL   = "embedding.base_url"
	keyEmbedAPIKey    = "embedding.api_key"
	keyLLMProvider    = "llm.provider"
	keyLLMModel       = "llm.model"
	keyLLMBaseURL     = "llm.base_url"
	keyLLMAPIKey      = "llm.api_key"
	keyChunkSize      = "chunker.max_chunk_size"
	keyChunkOverlap   = "chunker.overlap"
	keyChunkMinSize   = "chunker.min_chunk_size"
	keyQueryTopK      = "query.top_k"
	keyQueryBudget    = "query.context_budget"
	keyStorageDataDir = "storage.data_dir"
	keyStorageCorpus  = "storage.corpus"
)

// Environment overrides. These win over the config file so deployments
// can switch providers without editing it.
const (
	envProvider      = "LORE_PROVIDER"
	envModel         = "LORE_MODEL"
	envDataDir       = "LORE_DATA_DIR"
	envGroqKey       = "GROQ_API_KEY"
	envOpenRouterKey = "OPENROUTER_API_KEY"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings. Values come from the
// config file with defaults filling the gaps, then environment
// overrides are applied on top.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Chunker: domain.ChunkerSettings{
			MaxChunkSize: s.getInt(keyChunkSize, defaults.Chunker.MaxChunkSize),
			Overlap:      s.getInt(keyChunkOverlap, defaults.Chunker.Overlap),
			MinChunkSize: s.getInt(keyChunkMinSize, defaults.Chunker.MinChunkSize),
		},
		Query: domain.QuerySettings{
			TopK:          s.getInt(keyQueryTopK, defaults.Query.TopK),
			ContextBudget: s.getInt(keyQueryBudget, defaults.Query.ContextBudget),
		},
		Storage: domain.StorageSettings{
			DataDir: s.configStore.GetString(keyStorageDataDir), // No default - empty means ~/.lore/data
			Corpus:  s.getString(keyStorageCorpus, defaults.Storage.Corpus),
		},
	}

	s.applyEnvOverrides(settings)
	return settings, nil
}

// applyEnvOverrides layers environment variables over loaded settings.
func (s *SettingsService) applyEnvOverrides(settings *domain.AppSettings) {
	if v := os.Getenv(envProvider); v != "" {
		provider := domain.AIProvider(v)
		if provider.IsValid() {
			settings.Embedding.Provider = provider
			settings.LLM.Provider = provider
			if model, ok := domain.DefaultEmbeddingModels()[provider]; ok {
				settings.Embedding.Model = model
			}
			settings.LLM.Model = domain.DefaultModel(provider)
		}
	}
	if v := os.Getenv(envModel); v != "" {
		settings.LLM.Model = v
	}
	if v := os.Getenv(envDataDir); v != "" {
		settings.Storage.DataDir = v
	}

	// Provider keys apply only where that provider is selected.
	for _, section := range []struct {
		provider domain.AIProvider
		key      *string
	}{
		{settings.Embedding.Provider, &settings.Embedding.APIKey},
		{settings.LLM.Provider, &settings.LLM.APIKey},
	} {
		if v := envAPIKey(section.provider); v != "" {
			*section.key = v
		}
	}
}

// envAPIKey returns the environment API key for a hosted provider.
func envAPIKey(provider domain.AIProvider) string {
	switch provider {
	case domain.AIProviderGroq:
		return os.Getenv(envGroqKey)
	case domain.AIProviderOpenRouter:
		return os.Getenv(envOpenRouterKey)
	default:
		return ""
	}
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	// Save embedding settings
	if err := s.configStore.Set(keyEmbedProvider, settings.Embedding.Provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.Embedding.Model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBaseURL, settings.Embedding.BaseURL); err != nil {
		return fmt.Errorf("save embedding base_url: %w", err)
	}
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}

	// Save LLM settings
	if err := s.configStore.Set(keyLLMProvider, settings.LLM.Provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, settings.LLM.Model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	if err := s.configStore.Set(keyLLMBaseURL, settings.LLM.BaseURL); err != nil {
		return fmt.Errorf("save llm base_url: %w", err)
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	// Save chunker settings
	if err := s.configStore.Set(keyChunkSize, settings.Chunker.MaxChunkSize); err != nil {
		return fmt.Errorf("save chunk size: %w", err)
	}
	if err := s.configStore.Set(keyChunkOverlap, settings.Chunker.Overlap); err != nil {
		return fmt.Errorf("save chunk overlap: %w", err)
	}
	if err := s.configStore.Set(keyChunkMinSize, settings.Chunker.MinChunkSize); err != nil {
		return fmt.Errorf("save min chunk size: %w", err)
	}

	// Save query settings
	if err := s.configStore.Set(keyQueryTopK, settings.Query.TopK); err != nil {
		return fmt.Errorf("save top_k: %w", err)
	}
	if err := s.configStore.Set(keyQueryBudget, settings.Query.ContextBudget); err != nil {
		return fmt.Errorf("save context_budget: %w", err)
	}

	// Save storage settings
	if err := s.configStore.Set(keyStorageDataDir, settings.Storage.DataDir); err != nil {
		return fmt.Errorf("save data_dir: %w", err)
	}
	if err := s.configStore.Set(keyStorageCorpus, settings.Storage.Corpus); err != nil {
		return fmt.Errorf("save corpus: %w", err)
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" && envAPIKey(provider) == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else if defaultModel, ok := domain.DefaultEmbeddingModels()[provider]; ok {
		settings.Embedding.Model = defaultModel
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the generation provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" && envAPIKey(provider) == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else if defaultModel := domain.DefaultModel(provider); defaultModel != "" {
		settings.LLM.Model = defaultModel
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.LLM.BaseURL = ""
	}

	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetAPIKey stores the API key for a hosted provider. The key lands in
// every section currently using that provider.
func (s *SettingsService) SetAPIKey(provider domain.AIProvider, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid provider: %s", provider)
	}
	if !provider.RequiresAPIKey() {
		return fmt.Errorf("%s does not use an API key: %w", provider, domain.ErrInvalidInput)
	}
	if apiKey == "" {
		return fmt.Errorf("empty API key: %w", domain.ErrInvalidInput)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	matched := false
	if settings.Embedding.Provider == provider {
		if err := s.configStore.Set(keyEmbedAPIKey, apiKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
		matched = true
	}
	if settings.LLM.Provider == provider {
		if err := s.configStore.Set(keyLLMAPIKey, apiKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
		matched = true
	}
	if !matched {
		return fmt.Errorf("provider %s is not selected for embedding or generation: %w",
			provider, domain.ErrInvalidInput)
	}

	return nil
}

// Validate checks if current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	var errs []error
	if !settings.Embedding.IsConfigured() {
		errs = append(errs, fmt.Errorf("embedding provider %s is not configured: %w",
			settings.Embedding.Provider, domain.ErrNotConfigured))
	}
	if !settings.LLM.IsConfigured() {
		errs = append(errs, fmt.Errorf("generation provider %s is not configured: %w",
			settings.LLM.Provider, domain.ErrNotConfigured))
	}
	return errors.Join(errs...)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current generation configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
