package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderGroq is the Groq cloud API (OpenAI-compatible).
	AIProviderGroq AIProvider = "groq"

	// AIProviderOpenRouter is the OpenRouter cloud API (OpenAI-compatible).
	AIProviderOpenRouter AIProvider = "openrouter"

	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderGroq, AIProviderOpenRouter, AIProviderOllama:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderGroq || p == AIProviderOpenRouter
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderGroq:
		return "Groq (cloud)"
	case AIProviderOpenRouter:
		return "OpenRouter (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	default:
		return unknownDescription
	}
}

// AllProviders returns every supported provider.
func AllProviders() []AIProvider {
	return []AIProvider{
		AIProviderGroq,
		AIProviderOpenRouter,
		AIProviderOllama,
	}
}

// ModelConfig holds per-model generation parameters.
type ModelConfig struct {
	// MaxTokens is the generation token budget for the model.
	MaxTokens int

	// Temperature is the sampling temperature.
	Temperature float64
}

// ProviderModels returns the known generation models for a provider,
// keyed by model name.
func ProviderModels(p AIProvider) map[string]ModelConfig {
	switch p {
	case AIProviderGroq:
		return map[string]ModelConfig{
			"llama-3.1-70b-versatile": {MaxTokens: 4096, Temperature: 0.2},
			"llama-3.1-8b-instant":    {MaxTokens: 4096, Temperature: 0.7},
			"mixtral-8x7b-32768":      {MaxTokens: 32768, Temperature: 0.8},
			"gemma-7b-it":             {MaxTokens: 8192, Temperature: 0.7},
		}
	case AIProviderOpenRouter:
		return map[string]ModelConfig{
			"nousresearch/hermes-3-llama-3.1-405b:free": {MaxTokens: 4096, Temperature: 0.0},
			"meta-llama/llama-3.1-8b-instruct:free":     {MaxTokens: 4096, Temperature: 0.3},
			"mistralai/mistral-7b-instruct:free":        {MaxTokens: 4096, Temperature: 0.3},
			"microsoft/phi-3-mini-128k-instruct:free":   {MaxTokens: 4096, Temperature: 0.3},
			"qwen/qwen2-7b-instruct:free":               {MaxTokens: 4096, Temperature: 0.3},
		}
	case AIProviderOllama:
		return map[string]ModelConfig{
			"llama3.2":  {MaxTokens: 2048, Temperature: 0.3},
			"codellama": {MaxTokens: 2048, Temperature: 0.3},
			"qwen2.5":   {MaxTokens: 2048, Temperature: 0.3},
		}
	default:
		return nil
	}
}

// DefaultModel returns the default generation model for a provider.
func DefaultModel(p AIProvider) string {
	switch p {
	case AIProviderGroq:
		return "llama-3.1-8b-instant"
	case AIProviderOpenRouter:
		return "qwen/qwen2-7b-instruct:free"
	case AIProviderOllama:
		return "llama3.2"
	default:
		return ""
	}
}

// ModelConfigFor resolves the generation parameters for a model, falling
// back to conservative defaults for unknown models.
func ModelConfigFor(p AIProvider, model string) ModelConfig {
	if cfg, ok := ProviderModels(p)[model]; ok {
		return cfg
	}
	return ModelConfig{MaxTokens: 2048, Temperature: 0.3}
}

// DefaultEmbeddingModels returns default embedding models per provider.
// Hosted providers use OpenAI-compatible embedding endpoints.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGroq:       "text-embedding-3-small",
		AIProviderOpenRouter: "text-embedding-3-small",
		AIProviderOllama:     "nomic-embed-text",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI-compatible models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or self-hosted gateways).
	BaseURL string

	// APIKey is the API key (for hosted providers).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds generation provider configuration.
type LLMSettings struct {
	// Provider is the generation service provider.
	Provider AIProvider

	// Model is the generation model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for hosted providers).
	APIKey string
}

// IsConfigured returns true if the generation provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ChunkerSettings holds chunking configuration.
type ChunkerSettings struct {
	// MaxChunkSize is the window size in runes.
	MaxChunkSize int

	// Overlap is how many runes consecutive chunks share.
	Overlap int

	// MinChunkSize is the threshold below which a trailing fragment is
	// merged into the previous chunk instead of emitted alone.
	MinChunkSize int
}

// QuerySettings holds retrieval and answer synthesis configuration.
type QuerySettings struct {
	// TopK is the default number of chunks retrieved per query.
	TopK int

	// ContextBudget caps the assembled context block length in runes.
	// Lower-ranked chunks are dropped first when the budget is exceeded.
	ContextBudget int
}

// StorageSettings holds persistence configuration.
type StorageSettings struct {
	// DataDir is the directory holding the corpus database.
	DataDir string

	// Corpus is the corpus name; each corpus is one database file.
	Corpus string
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds generation provider settings.
	LLM LLMSettings

	// Chunker holds chunking settings.
	Chunker ChunkerSettings

	// Query holds retrieval settings.
	Query QuerySettings

	// Storage holds persistence settings.
	Storage StorageSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// Hosted providers stay unconfigured until an API key is supplied;
// the factory falls back to local Ollama when keys are missing.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider: AIProviderOllama,
			Model:    "nomic-embed-text",
		},
		LLM: LLMSettings{
			Provider: AIProviderGroq,
			Model:    DefaultModel(AIProviderGroq),
		},
		Chunker: ChunkerSettings{
			MaxChunkSize: 1000,
			Overlap:      200,
			MinChunkSize: 200,
		},
		Query: QuerySettings{
			TopK:          4,
			ContextBudget: 6000,
		},
		Storage: StorageSettings{
			Corpus: "default",
		},
	}
}
