package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/lore-cli/internal/core/domain"
	"github.com/custodia-labs/lore-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lore-cli/internal/core/ports/driving"
	"github.com/custodia-labs/lore-cli/internal/logger"
)

// Ensure Answerer implements the interfaces.
var (
	_ driving.AnswerService   = (*Answerer)(nil)
	_ driven.PromptStoreAware = (*Answerer)(nil)
)

// defaultContextBudget caps the assembled context block in runes when
// neither the caller nor the configuration says otherwise.
const defaultContextBudget = 6000

// defaultAnswerPrompt is used when no prompt store is wired or the
// template cannot be loaded.
const defaultAnswerPrompt = `Use the following context to answer the question. If the context does not
contain the answer, say so instead of guessing.

Context:
%s

Question: %s

Answer:`

// Answerer runs the retrieve-then-generate pipeline: it queries the RAG
// store for relevant chunks, assembles them into a budgeted context
// block and asks the generation model to answer from that block.
type Answerer struct {
	rag      driving.RAGService
	llm      driven.LLMService
	prompts  driven.PromptStore
	provider domain.AIProvider
	model    string
	query    domain.QuerySettings
}

// NewAnswerer creates an answer pipeline over the given RAG store and
// generation service. The LLM settings select per-model generation
// parameters; the query settings supply retrieval defaults.
func NewAnswerer(
	rag driving.RAGService,
	llm driven.LLMService,
	llmSettings domain.LLMSettings,
	query domain.QuerySettings,
) *Answerer {
	return &Answerer{
		rag:      rag,
		llm:      llm,
		provider: llmSettings.Provider,
		model:    llmSettings.Model,
		query:    query,
	}
}

// SetPromptStore sets the prompt store for the answer template.
func (s *Answerer) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// Answer retrieves context for the question and generates a grounded
// response. Returns domain.ErrNoContext when retrieval finds nothing,
// or when no retrieved chunk fits the context budget.
func (s *Answerer) Answer(ctx context.Context, question string, opts driving.AnswerOptions) (domain.Answer, error) {
	logger.Section("Answer Pipeline")

	question = strings.TrimSpace(question)
	if question == "" {
		return domain.Answer{}, fmt.Errorf("answer: empty question: %w", domain.ErrInvalidInput)
	}
	if s.llm == nil {
		return domain.Answer{}, fmt.Errorf("answer: %w", domain.ErrLLMUnavailable)
	}

	// 1. Retrieve the top-k chunks for the question.
	topK := opts.TopK
	if topK <= 0 {
		topK = s.query.TopK
	}
	if topK <= 0 {
		topK = defaultTopK
	}

	matches, err := s.rag.Query(ctx, question, topK)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("retrieve context: %w", err)
	}
	if len(matches) == 0 {
		logger.Info("No context retrieved for question")
		return domain.Answer{}, fmt.Errorf("answer: %w", domain.ErrNoContext)
	}
	logger.Debug("Retrieved %d chunks", len(matches))

	// 2. Assemble the context block under the rune budget. Chunks that
	// do not fit are dropped whole; their text is never truncated.
	budget := opts.ContextBudget
	if budget <= 0 {
		budget = s.query.ContextBudget
	}
	if budget <= 0 {
		budget = defaultContextBudget
	}

	contextBlock, usedIDs := assembleContext(matches, budget)
	if len(usedIDs) == 0 {
		logger.Warn("No retrieved chunk fits the %d-rune context budget", budget)
		return domain.Answer{}, fmt.Errorf("answer: %w", domain.ErrNoContext)
	}
	logger.Debug("Context block: %d chunks, %d runes", len(usedIDs), utf8.RuneCountInString(contextBlock))

	// 3. Generate from the assembled context.
	template := defaultAnswerPrompt
	if s.prompts != nil {
		if tpl, err := s.prompts.Load(driven.PromptAnswer); err == nil && strings.TrimSpace(tpl) != "" {
			template = tpl
		}
	}
	prompt := fmt.Sprintf(template, contextBlock, question)

	cfg := domain.ModelConfigFor(s.provider, s.model)
	text, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	})
	if err != nil {
		logger.Warn("Generation failed: %v", err)
		return domain.Answer{}, fmt.Errorf("generate answer: %w", err)
	}

	logger.Info("Answer generated from %d chunks", len(usedIDs))
	return domain.Answer{
		Text:         strings.TrimSpace(text),
		UsedChunkIDs: usedIDs,
		Model:        s.llm.ModelName(),
	}, nil
}

// contextSection groups the included chunks of one source artifact
// under a single numbered label.
type contextSection struct {
	artifactID string
	parts      []string
}

// assembleContext renders ranked matches into a labelled context block
// of at most budget runes. Each source artifact gets one numbered label
// on first use; later chunks of the same artifact are appended under
// it. A chunk whose full text would exceed the remaining budget is
// skipped, and lower-ranked chunks are still considered so the budget
// is used as fully as possible.
func assembleContext(matches []domain.ChunkMatch, budget int) (string, []string) {
	const separator = 2 // "\n\n"

	var sections []*contextSection
	byArtifact := make(map[string]*contextSection)
	var usedIDs []string
	total := 0

	for _, m := range matches {
		cost := utf8.RuneCountInString(m.Content)

		if sec, ok := byArtifact[m.ArtifactID]; ok {
			cost += separator
			if total+cost > budget {
				continue
			}
			sec.parts = append(sec.parts, m.Content)
		} else {
			header := fmt.Sprintf("[%d] %s\n", len(sections)+1, m.ArtifactID)
			cost += utf8.RuneCountInString(header)
			if len(sections) > 0 {
				cost += separator
			}
			if total+cost > budget {
				continue
			}
			sec = &contextSection{artifactID: m.ArtifactID, parts: []string{m.Content}}
			sections = append(sections, sec)
			byArtifact[m.ArtifactID] = sec
		}

		total += cost
		usedIDs = append(usedIDs, m.ChunkID)
	}

	var b strings.Builder
	for i, sec := range sections {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%d] %s\n", i+1, sec.artifactID)
		b.WriteString(strings.Join(sec.parts, "\n\n"))
	}

	return b.String(), usedIDs
}
