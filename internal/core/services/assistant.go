package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/lore-cli/internal/core/domain"
	"github.com/custodia-labs/lore-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lore-cli/internal/core/ports/driving"
	"github.com/custodia-labs/lore-cli/internal/files"
	"github.com/custodia-labs/lore-cli/internal/logger"
)

// Ensure Assistant implements the interfaces.
var (
	_ driving.AssistantService = (*Assistant)(nil)
	_ driven.PromptStoreAware  = (*Assistant)(nil)
)

// maxAnalyzeIterations caps how often one dataset row is analysed.
const maxAnalyzeIterations = 5

// Fallback templates, used when no prompt store is wired. The file
// prompt store seeds user-editable copies of the same text.
const (
	fallbackExplainPrompt = `Explain the following code:

%s`

	fallbackAnalyzeRowPrompt = `Analyze the following data:

%s

Provide insights and potential next steps.`

	fallbackRequirementPrompt = `Analyze the following project requirement and respond with JSON only,
using exactly these keys: "summary" (one-paragraph restatement) and
"tech_stack" (object mapping each concern to a technology name).

Requirement:
%s`

	fallbackPlanPrompt = `Create a file-level plan for the project below. Respond with JSON only,
using exactly this shape: {"files": {"relative/path": "what the file does"}}.

Requirement:
%s

Tech stack:
%s`

	fallbackFileContentPrompt = `Write the complete content of the file %s for the project described
below. Respond with the file content only, no commentary or fences.

Purpose of this file: %s`
)

// Assistant provides the generation-backed helper operations: code
// explanation, free-form generation, dataset row analysis and project
// scaffolding.
type Assistant struct {
	llm      driven.LLMService
	prompts  driven.PromptStore
	provider domain.AIProvider
	model    string
}

// NewAssistant creates an assistant over the given generation service.
func NewAssistant(llm driven.LLMService, llmSettings domain.LLMSettings) *Assistant {
	return &Assistant{
		llm:      llm,
		provider: llmSettings.Provider,
		model:    llmSettings.Model,
	}
}

// SetPromptStore sets the prompt store for customisable templates.
func (s *Assistant) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// template returns the named prompt template, falling back to the
// built-in text when no store is wired or loading fails.
func (s *Assistant) template(name, fallback string) string {
	if s.prompts == nil {
		return fallback
	}
	tpl, err := s.prompts.Load(name)
	if err != nil || strings.TrimSpace(tpl) == "" {
		return fallback
	}
	return tpl
}

// generate invokes the model with per-model parameters.
func (s *Assistant) generate(ctx context.Context, prompt string) (string, error) {
	if s.llm == nil {
		return "", domain.ErrLLMUnavailable
	}
	cfg := domain.ModelConfigFor(s.provider, s.model)
	text, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// ExplainCode asks the model to explain the given source code.
func (s *Assistant) ExplainCode(ctx context.Context, code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", fmt.Errorf("explain: empty code: %w", domain.ErrInvalidInput)
	}

	prompt := fmt.Sprintf(s.template(driven.PromptExplainCode, fallbackExplainPrompt), code)
	text, err := s.generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("explain code: %w", err)
	}
	return text, nil
}

// GenerateCode produces code from a free-form prompt.
func (s *Assistant) GenerateCode(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("generate: empty prompt: %w", domain.ErrInvalidInput)
	}

	text, err := s.generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return text, nil
}

// AnalyzeRequirement analyses a project requirement into a summary and
// a suggested technology stack.
func (s *Assistant) AnalyzeRequirement(ctx context.Context, requirement string) (driving.RequirementAnalysis, error) {
	if strings.TrimSpace(requirement) == "" {
		return driving.RequirementAnalysis{}, fmt.Errorf("analyze requirement: empty requirement: %w", domain.ErrInvalidInput)
	}

	logger.Section("Requirement Analysis")
	prompt := fmt.Sprintf(s.template(driven.PromptRequirement, fallbackRequirementPrompt), requirement)
	raw, err := s.generate(ctx, prompt)
	if err != nil {
		return driving.RequirementAnalysis{}, fmt.Errorf("analyze requirement: %w", err)
	}

	var analysis driving.RequirementAnalysis
	if err := json.Unmarshal([]byte(extractJSON(raw)), &analysis); err != nil {
		logger.Debug("Unparseable requirement response: %s", raw)
		return driving.RequirementAnalysis{}, fmt.Errorf("parse requirement analysis: %w: %w", domain.ErrInvalidInput, err)
	}
	if analysis.Summary == "" {
		logger.Debug("Requirement response missing summary: %s", raw)
		return driving.RequirementAnalysis{}, fmt.Errorf("parse requirement analysis: missing summary: %w", domain.ErrInvalidInput)
	}

	logger.Info("Requirement analysed: %d technologies suggested", len(analysis.TechStack))
	return analysis, nil
}

// GeneratePlan turns a requirement and tech stack into a file plan.
func (s *Assistant) GeneratePlan(ctx context.Context, requirement string, techStack map[string]string) (driving.ProjectPlan, error) {
	if strings.TrimSpace(requirement) == "" {
		return driving.ProjectPlan{}, fmt.Errorf("generate plan: empty requirement: %w", domain.ErrInvalidInput)
	}

	logger.Section("Project Planning")
	prompt := fmt.Sprintf(s.template(driven.PromptProjectPlan, fallbackPlanPrompt),
		requirement, renderTechStack(techStack))
	raw, err := s.generate(ctx, prompt)
	if err != nil {
		return driving.ProjectPlan{}, fmt.Errorf("generate plan: %w", err)
	}

	var plan driving.ProjectPlan
	if err := json.Unmarshal([]byte(extractJSON(raw)), &plan); err != nil {
		logger.Debug("Unparseable plan response: %s", raw)
		return driving.ProjectPlan{}, fmt.Errorf("parse project plan: %w: %w", domain.ErrInvalidInput, err)
	}
	if len(plan.Files) == 0 {
		logger.Debug("Plan response contained no files: %s", raw)
		return driving.ProjectPlan{}, fmt.Errorf("parse project plan: no files planned: %w", domain.ErrInvalidInput)
	}

	logger.Info("Plan generated: %d files", len(plan.Files))
	return plan, nil
}

// CreateProject generates every file of the plan under outputDir.
// Files are generated in path order so failures are reproducible.
func (s *Assistant) CreateProject(ctx context.Context, plan driving.ProjectPlan, outputDir string) error {
	if len(plan.Files) == 0 {
		return fmt.Errorf("create project: empty plan: %w", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(outputDir) == "" {
		return fmt.Errorf("create project: missing output directory: %w", domain.ErrInvalidInput)
	}

	logger.Section("Project Generation")

	paths := make([]string, 0, len(plan.Files))
	for path := range plan.Files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	// Reject bad paths before any generation happens.
	for _, path := range paths {
		if _, err := files.SafeJoin(outputDir, path); err != nil {
			return fmt.Errorf("plan path %s: %w", path, err)
		}
	}

	template := s.template(driven.PromptFileContent, fallbackFileContentPrompt)
	for _, path := range paths {
		logger.Info("Generating %s", path)

		prompt := fmt.Sprintf(template, path, plan.Files[path])
		content, err := s.generate(ctx, prompt)
		if err != nil {
			return fmt.Errorf("generate %s: %w", path, err)
		}

		written, err := files.WriteUnder(outputDir, path, []byte(content+"\n"))
		if err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		logger.Debug("Wrote %s (%d bytes)", written, len(content)+1)
	}

	logger.Info("Project created: %d files under %s", len(paths), outputDir)
	return nil
}

// AnalyzeRow analyses one dataset row, repeating the prompt for the
// given number of iterations and joining the results.
func (s *Assistant) AnalyzeRow(ctx context.Context, row domain.DatasetRow, iterations int) (string, error) {
	if len(row) == 0 {
		return "", fmt.Errorf("analyze row: empty row: %w", domain.ErrInvalidInput)
	}

	if iterations < 1 {
		iterations = 1
	}
	if iterations > maxAnalyzeIterations {
		logger.Debug("Clamping iterations from %d to %d", iterations, maxAnalyzeIterations)
		iterations = maxAnalyzeIterations
	}

	prompt := fmt.Sprintf(s.template(driven.PromptAnalyzeRow, fallbackAnalyzeRowPrompt), renderRow(row))

	parts := make([]string, 0, iterations)
	for i := 0; i < iterations; i++ {
		text, err := s.generate(ctx, prompt)
		if err != nil {
			return "", fmt.Errorf("analyze row (iteration %d): %w", i+1, err)
		}
		parts = append(parts, text)
	}

	return strings.Join(parts, "\n\n"), nil
}

// renderRow formats a dataset row as sorted "column: value" lines.
func renderRow(row domain.DatasetRow) string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %v", k, row[k]))
	}
	return strings.Join(lines, "\n")
}

// renderTechStack formats a tech stack as sorted "concern: technology"
// lines.
func renderTechStack(stack map[string]string) string {
	if len(stack) == 0 {
		return "unspecified"
	}
	keys := make([]string, 0, len(stack))
	for k := range stack {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %s", k, stack[k]))
	}
	return strings.Join(lines, "\n")
}

// extractJSON cuts the response down to its outermost JSON object, so
// models that wrap JSON in prose or fences still parse.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}
