package driving

import (
	"context"

	"github.com/custodia-labs/lore-cli/internal/core/domain"
)

// AssistantService provides the code assistance operations built on the
// generation provider: explain, analyse, generate, and bulk project
// generation.
type AssistantService interface {
	// ExplainCode asks the model to explain the given source code.
	ExplainCode(ctx context.Context, code string) (string, error)

	// GenerateCode produces code from a free-form prompt, honouring
	// the per-model token and temperature configuration.
	GenerateCode(ctx context.Context, prompt string) (string, error)

	// AnalyzeRequirement analyses a project requirement and returns a
	// summary plus a suggested technology stack.
	AnalyzeRequirement(ctx context.Context, requirement string) (RequirementAnalysis, error)

	// GeneratePlan turns a requirement and tech stack into a file plan.
	GeneratePlan(ctx context.Context, requirement string, techStack map[string]string) (ProjectPlan, error)

	// CreateProject generates every file of a plan under outputDir.
	CreateProject(ctx context.Context, plan ProjectPlan, outputDir string) error

	// AnalyzeRow analyses one dataset row, repeating the prompt for the
	// given number of iterations and joining the results.
	AnalyzeRow(ctx context.Context, row domain.DatasetRow, iterations int) (string, error)
}

// RequirementAnalysis is the model's take on a project requirement.
type RequirementAnalysis struct {
	// Summary restates the requirement.
	Summary string `json:"summary"`

	// TechStack maps concern to suggested technology.
	TechStack map[string]string `json:"tech_stack"`
}

// ProjectPlan maps file paths to one-line descriptions of their content.
type ProjectPlan struct {
	// Files is the planned file set.
	Files map[string]string `json:"files"`
}
