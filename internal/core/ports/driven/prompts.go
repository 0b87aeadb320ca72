package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Returns the prompt content and any error encountered.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptAnswer grounds a generation call in retrieved context.
	// The template expects %s (context block) and %s (question) placeholders.
	PromptAnswer = "answer"

	// PromptExplainCode asks the model to explain source code.
	// The template expects a %s placeholder for the code.
	PromptExplainCode = "explain_code"

	// PromptAnalyzeRow asks the model to analyse one dataset row.
	// The template expects a %s placeholder for the rendered row.
	PromptAnalyzeRow = "analyze_row"

	// PromptRequirement asks the model to analyse a project requirement
	// and suggest a technology stack as JSON.
	// The template expects a %s placeholder for the requirement.
	PromptRequirement = "requirement"

	// PromptProjectPlan asks the model for a project plan as JSON.
	// The template expects %s (requirement) and %s (tech stack) placeholders.
	PromptProjectPlan = "project_plan"

	// PromptFileContent asks the model to generate one file of a plan.
	// The template expects %s (path) and %s (description) placeholders.
	PromptFileContent = "file_content"
)

// PromptStoreAware is an optional interface for services that can use custom prompts.
// Services implementing this interface can have their prompt templates customised
// by injecting a PromptStore after construction.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service should use hardcoded default prompts.
	SetPromptStore(store PromptStore)
}
