package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lore-cli/internal/core/ports/driving"
	"github.com/custodia-labs/lore-cli/internal/files"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyse a source file with the generation model",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

var explainCmd = &cobra.Command{
	Use:   "explain [file]",
	Short: "Explain the code in a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runExplain,
}

var generateOutput string

var generateCmd = &cobra.Command{
	Use:   "generate [prompt]",
	Short: "Generate code from a prompt",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}

var projectOutput string

var projectCmd = &cobra.Command{
	Use:   "project [requirement]",
	Short: "Plan and generate a project tree",
	Long: `Analyses the requirement, proposes a tech stack and a file-level plan,
then generates every planned file under the output directory. Each step
asks for confirmation; corrections are folded back into the requirement
and the step is repeated.`,
	Args: cobra.ExactArgs(1),
	RunE: runProject,
}

func init() {
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "write the generated code to this file")
	projectCmd.Flags().StringVarP(&projectOutput, "output", "o", ".", "output directory for the generated project")
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(projectCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	assistant, err := ensureAssistant(cmd)
	if err != nil {
		return err
	}

	content, err := files.ReadText(args[0])
	if err != nil {
		return err
	}

	analysis, err := assistant.ExplainCode(context.Background(), content)
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	cmd.Printf("Analysis of %s:\n", args[0])
	cmd.Println(analysis)
	return nil
}

func runExplain(cmd *cobra.Command, args []string) error {
	assistant, err := ensureAssistant(cmd)
	if err != nil {
		return err
	}

	content, err := files.ReadText(args[0])
	if err != nil {
		return err
	}

	explanation, err := assistant.ExplainCode(context.Background(), content)
	if err != nil {
		return fmt.Errorf("explain failed: %w", err)
	}

	cmd.Printf("Explanation of %s:\n", args[0])
	cmd.Println(explanation)
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	assistant, err := ensureAssistant(cmd)
	if err != nil {
		return err
	}

	code, err := assistant.GenerateCode(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("generate failed: %w", err)
	}

	if generateOutput != "" {
		if err := os.WriteFile(generateOutput, []byte(code+"\n"), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", generateOutput, err)
		}
		cmd.Printf("Generated code written to %s\n", generateOutput)
		return nil
	}

	cmd.Println("Generated code:")
	cmd.Println(code)
	return nil
}

func runProject(cmd *cobra.Command, args []string) error {
	assistant, err := ensureAssistant(cmd)
	if err != nil {
		return err
	}

	ctx := context.Background()
	reader := bufio.NewReader(cmd.InOrStdin())
	requirement := args[0]

	// Step 1: agree on what is being built.
	var analysis driving.RequirementAnalysis
	for {
		analysis, err = assistant.AnalyzeRequirement(ctx, requirement)
		if err != nil {
			return fmt.Errorf("analyze requirement: %w", err)
		}

		cmd.Printf("Understood requirement: %s\n", analysis.Summary)
		cmd.Printf("Suggested tech stack: %s\n", formatTechStack(analysis.TechStack))
		if confirm(cmd, reader, "Is this understanding correct?") {
			break
		}
		cmd.Print("Please provide more details or corrections: ")
		requirement = readLine(reader)
	}

	// Step 2: agree on the file plan.
	var plan driving.ProjectPlan
	for {
		plan, err = assistant.GeneratePlan(ctx, requirement, analysis.TechStack)
		if err != nil {
			return fmt.Errorf("generate plan: %w", err)
		}

		cmd.Println("Proposed project structure:")
		for _, path := range sortedPlanPaths(plan) {
			cmd.Printf("  %s\n", path)
		}
		if confirm(cmd, reader, "Is this project structure acceptable?") {
			break
		}
		cmd.Print("Please provide feedback on the project structure: ")
		requirement += "\n\nAdditional feedback: " + readLine(reader)
	}

	// Step 3: generate every file.
	if err := assistant.CreateProject(ctx, plan, projectOutput); err != nil {
		return fmt.Errorf("create project: %w", err)
	}

	cmd.Printf("Project generated successfully in %s\n", projectOutput)
	return nil
}

// confirm prompts with a yes default; empty input counts as yes.
func confirm(cmd *cobra.Command, reader *bufio.Reader, prompt string) bool {
	cmd.Printf("%s [Y/n]: ", prompt)
	answer := strings.ToLower(readLine(reader))
	return answer == "" || answer == "y" || answer == "yes"
}

func formatTechStack(stack map[string]string) string {
	concerns := make([]string, 0, len(stack))
	for concern := range stack {
		concerns = append(concerns, concern)
	}
	sort.Strings(concerns)

	pairs := make([]string, len(concerns))
	for i, concern := range concerns {
		pairs[i] = fmt.Sprintf("%s: %s", concern, stack[concern])
	}
	return strings.Join(pairs, ", ")
}

func sortedPlanPaths(plan driving.ProjectPlan) []string {
	paths := make([]string, 0, len(plan.Files))
	for path := range plan.Files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
