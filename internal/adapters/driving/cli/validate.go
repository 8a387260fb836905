package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/stylo-cli/internal/core/domain"
)

var validateJSON bool

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check new text against the codified style",
	Long: `Evaluates every rule in the current style spec against the given file,
or stdin when no file is named, and reports the score with each
violation's location and suggested fix.

Exits non-zero when the text fails the style gate.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var (
		text []byte
		err  error
	)
	if len(args) == 1 {
		text, err = os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
	} else {
		text, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
	}

	spec, err := store.SpecStore().LoadSpec(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w; run 'stylo codify' first", domain.ErrSpecUnavailable)
	}
	if err != nil {
		return fmt.Errorf("load spec: %w", err)
	}

	result, err := validateService.Validate(ctx, string(text), spec)
	if err != nil {
		return fmt.Errorf("validate failed: %w", err)
	}

	if validateJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
	} else {
		printValidationResult(cmd, result)
	}

	if !result.Passed {
		return fmt.Errorf("style check failed with score %d", result.Score)
	}
	return nil
}

func printValidationResult(cmd *cobra.Command, result *domain.ValidationResult) {
	status := "PASS"
	if !result.Passed {
		status = "FAIL"
	}
	cmd.Printf("%s  score %d/100  (%d major, %d minor)\n",
		status, result.Score, result.Summary.MajorViolations, result.Summary.MinorViolations)

	for _, v := range result.Violations {
		location := ""
		if v.Line > 0 {
			location = fmt.Sprintf(" (line %d)", v.Line)
		}
		cmd.Printf("  [%s] %s%s: %s\n", v.Severity, v.RuleID, location, v.Message)
		if v.Suggestion != "" {
			cmd.Printf("        suggestion: %s\n", v.Suggestion)
		}
	}
}
