package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/unmake/internal/schema"
)

// ValidationIssue is one schema violation in a scenario file.
type ValidationIssue struct {
	File    string `json:"file"`
	Message string `json:"message"`
}

// ValidationResult holds validation results for a directory.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Files  int               `json:"files"`
	Issues []ValidationIssue `json:"issues,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenarios-dir>",
		Short: "Validate scenario files against the schema",
		Long: `Validate scenario YAML files against the embedded CUE schema.

Catches malformed scenarios (unknown assertion types, steps with no
action, empty object ids) without executing them. Faster feedback than
running the full conformance suite.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, scenariosDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	files, err := findScenarioFiles(scenariosDir, "")
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list scenarios", err)
	}
	if len(files) == 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("no scenario files found in %s", scenariosDir))
	}

	result := ValidationResult{Valid: true, Files: len(files)}
	for _, file := range files {
		formatter.VerboseLog("validating %s", file)

		data, err := os.ReadFile(file)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to read %s", file), err)
		}

		if err := schema.ValidateScenario(file, data); err != nil {
			var schemaErr *schema.SchemaError
			if errors.As(err, &schemaErr) {
				result.Issues = append(result.Issues, ValidationIssue{
					File:    schemaErr.File,
					Message: schemaErr.Message,
				})
				result.Valid = false
				continue
			}
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to validate %s", file), err)
		}
	}

	if opts.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		printValidationResult(formatter, result)
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario file(s) failed validation", len(result.Issues)))
	}
	return nil
}

func printValidationResult(f *OutputFormatter, r ValidationResult) {
	if r.Valid {
		fmt.Fprintf(f.Writer, "OK: %d scenario file(s) valid\n", r.Files)
		return
	}
	for _, issue := range r.Issues {
		fmt.Fprintf(f.Writer, "INVALID %s\n%s\n", issue.File, issue.Message)
	}
}
