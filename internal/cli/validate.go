package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/mpn/internal/scenario"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid      bool              `json:"valid"`
	File       string            `json:"file"`
	Scenario   string            `json:"scenario,omitempty"`
	Actors     int               `json:"actors,omitempty"`
	Frames     int               `json:"frames,omitempty"`
	Assertions int               `json:"assertions,omitempty"`
	Errors     []ValidationIssue `json:"errors,omitempty"`
}

// ValidationIssue is one problem found in a scenario file.
type ValidationIssue struct {
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// RenderText implements TextRenderer.
func (r ValidationResult) RenderText(w io.Writer) {
	if r.Valid {
		fmt.Fprintf(w, "✓ %s: scenario %q is valid (%d actors, %d frames, %d assertions)\n",
			r.File, r.Scenario, r.Actors, r.Frames, r.Assertions)
		return
	}
	fmt.Fprintf(w, "✗ %s\n", r.File)
	for _, issue := range r.Errors {
		if issue.Line > 0 {
			fmt.Fprintf(w, "  line %d:%d: %s\n", issue.Line, issue.Column, issue.Message)
			continue
		}
		fmt.Fprintf(w, "  %s\n", issue.Message)
	}
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario.yaml>",
		Short: "Validate a scenario without running it",
		Long: `Check a scenario file against the scenario schema and cross-reference
rules: trait ranges, unknown keys, duplicate actor IDs, and assertions that
name unknown actors or frames.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if _, err := os.Stat(path); err != nil {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("scenario not found: %s", path), nil)
		return WrapExitError(ExitCommandError, "scenario not found", err)
	}

	formatter.VerboseLog("Validating %s", path)
	s, err := scenario.Load(path)
	if err != nil {
		result := ValidationResult{File: path, Errors: []ValidationIssue{issueFor(err)}}
		if err := formatter.Failure(ErrCodeInvalid, "scenario is invalid", result); err != nil {
			return err
		}
		return WrapExitError(ExitFailure, "scenario is invalid", err)
	}

	return formatter.Success(ValidationResult{
		Valid:      true,
		File:       path,
		Scenario:   s.Name,
		Actors:     len(s.Actors),
		Frames:     len(s.Frames),
		Assertions: len(s.Assertions),
	})
}

// issueFor converts a load error, keeping the document position of schema
// violations.
func issueFor(err error) ValidationIssue {
	var se *scenario.SchemaError
	if errors.As(err, &se) {
		issue := ValidationIssue{Message: se.Message}
		if se.Pos.IsValid() {
			issue.Line = se.Pos.Line()
			issue.Column = se.Pos.Column()
		}
		return issue
	}
	return ValidationIssue{Message: err.Error()}
}
