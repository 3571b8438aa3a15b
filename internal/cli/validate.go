package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/designrail/internal/card"
	"github.com/roach88/designrail/internal/schema"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Kind string
}

// FileValidation is the outcome for one card file.
type FileValidation struct {
	File   string         `json:"file"`
	Valid  bool           `json:"valid"`
	Kind   card.Kind      `json:"kind,omitempty"`
	Title  string         `json:"title,omitempty"`
	Errors []schema.Issue `json:"errors,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <card-file>...",
		Short: "Validate card JSON against the card schemas",
		Long: `Validate card JSON files against the CUE card schemas, the same check a
generated card must pass before it is shown.

Without --kind each file may be any generated card kind.

Examples:
  designrail validate mockup.json
  designrail validate --kind lens lens-a.json lens-b.json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind", "", "card kind to validate against (interpret|propose|mockup|lens)")

	return cmd
}

func runValidate(opts *ValidateOptions, files []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	s := schema.Union
	if opts.Kind != "" {
		kind := card.Kind(opts.Kind)
		if !kind.IsValid() {
			return formatter.Fail(ExitCommandError, ErrCodeInput, fmt.Errorf("unknown card kind %q", opts.Kind))
		}
		s = schema.For(kind)
	}

	validator, err := schema.NewValidator()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err)
	}

	result := ValidationResult{Valid: true, Files: make([]FileValidation, 0, len(files))}
	for _, file := range files {
		formatter.VerboseLog("Validating %s against %s", file, s)
		fv, err := validateFile(validator, s, file)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeCardFile, err)
		}
		result.Files = append(result.Files, fv)
		if !fv.Valid {
			result.Valid = false
		}
	}

	if result.Valid {
		if formatter.IsJSON() {
			return formatter.Success(result)
		}
		for _, fv := range result.Files {
			fmt.Fprintf(formatter.Writer, "%s %s: %s %q\n", okLabel.Sprint("✓"), fv.File, fv.Kind, fv.Title)
		}
		return nil
	}
	return outputValidationErrors(formatter, result)
}

func validateFile(v *schema.Validator, s schema.Schema, file string) (FileValidation, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return FileValidation{}, fmt.Errorf("read card file: %w", err)
	}

	c, err := v.Validate(s, data)
	if err != nil {
		var ve *schema.ValidationError
		if !errors.As(err, &ve) {
			return FileValidation{}, fmt.Errorf("%s: %w", file, err)
		}
		return FileValidation{File: file, Valid: false, Errors: ve.Issues}, nil
	}
	return FileValidation{File: file, Valid: true, Kind: c.Kind(), Title: c.Meta().Title}, nil
}

func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	var first FileValidation
	invalid := 0
	for _, fv := range result.Files {
		if !fv.Valid {
			if invalid == 0 {
				first = fv
			}
			invalid++
		}
	}

	if formatter.IsJSON() {
		message := first.File
		if len(first.Errors) > 0 {
			message = fmt.Sprintf("%s: %s", first.File, first.Errors[0].Message)
		}
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    ErrCodeValidation,
				Message: message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed for %d file(s)", invalid))
	}

	for _, fv := range result.Files {
		if fv.Valid {
			fmt.Fprintf(formatter.Writer, "%s %s\n", okLabel.Sprint("✓"), fv.File)
			continue
		}
		fmt.Fprintf(formatter.Writer, "%s %s\n", failLabel.Sprint("✗"), fv.File)
		for _, issue := range fv.Errors {
			if issue.Line > 0 {
				fmt.Fprintf(formatter.Writer, "  line %d\n", issue.Line)
			}
			fmt.Fprintf(formatter.Writer, "  %s\n", issue)
		}
	}

	// Validation failures = exit code 1 (test/validation failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed for %d file(s)", invalid))
}
