package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/designrail/internal/harness"
	"github.com/roach88/designrail/internal/schema"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Rejected request (invalid card, failed generation, scenarios failed, etc.)
	ExitCommandError = 2 // Command error (bad config, database unavailable, unreadable file, etc.)
)

// Error codes reported in CLI output.
const (
	ErrCodeGeneric         = "E001" // Generic/unknown error
	ErrCodeConfig          = "E002" // Configuration could not be loaded
	ErrCodeStore           = "E003" // Database could not be opened or read
	ErrCodeCardFile        = "E004" // Card file unreadable or not a card
	ErrCodeNotFound        = "E005" // Decision or path not found
	ErrCodeValidation      = "E006" // Card failed its schema
	ErrCodeGeneration      = "E007" // Generator failed
	ErrCodeInput           = "E008" // Bad interaction input
	ErrCodeMalformedForest = "E009" // Dangling or cyclic parent
	ErrCodeDuplicate       = "E010" // Decision id already taken
	ErrCodeInvariant       = "E011" // Card violates a structural invariant
)

var classCodes = map[string]string{
	harness.ErrClassValidation:      ErrCodeValidation,
	harness.ErrClassGeneration:      ErrCodeGeneration,
	harness.ErrClassInput:           ErrCodeInput,
	harness.ErrClassNotFound:        ErrCodeNotFound,
	harness.ErrClassMalformedForest: ErrCodeMalformedForest,
	harness.ErrClassDuplicate:       ErrCodeDuplicate,
	harness.ErrClassInvariant:       ErrCodeInvariant,
}

// ErrorCode returns the CLI error code for an error from the session.
func ErrorCode(err error) string {
	if code, ok := classCodes[harness.ErrorClass(err)]; ok {
		return code
	}
	return ErrCodeGeneric
}

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E002", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// IsJSON reports whether output is JSON.
func (f *OutputFormatter) IsJSON() bool {
	return f.Format == "json"
}

// Success outputs a successful result in the configured format.
// In text mode data is printed with fmt; commands with richer text output
// write it themselves and call Success only for JSON.
func (f *OutputFormatter) Success(data any) error {
	if f.IsJSON() {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.IsJSON() {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "%s [%s]: %s\n", errorLabel.Sprint("Error"), code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail reports err and returns the ExitError the command should return.
// Schema failures carry their issues as details.
func (f *OutputFormatter) Fail(exitCode int, code string, err error) error {
	var details any
	var ve *schema.ValidationError
	if errors.As(err, &ve) {
		details = ve.Issues
	}
	if outErr := f.Error(code, err.Error(), details); outErr != nil {
		return outErr
	}
	return WrapExitError(exitCode, code, err)
}

// FailSession reports an error returned by the session. Rejected requests
// exit with ExitFailure; unclassified errors are command errors.
func (f *OutputFormatter) FailSession(err error) error {
	code := ErrorCode(err)
	exit := ExitFailure
	if code == ErrCodeGeneric {
		exit = ExitCommandError
	}
	return f.Fail(exit, code, err)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
