package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Validation error codes (E200-E209).
const (
	ErrInvalidJSON    = "E200" // payload is not a JSON value
	ErrSchemaMismatch = "E201" // payload does not satisfy the CUE definition
	ErrDecode         = "E202" // payload passed the schema but could not be decoded
)

// Issue is a single schema violation.
type Issue struct {
	Code    string `json:"code"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

func (i Issue) String() string {
	if i.Path != "" {
		return fmt.Sprintf("[%s] %s: %s", i.Code, i.Path, i.Message)
	}
	return fmt.Sprintf("[%s] %s", i.Code, i.Message)
}

// ValidationError reports a generated card that failed its schema.
// The card is never appended to the rail; callers may retry with adjusted
// instructions.
type ValidationError struct {
	Schema Schema  `json:"schema"`
	Issues []Issue `json:"issues"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("card failed %s: %s", e.Schema, strings.Join(parts, "; "))
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
