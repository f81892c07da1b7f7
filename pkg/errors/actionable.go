// Package errors turns scan failures into actionable errors: each one carries
// a category and suggestions the user can act on.
//
//	enricher := errors.NewEnricher()
//	if _, err := imaging.DecodeFile(fsys, path, limit); err != nil {
//	    err = enricher.Enrich(err, path)
//	    fmt.Println(err)
//	    fmt.Println(errors.FormatSuggestions(err))
//	}
//
// When no path is given the enricher pulls one out of messages shaped like
// "open /path/file.png: permission denied".
package errors

import "strings"

// Exported constants.
const (
	CategoryDecode     ErrorCategory = "decode"
	CategoryPath       ErrorCategory = "path"
	CategoryPermission ErrorCategory = "permission"
	CategoryRead       ErrorCategory = "read"
	CategoryRemote     ErrorCategory = "remote"
	CategoryUnknown    ErrorCategory = "unknown"
)

// ActionableError is an error with a category and suggestions for the user.
type ActionableError interface {
	error
	OriginalError() string
	Category() ErrorCategory
	Suggestions() []string
	AffectedPath() string
}

// NewActionableError creates an ActionableError from a message.
func NewActionableError(
	originalError string,
	category ErrorCategory,
	suggestions []string,
	affectedPath string,
) ActionableError {
	return &actionableError{
		originalError: originalError,
		category:      category,
		suggestions:   suggestions,
		affectedPath:  affectedPath,
	}
}

// ErrorCategory classifies a failure.
type ErrorCategory string

// FormatSuggestions renders the suggestions of err as an indented bullet list.
// It returns "" for nil, non-actionable errors and errors without suggestions.
func FormatSuggestions(err error) string {
	if err == nil {
		return ""
	}

	actionable, ok := err.(ActionableError)
	if !ok {
		return ""
	}

	var builder strings.Builder

	for i, suggestion := range actionable.Suggestions() {
		if i > 0 {
			builder.WriteString("\n")
		}

		builder.WriteString("  • ")
		builder.WriteString(suggestion)
	}

	return builder.String()
}

type actionableError struct {
	cause         error
	originalError string
	category      ErrorCategory
	suggestions   []string
	affectedPath  string
}

func (e *actionableError) AffectedPath() string { return e.affectedPath }

func (e *actionableError) Category() ErrorCategory { return e.category }

func (e *actionableError) Error() string { return e.originalError }

func (e *actionableError) OriginalError() string { return e.originalError }

func (e *actionableError) Suggestions() []string { return e.suggestions }

// Unwrap returns the enriched error, so errors.Is still sees its sentinels.
func (e *actionableError) Unwrap() error { return e.cause }
