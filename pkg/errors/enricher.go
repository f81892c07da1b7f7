package errors

import (
	"errors"
	"regexp"
	"strings"
)

// Enricher turns plain errors into ActionableErrors.
type Enricher interface {
	Enrich(err error, affectedPath string) error
}

// NewEnricher creates an Enricher with the default matcher and suggestions.
func NewEnricher() Enricher {
	return &enricher{
		matcher:   NewPatternMatcher(),
		generator: NewSuggestionGenerator(),
	}
}

//nolint:gochecknoglobals // Compiled once and shared by all enrichers
var pathExtractionPatterns = []*regexp.Regexp{
	// "open /a/b.png: ..." and "stat ./x: ..."
	regexp.MustCompile(`\b\w+\s+([./][^\s:]+):`),
	// Windows drive paths with either separator
	regexp.MustCompile(`\b\w+\s+([A-Za-z]:[\\/][^\s:]+):`),
}

type enricher struct {
	matcher   PatternMatcher
	generator SuggestionGenerator
}

// Enrich categorises err and attaches suggestions. ActionableErrors are
// returned unchanged and nil stays nil. An empty affectedPath is filled from
// the message when one can be found.
func (e *enricher) Enrich(err error, affectedPath string) error {
	if err == nil {
		return nil
	}

	var actionableErr ActionableError
	if errors.As(err, &actionableErr) {
		return actionableErr
	}

	errMsg := err.Error()

	if affectedPath == "" {
		affectedPath = extractPath(errMsg)
	}

	category := e.matcher.Match(err)

	return &actionableError{
		cause:         err,
		originalError: errMsg,
		category:      category,
		suggestions:   e.generator.Generate(category, affectedPath),
		affectedPath:  affectedPath,
	}
}

// extractPath finds the path in "op /path: reason" style messages.
func extractPath(errorMsg string) string {
	for _, pattern := range pathExtractionPatterns {
		if matches := pattern.FindStringSubmatch(errorMsg); len(matches) > 1 {
			if path := strings.TrimSpace(matches[1]); path != "" {
				return path
			}
		}
	}

	return ""
}
