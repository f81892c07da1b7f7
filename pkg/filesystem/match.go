package filesystem

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// patternListSeparator separates alternatives in a pattern ("*.png;*.apng").
const patternListSeparator = ";"

// MatchPattern reports whether name matches pattern.
//
// Matching is case-insensitive. An empty pattern, "*" and "*.*" match every
// name. A pattern may list alternatives separated by ';'. Invalid patterns
// match nothing.
func MatchPattern(pattern, name string) bool {
	if matchesEverything(pattern) {
		return true
	}

	lowerName := strings.ToLower(name)

	for _, alt := range strings.Split(pattern, patternListSeparator) {
		alt = strings.TrimSpace(alt)
		if alt == "" {
			continue
		}

		if matchesEverything(alt) {
			return true
		}

		matched, err := doublestar.Match(strings.ToLower(alt), lowerName)
		if err == nil && matched {
			return true
		}
	}

	return false
}

// ValidatePattern returns an error when any alternative of pattern is malformed.
func ValidatePattern(pattern string) error {
	for _, alt := range strings.Split(pattern, patternListSeparator) {
		alt = strings.TrimSpace(alt)
		if alt == "" || matchesEverything(alt) {
			continue
		}

		if !doublestar.ValidatePattern(alt) {
			return fmt.Errorf("invalid pattern %q", alt) //nolint:err113 // Pattern validation error with the offending pattern
		}
	}

	return nil
}

func matchesEverything(pattern string) bool {
	return pattern == "" || pattern == MatchAll || pattern == "*.*"
}
