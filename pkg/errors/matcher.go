package errors

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joe/png-scan/pkg/imaging"
)

// PatternMatcher assigns a category to an error.
type PatternMatcher interface {
	Match(err error) ErrorCategory
}

// NewPatternMatcher creates a PatternMatcher that checks well-known sentinel
// errors first and falls back to message patterns.
func NewPatternMatcher() PatternMatcher {
	return &patternMatcher{
		sentinels: []sentinelRule{
			{fs.ErrPermission, CategoryPermission},
			{fs.ErrNotExist, CategoryPath},
			{imaging.ErrNotPNG, CategoryDecode},
			{imaging.ErrEmptyFile, CategoryRead},
			{imaging.ErrTooLarge, CategoryRead},
		},
		rules: []patternRule{
			{CategoryPermission, []string{"permission denied", "access denied", "operation not permitted"}},
			{CategoryPath, []string{"no such file or directory", "file not found", "not a directory"}},
			{CategoryRemote, []string{
				"ssh:", "sftp", "connection refused", "no route to host",
				"i/o timeout", "handshake failed", "no ssh authentication",
			}},
			{CategoryDecode, []string{"png: invalid format", "png: unsupported feature", "not a png", "failed to decode"}},
			{CategoryRead, []string{"unexpected eof", "input/output error", "i/o error", "failed to read"}},
		},
	}
}

type sentinelRule struct {
	target   error
	category ErrorCategory
}

type patternRule struct {
	category ErrorCategory
	patterns []string
}

// patternMatcher evaluates its rules in order; the first hit wins.
type patternMatcher struct {
	sentinels []sentinelRule
	rules     []patternRule
}

// Match returns the category of err, or CategoryUnknown.
func (m *patternMatcher) Match(err error) ErrorCategory {
	if err == nil {
		return CategoryUnknown
	}

	for _, rule := range m.sentinels {
		if errors.Is(err, rule.target) {
			return rule.category
		}
	}

	lowerMsg := strings.ToLower(err.Error())

	for _, rule := range m.rules {
		for _, pattern := range rule.patterns {
			if strings.Contains(lowerMsg, pattern) {
				return rule.category
			}
		}
	}

	return CategoryUnknown
}
