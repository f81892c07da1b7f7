package enumerator

import (
	"fmt"
	"strings"
)

// FileType selects which kinds of entries an enumerator returns.
type FileType int

// File type flags; combine with |.
const (
	Files FileType = 1 << iota
	Directories
	// IncludeDotDot also returns the ".." entry of each listed directory.
	IncludeDotDot
)

// DefaultFileType returns files and directories, without "..".
const DefaultFileType = Files | Directories

// String renders the set flags joined by commas.
func (t FileType) String() string {
	var names []string

	if t&Files != 0 {
		names = append(names, "files")
	}

	if t&Directories != 0 {
		names = append(names, "dirs")
	}

	if t&IncludeDotDot != 0 {
		names = append(names, "dotdot")
	}

	if len(names) == 0 {
		return "none"
	}

	return strings.Join(names, ",")
}

// ParseFileType parses a comma separated list of files, dirs, all and dotdot.
func ParseFileType(s string) (FileType, error) {
	var t FileType

	for _, part := range strings.Split(strings.ToLower(s), ",") {
		switch strings.TrimSpace(part) {
		case "files", "file", "f":
			t |= Files
		case "dirs", "dir", "directories", "d":
			t |= Directories
		case "all", "both":
			t |= Files | Directories
		case "dotdot", "..":
			t |= IncludeDotDot
		default:
			return 0, fmt.Errorf("invalid file type: %q (valid: files, dirs, all, dotdot)", part) //nolint:err113 // Validation error with the offending value
		}
	}

	return t, nil
}

// UnmarshalText implements encoding.TextUnmarshaler for go-arg.
func (t *FileType) UnmarshalText(text []byte) error {
	parsed, err := ParseFileType(string(text))
	if err != nil {
		return err
	}

	*t = parsed

	return nil
}

// SearchPolicy decides where the name pattern is applied.
type SearchPolicy int

const (
	// MatchOnly lets the listing primitive filter by the pattern. Only the
	// first listing is narrowed; once it ends, later listings are unfiltered.
	MatchOnly SearchPolicy = iota
	// All lists everything and applies the pattern to every entry in-process.
	All
)

// String returns the string representation of SearchPolicy.
func (p SearchPolicy) String() string {
	switch p {
	case MatchOnly:
		return "match-only"
	case All:
		return "all"
	default:
		return "unknown"
	}
}

// ParseSearchPolicy parses a string into a SearchPolicy.
func ParseSearchPolicy(s string) (SearchPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "match-only", "matchonly", "match":
		return MatchOnly, nil
	case "all":
		return All, nil
	default:
		return MatchOnly, fmt.Errorf("invalid search policy: %s (valid: match-only, all)", s) //nolint:err113 // Validation error with the offending value
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for go-arg.
func (p *SearchPolicy) UnmarshalText(text []byte) error {
	parsed, err := ParseSearchPolicy(string(text))
	if err != nil {
		return err
	}

	*p = parsed

	return nil
}

// Option configures a FileEnumerator.
type Option func(*FileEnumerator)

// WithOpenErrorHandler registers a callback for directories that could not be
// listed. Those directories are still treated as empty.
func WithOpenErrorHandler(handler func(dir string, err error)) Option {
	return func(e *FileEnumerator) {
		e.onOpenError = handler
	}
}

// WithPattern sets the name pattern. An empty pattern matches everything.
func WithPattern(pattern string) Option {
	return func(e *FileEnumerator) {
		if pattern != "" {
			e.pattern = pattern
		}
	}
}

// WithPolicy sets the search policy.
func WithPolicy(policy SearchPolicy) Option {
	return func(e *FileEnumerator) {
		e.policy = policy
	}
}
