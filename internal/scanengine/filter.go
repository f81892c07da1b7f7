package scanengine

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/joe/png-scan/pkg/pathutil"
)

// FileFilter decides whether a file found by the walk gets checked.
type FileFilter interface {
	// ShouldInclude reports whether the file at relativePath (below the
	// scan root, '/' separated) should be checked.
	ShouldInclude(relativePath string) bool
}

// ExcludeFilter drops files whose relative path matches a glob.
type ExcludeFilter struct {
	normalizedPattern string
	isEmpty           bool
}

// NewExcludeFilter creates an ExcludeFilter. An empty pattern excludes nothing.
func NewExcludeFilter(pattern string) *ExcludeFilter {
	return &ExcludeFilter{
		normalizedPattern: strings.ToLower(pattern),
		isEmpty:           pattern == "",
	}
}

// ShouldInclude matches case-insensitively with doublestar ("**" crosses
// directories). Invalid patterns exclude nothing.
func (f *ExcludeFilter) ShouldInclude(relativePath string) bool {
	if f.isEmpty {
		return true
	}

	matched, err := doublestar.Match(f.normalizedPattern, strings.ToLower(relativePath))
	if err != nil {
		return true
	}

	return !matched
}

// relativePath returns path below root with '/' separators. Paths found
// under a "." root are already relative.
func relativePath(syntax pathutil.Syntax, root, path string) string {
	root = syntax.StripTrailingSeparators(root)

	rel := path
	if root != pathutil.CurrentDirectory {
		if rest, ok := strings.CutPrefix(path, root); ok &&
			(rest == "" || syntax.IsSeparator(rest[0]) || syntax.IsSeparator(root[len(root)-1])) {
			rel = rest
		}
	}

	for rel != "" && syntax.IsSeparator(rel[0]) {
		rel = rel[1:]
	}

	if syntax.Separator() != '/' {
		rel = strings.ReplaceAll(rel, string(syntax.Separator()), "/")
	}

	return rel
}
