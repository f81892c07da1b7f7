// Package pathutil provides lexical helpers for platform path strings:
// separator classification, drive-letter detection, trailing-separator
// stripping, base-name extraction and component appending.
//
// None of the functions touch the filesystem. Package-level functions use the
// syntax of the running OS; Windows and POSIX expose the same operations for
// an explicit syntax (remote SFTP paths are always POSIX).
package pathutil

import (
	"runtime"
	"strings"
)

// Exported constants.
const (
	// CurrentDirectory is the current-directory marker.
	CurrentDirectory = "."
	// ParentDirectory is the parent-directory marker.
	ParentDirectory = ".."
)

// Exported variables.
var (
	// Windows recognises both slashes and drive letters; it joins with a backslash.
	Windows = Syntax{separators: `\/`, driveLetters: true}
	// POSIX recognises only the forward slash.
	POSIX = Syntax{separators: "/"}
	// Native is the syntax of the running OS.
	Native = nativeSyntax(runtime.GOOS)
)

// Syntax describes how one platform spells paths.
type Syntax struct {
	// separators lists every separator character; the first one is used when joining.
	separators   string
	driveLetters bool
}

// Append joins component onto base. See Syntax.Append.
func Append(base, component string) string { return Native.Append(base, component) }

// BaseName returns the final component of path. See Syntax.BaseName.
func BaseName(path string) string { return Native.BaseName(path) }

// FindDriveLetter reports the index of the colon of a leading drive prefix.
func FindDriveLetter(path string) (int, bool) { return Native.FindDriveLetter(path) }

// IsSeparator reports whether c separates path components on this OS.
func IsSeparator(c byte) bool { return Native.IsSeparator(c) }

// StripTrailingSeparators removes redundant trailing separators. See Syntax.StripTrailingSeparators.
func StripTrailingSeparators(path string) string { return Native.StripTrailingSeparators(path) }

// Append joins component onto base with exactly one separator.
//
// component is truncated at its first NUL byte. Appending to "." yields the
// component alone. An empty component leaves base (stripped) unchanged, and no
// separator is added after a root or after a bare drive prefix such as "C:".
func (s Syntax) Append(base, component string) string {
	if idx := strings.IndexByte(component, 0); idx >= 0 {
		component = component[:idx]
	}

	if base == CurrentDirectory && component != "" {
		return component
	}

	joined := s.StripTrailingSeparators(base)

	if component != "" && joined != "" && !s.IsSeparator(joined[len(joined)-1]) {
		letter, ok := s.FindDriveLetter(joined)
		if !ok || letter+1 != len(joined) {
			joined += string(s.separators[0])
		}
	}

	return joined + component
}

// BaseName returns the part of path after the last separator, once trailing
// separators and any drive prefix are removed. A path that is a single
// separator is returned as is.
func (s Syntax) BaseName(path string) string {
	name := s.StripTrailingSeparators(path)

	if letter, ok := s.FindDriveLetter(name); ok {
		name = name[letter+1:]
	}

	last := strings.LastIndexAny(name, s.separators)
	if last >= 0 && last < len(name)-1 {
		name = name[last+1:]
	}

	return name
}

// FindDriveLetter returns the index of the colon when path starts with an
// ASCII letter followed by ':'. It never reports a drive under a syntax
// without drive letters.
func (s Syntax) FindDriveLetter(path string) (int, bool) {
	if !s.driveLetters || len(path) < 2 || path[1] != ':' {
		return 0, false
	}

	c := path[0]
	if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
		return 1, true
	}

	return 0, false
}

// IsSeparator reports whether c is one of the syntax's separators.
func (s Syntax) IsSeparator(c byte) bool {
	return strings.IndexByte(s.separators, c) >= 0
}

// Separator returns the separator used when joining components.
func (s Syntax) Separator() byte {
	return s.separators[0]
}

// StripTrailingSeparators removes trailing separators from path.
//
// It never strips the separator that directly follows a drive prefix ("C:\"
// stays), never strips a lone leading separator ("/" stays), and keeps a
// leading pair of separators ("//" stays) unless the path began with more
// than two. The result is a fixed point: stripping it again changes nothing.
func (s Syntax) StripTrailingSeparators(path string) string {
	// start is one past the first character that may never be stripped.
	start := 1
	if letter, ok := s.FindDriveLetter(path); ok {
		start = letter + 2
	}

	lastStripped := -1
	for pos := len(path); pos > start && s.IsSeparator(path[pos-1]); pos-- {
		if pos != start+1 || lastStripped == start+2 || !s.IsSeparator(path[start-1]) {
			path = path[:pos-1]
			lastStripped = pos
		}
	}

	return path
}

func nativeSyntax(goos string) Syntax {
	if goos == "windows" {
		return Windows
	}

	return POSIX
}
