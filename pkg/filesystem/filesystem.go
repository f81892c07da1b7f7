// Package filesystem provides the directory-listing primitives consumed by the
// enumerator, with backends for the local OS, go-billy filesystems and SFTP.
package filesystem

import (
	"io"
	"io/fs"
	"time"

	"github.com/joe/png-scan/pkg/pathutil"
)

// Exported constants.
const (
	// MatchAll is the listing pattern that matches every name.
	MatchAll = "*"
)

// Cursor is an open listing of one directory.
type Cursor interface {
	// Next returns the next entry, or (Entry{}, false) once the listing is exhausted.
	Next() (Entry, bool)

	// Close releases the listing. It is safe to call more than once.
	Close() error
}

// Entry is a snapshot of one directory entry.
type Entry struct {
	Name    string
	Size    int64
	Mode    fs.FileMode
	ModTime time.Time
	IsDir   bool

	// DescentOnly marks a directory whose name did not match the listing
	// pattern. It is produced so callers can recurse into it, not to be reported.
	DescentOnly bool
}

// File is a file opened for reading.
type File interface {
	io.Reader
	io.Closer
}

// FileSystem is the set of operations the scanner needs from a storage backend.
type FileSystem interface {
	// OpenListing starts listing dir. Entries are narrowed to pattern (see
	// Entry.DescentOnly); MatchAll lists everything.
	OpenListing(dir, pattern string) (Cursor, error)

	// IsReparsePoint reports whether path is a link-like redirection that
	// must not be descended into. Paths that cannot be inspected count as one.
	IsReparsePoint(path string) bool

	Open(path string) (File, error)
	Stat(path string) (Entry, error)

	// Syntax returns the path syntax used by the backend.
	Syntax() pathutil.Syntax
}

// entryFromInfo converts an fs.FileInfo, naming it name.
func entryFromInfo(name string, info fs.FileInfo) Entry {
	return Entry{
		Name:    name,
		Size:    info.Size(),
		Mode:    info.Mode(),
		ModTime: info.ModTime(),
		IsDir:   info.IsDir(),
	}
}

// dotEntries returns the synthetic "." and ".." entries that open every
// listing. A filesystem root has no parent and gets neither.
func dotEntries(dir string, syntax pathutil.Syntax, info fs.FileInfo) []Entry {
	if isRoot(dir, syntax) {
		return nil
	}

	self := Entry{Name: pathutil.CurrentDirectory, Mode: fs.ModeDir, IsDir: true}
	if info != nil {
		self.ModTime = info.ModTime()
	}

	parent := self
	parent.Name = pathutil.ParentDirectory

	return []Entry{self, parent}
}

// isRoot reports whether dir names a filesystem root ("/", "C:\", "C:").
func isRoot(dir string, syntax pathutil.Syntax) bool {
	stripped := syntax.StripTrailingSeparators(dir)
	if stripped == "" {
		return false
	}

	if letter, ok := syntax.FindDriveLetter(stripped); ok {
		rest := stripped[letter+1:]

		return rest == "" || (len(rest) == 1 && syntax.IsSeparator(rest[0]))
	}

	for i := range len(stripped) {
		if !syntax.IsSeparator(stripped[i]) {
			return false
		}
	}

	return true
}

// narrow applies the listing pattern to an entry. It reports whether the entry
// is produced at all; non-matching directories are kept as descent-only.
func narrow(entry Entry, pattern string) (Entry, bool) {
	if MatchPattern(pattern, entry.Name) {
		return entry, true
	}

	if entry.IsDir {
		entry.DescentOnly = true

		return entry, true
	}

	return Entry{}, false
}
