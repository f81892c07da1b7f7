// Package enumerator walks directory trees lazily.
//
// A FileEnumerator is a pull-based, single-pass iterator: each call to Next
// advances it to the next matching entry and returns the entry's path, or ""
// once the walk is exhausted. Directories still to be visited are kept on an
// explicit stack, so traversal is depth first and its depth is not bounded by
// the call stack. At most one directory listing is open at a time.
//
// Directories that cannot be listed are treated as empty. Link-like
// directories (symlinks, junctions) are returned like any other entry but are
// never descended into, so a walk always terminates.
//
// A FileEnumerator must not be used from more than one goroutine at a time.
package enumerator

import (
	"io/fs"
	"iter"
	"time"

	"github.com/joe/png-scan/pkg/filesystem"
	"github.com/joe/png-scan/pkg/pathutil"
)

// Lister is what an enumerator needs from a storage backend.
type Lister interface {
	OpenListing(dir, pattern string) (filesystem.Cursor, error)
	IsReparsePoint(path string) bool
	Syntax() pathutil.Syntax
}

var _ Lister = filesystem.FileSystem(nil)

// FileInfo describes the entry most recently returned by Next.
type FileInfo struct {
	Name    string
	Size    int64
	Mode    fs.FileMode
	ModTime time.Time
	IsDir   bool
}

// FileEnumerator walks the tree below a root path.
type FileEnumerator struct {
	lister    Lister
	syntax    pathutil.Syntax
	recursive bool
	fileType  FileType
	pattern   string
	policy    SearchPolicy

	onOpenError func(dir string, err error)

	// pending holds directories still to be listed; the top is scanned next.
	pending []string
	// dir is the directory the open cursor lists.
	dir    string
	cursor filesystem.Cursor
	info   FileInfo
	closed bool
}

// New creates an enumerator rooted at root. Nothing is read until the first
// call to Next. The pattern defaults to "*" and the policy to MatchOnly.
//
// IncludeDotDot is meant for non-recursive walks; ".." entries are returned
// but never descended into.
func New(lister Lister, root string, recursive bool, fileType FileType, opts ...Option) *FileEnumerator {
	e := &FileEnumerator{
		lister:    lister,
		syntax:    lister.Syntax(),
		recursive: recursive,
		fileType:  fileType,
		pattern:   filesystem.MatchAll,
		policy:    MatchOnly,
		pending:   []string{root},
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// All returns the remaining matches as an iterator of path and info pairs.
// Stopping the loop early closes the enumerator.
func (e *FileEnumerator) All() iter.Seq2[string, FileInfo] {
	return func(yield func(string, FileInfo) bool) {
		for path := e.Next(); path != ""; path = e.Next() {
			if !yield(path, e.info) {
				_ = e.Close()

				return
			}
		}
	}
}

// Close releases the open listing, if any, and ends the walk. Subsequent calls
// to Next return "". Close is idempotent.
func (e *FileEnumerator) Close() error {
	e.closed = true
	e.pending = nil
	e.info = FileInfo{}

	if e.cursor == nil {
		return nil
	}

	cursor := e.cursor
	e.cursor = nil

	return cursor.Close() //nolint:wrapcheck // Backend errors already carry the directory
}

// Info describes the entry last returned by Next. It is the zero value before
// the first match and after the walk is exhausted.
func (e *FileEnumerator) Info() FileInfo {
	return e.info
}

// Next returns the path of the next match, or "" when there are none left.
// Once it has returned "", it keeps returning "".
func (e *FileEnumerator) Next() string {
	e.info = FileInfo{}

	for !e.closed && (e.cursor != nil || len(e.pending) > 0) {
		if e.cursor == nil && !e.openNext() {
			continue
		}

		entry, ok := e.cursor.Next()
		if !ok {
			e.finishListing()

			continue
		}

		if e.shouldSkip(entry.Name) {
			continue
		}

		absPath := e.syntax.Append(e.dir, entry.Name)

		if entry.IsDir && e.recursive && !isDotName(entry.Name) && !e.lister.IsReparsePoint(absPath) {
			e.pending = append(e.pending, absPath)
		}

		if entry.DescentOnly || !e.isTypeMatched(entry.IsDir) || !e.isPatternMatched(entry.Name) {
			continue
		}

		e.info = FileInfo{
			Name:    entry.Name,
			Size:    entry.Size,
			Mode:    entry.Mode,
			ModTime: entry.ModTime,
			IsDir:   entry.IsDir,
		}

		return absPath
	}

	return ""
}

// finishListing closes the current cursor. Under MatchOnly, only the first
// listing is narrowed to the pattern: everything opened afterwards lists all
// entries.
func (e *FileEnumerator) finishListing() {
	if e.cursor != nil {
		_ = e.cursor.Close()
		e.cursor = nil
	}

	if e.policy == MatchOnly {
		e.pattern = filesystem.MatchAll
	}
}

func (e *FileEnumerator) isPatternMatched(name string) bool {
	if e.policy == MatchOnly {
		return true
	}

	return filesystem.MatchPattern(e.pattern, name)
}

func (e *FileEnumerator) isTypeMatched(isDir bool) bool {
	if isDir {
		return e.fileType&Directories != 0
	}

	return e.fileType&Files != 0
}

// openNext pops a pending directory and opens a listing on it. It reports
// false when the directory could not be opened.
func (e *FileEnumerator) openNext() bool {
	last := len(e.pending) - 1
	e.dir = e.pending[last]
	e.pending = e.pending[:last]

	cursor, err := e.lister.OpenListing(e.dir, e.searchFilter())
	if err != nil {
		if e.onOpenError != nil {
			e.onOpenError(e.dir, err)
		}

		e.finishListing()

		return false
	}

	e.cursor = cursor

	return true
}

// searchFilter is the pattern handed to the listing primitive.
func (e *FileEnumerator) searchFilter() string {
	if e.policy == MatchOnly {
		return e.pattern
	}

	return filesystem.MatchAll
}

func (e *FileEnumerator) shouldSkip(name string) bool {
	return name == pathutil.CurrentDirectory ||
		(name == pathutil.ParentDirectory && e.fileType&IncludeDotDot == 0)
}

func isDotName(name string) bool {
	return name == pathutil.CurrentDirectory || name == pathutil.ParentDirectory
}
