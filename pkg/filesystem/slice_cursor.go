package filesystem

import (
	"io/fs"

	"github.com/joe/png-scan/pkg/pathutil"
)

// statFunc stats a path following links.
type statFunc func(path string) (fs.FileInfo, error)

// sliceCursor walks a listing that the backend returned in one piece.
type sliceCursor struct {
	pattern string
	entries []Entry
	closed  bool
}

// newSliceCursor builds a cursor over infos, the raw contents of dir. Symbolic
// links are resolved with stat so that linked directories look like directories.
func newSliceCursor(
	dir string,
	syntax pathutil.Syntax,
	dirInfo fs.FileInfo,
	infos []fs.FileInfo,
	stat statFunc,
	pattern string,
) *sliceCursor {
	entries := dotEntries(dir, syntax, dirInfo)

	for _, info := range infos {
		entry := entryFromInfo(info.Name(), info)

		if info.Mode()&fs.ModeSymlink != 0 && stat != nil {
			target, err := stat(syntax.Append(dir, info.Name()))
			if err == nil {
				entry.IsDir = target.IsDir()
				entry.Size = target.Size()
			}
		}

		entries = append(entries, entry)
	}

	return &sliceCursor{pattern: pattern, entries: entries}
}

// Close drops the remaining entries.
func (c *sliceCursor) Close() error {
	c.closed = true
	c.entries = nil

	return nil
}

// Next returns the next entry that survives the listing pattern.
func (c *sliceCursor) Next() (Entry, bool) {
	for !c.closed && len(c.entries) > 0 {
		entry := c.entries[0]
		c.entries = c.entries[1:]

		if entry, ok := narrow(entry, c.pattern); ok {
			return entry, true
		}
	}

	return Entry{}, false
}
