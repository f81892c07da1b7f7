package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joe/png-scan/pkg/pathutil"
)

// readDirBatch is how many entries are fetched from the OS per read.
const readDirBatch = 64

// errNotDirectory is returned when a listing is opened on something else.
var errNotDirectory = errors.New("not a directory")

// realCursor streams one local directory in batches.
type realCursor struct {
	dir     string
	pattern string
	file    *os.File
	pending []Entry
}

// newRealCursor opens dir for listing.
func newRealCursor(dir, pattern string) (*realCursor, error) {
	file, err := os.Open(dir) // #nosec G304 - dir comes from the enumerator
	if err != nil {
		return nil, fmt.Errorf("failed to open directory %s: %w", dir, err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()

		return nil, fmt.Errorf("failed to stat directory %s: %w", dir, err)
	}

	if !info.IsDir() {
		_ = file.Close()

		return nil, fmt.Errorf("failed to list %s: %w", dir, errNotDirectory)
	}

	return &realCursor{
		dir:     dir,
		pattern: pattern,
		file:    file,
		pending: dotEntries(dir, pathutil.Native, info),
	}, nil
}

// Close releases the directory handle.
func (c *realCursor) Close() error {
	c.pending = nil

	if c.file == nil {
		return nil
	}

	err := c.file.Close()
	c.file = nil

	if err != nil {
		return fmt.Errorf("failed to close directory %s: %w", c.dir, err)
	}

	return nil
}

// Next returns the next entry that survives the listing pattern.
func (c *realCursor) Next() (Entry, bool) {
	for {
		for len(c.pending) > 0 {
			entry := c.pending[0]
			c.pending = c.pending[1:]

			if entry, ok := narrow(entry, c.pattern); ok {
				return entry, true
			}
		}

		if c.file == nil || !c.fill() {
			return Entry{}, false
		}
	}
}

// fill reads the next batch into pending. It closes the handle and returns
// false once the directory has nothing left.
func (c *realCursor) fill() bool {
	batch, err := c.file.ReadDir(readDirBatch)

	for _, dirEntry := range batch {
		entry, ok := c.convert(dirEntry)
		if ok {
			c.pending = append(c.pending, entry)
		}
	}

	if len(batch) == 0 || (err != nil && len(c.pending) == 0) {
		_ = c.Close()

		return false
	}

	return true
}

// convert snapshots a directory entry. Symbolic links report the kind and size
// of their target so that linked directories look like directories.
func (c *realCursor) convert(dirEntry fs.DirEntry) (Entry, bool) {
	info, err := dirEntry.Info()
	if err != nil {
		// Vanished between the read and the lstat.
		return Entry{}, false
	}

	entry := entryFromInfo(dirEntry.Name(), info)

	if info.Mode()&fs.ModeSymlink != 0 {
		target, err := os.Stat(pathutil.Append(c.dir, dirEntry.Name()))
		if err == nil {
			entry.IsDir = target.IsDir()
			entry.Size = target.Size()
		}
	}

	return entry, true
}
