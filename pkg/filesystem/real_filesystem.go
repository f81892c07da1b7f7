package filesystem

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/joe/png-scan/pkg/pathutil"
)

// RealFileSystem implements FileSystem using the local OS.
type RealFileSystem struct{}

// NewRealFileSystem creates a new RealFileSystem instance.
func NewRealFileSystem() *RealFileSystem {
	return &RealFileSystem{}
}

// IsReparsePoint reports whether path is a symbolic link, junction or other
// irregular redirection. A path that cannot be inspected is treated as one.
func (r *RealFileSystem) IsReparsePoint(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return true
	}

	return info.Mode()&(fs.ModeSymlink|fs.ModeIrregular) != 0
}

// Open opens a file for reading.
func (r *RealFileSystem) Open(path string) (File, error) {
	file, err := os.Open(path) // #nosec G304 - path comes from the enumerator
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	return file, nil
}

// OpenListing starts a streaming listing of dir.
func (r *RealFileSystem) OpenListing(dir, pattern string) (Cursor, error) {
	return newRealCursor(dir, pattern)
}

// Stat returns information about path, following symbolic links.
func (r *RealFileSystem) Stat(path string) (Entry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	return entryFromInfo(pathutil.BaseName(path), info), nil
}

// Syntax returns the native path syntax.
func (r *RealFileSystem) Syntax() pathutil.Syntax {
	return pathutil.Native
}
