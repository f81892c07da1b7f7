package filesystem

import (
	"fmt"
	"io/fs"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/joe/png-scan/pkg/pathutil"
)

// BillyFileSystem implements FileSystem on top of a go-billy filesystem, such
// as an in-memory memfs or an osfs chrooted to a base directory.
type BillyFileSystem struct {
	fs billy.Filesystem
}

// NewBillyFileSystem wraps fsys.
func NewBillyFileSystem(fsys billy.Filesystem) *BillyFileSystem {
	return &BillyFileSystem{fs: fsys}
}

// NewChrootFileSystem returns a filesystem confined to base: every path is
// resolved inside it and links cannot escape it.
func NewChrootFileSystem(base string) *BillyFileSystem {
	return NewBillyFileSystem(osfs.New(base, osfs.WithBoundOS()))
}

// IsReparsePoint reports whether path is a symbolic link. Backends without
// link support never report one.
func (b *BillyFileSystem) IsReparsePoint(path string) bool {
	info, err := b.fs.Lstat(path)
	if err != nil {
		return true
	}

	return info.Mode()&(fs.ModeSymlink|fs.ModeIrregular) != 0
}

// Open opens a file for reading.
func (b *BillyFileSystem) Open(path string) (File, error) {
	file, err := b.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("billy: open %q: %w", path, err)
	}

	return file, nil
}

// OpenListing lists dir in one read.
func (b *BillyFileSystem) OpenListing(dir, pattern string) (Cursor, error) {
	dirInfo, err := b.fs.Stat(dir)
	if err == nil && !dirInfo.IsDir() {
		return nil, fmt.Errorf("billy: readdir %q: %w", dir, errNotDirectory)
	}

	infos, err := b.fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("billy: readdir %q: %w", dir, err)
	}

	return newSliceCursor(dir, b.Syntax(), dirInfo, infos, b.fs.Stat, pattern), nil
}

// Stat returns information about path, following symbolic links.
func (b *BillyFileSystem) Stat(path string) (Entry, error) {
	info, err := b.fs.Stat(path)
	if err != nil {
		return Entry{}, fmt.Errorf("billy: stat %q: %w", path, err)
	}

	return entryFromInfo(b.Syntax().BaseName(path), info), nil
}

// Syntax returns the native path syntax; go-billy resolves paths with path/filepath.
func (b *BillyFileSystem) Syntax() pathutil.Syntax {
	return pathutil.Native
}
