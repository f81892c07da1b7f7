package filesystem

import (
	"fmt"
	"io/fs"

	krfs "github.com/kr/fs"
	"github.com/pkg/sftp"

	"github.com/joe/png-scan/pkg/pathutil"
)

// remoteTree is the part of an SFTP client used for listings: the kr/fs
// walker interface plus a link-following stat.
type remoteTree interface {
	krfs.FileSystem
	Stat(path string) (fs.FileInfo, error)
}

// SFTPFileSystem implements FileSystem for a remote host reached over SFTP.
// Remote paths always use forward slashes.
type SFTPFileSystem struct {
	tree remoteTree
	open func(path string) (File, error)
}

// NewSFTPFileSystem creates a filesystem on an established SFTP client.
func NewSFTPFileSystem(client *sftp.Client) *SFTPFileSystem {
	return newSFTPFileSystem(client, func(path string) (File, error) {
		file, err := client.Open(path)
		if err != nil {
			return nil, err //nolint:wrapcheck // Wrapped by SFTPFileSystem.Open
		}

		return file, nil
	})
}

func newSFTPFileSystem(tree remoteTree, open func(path string) (File, error)) *SFTPFileSystem {
	return &SFTPFileSystem{tree: tree, open: open}
}

// IsReparsePoint reports whether the remote path is a symbolic link.
func (s *SFTPFileSystem) IsReparsePoint(path string) bool {
	info, err := s.tree.Lstat(path)
	if err != nil {
		return true
	}

	return info.Mode()&fs.ModeSymlink != 0
}

// Open opens a remote file for reading.
func (s *SFTPFileSystem) Open(path string) (File, error) {
	file, err := s.open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open remote file %s: %w", path, err)
	}

	return file, nil
}

// OpenListing fetches the whole remote directory in one request sequence.
func (s *SFTPFileSystem) OpenListing(dir, pattern string) (Cursor, error) {
	dirInfo, err := s.tree.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat remote directory %s: %w", dir, err)
	}

	if !dirInfo.IsDir() {
		return nil, fmt.Errorf("failed to list remote %s: %w", dir, errNotDirectory)
	}

	infos, err := s.tree.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list remote directory %s: %w", dir, err)
	}

	return newSliceCursor(dir, pathutil.POSIX, dirInfo, infos, s.tree.Stat, pattern), nil
}

// Stat returns information about a remote path, following links.
func (s *SFTPFileSystem) Stat(path string) (Entry, error) {
	info, err := s.tree.Stat(path)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to stat remote file %s: %w", path, err)
	}

	return entryFromInfo(pathutil.POSIX.BaseName(path), info), nil
}

// Syntax returns POSIX syntax.
func (s *SFTPFileSystem) Syntax() pathutil.Syntax {
	return pathutil.POSIX
}
