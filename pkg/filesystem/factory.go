package filesystem

import (
	"fmt"
	"path/filepath"
)

// dialFunc opens a connection for a remote root; replaced in tests.
type dialFunc func(root *Root) (*SFTPConnection, error)

// CreateFileSystem creates a FileSystem for the given scan root.
// Returns (filesystem, basePath, closer, error).
//   - filesystem: the backend to list and read from
//   - basePath: the root path as the backend spells it (URL prefix stripped)
//   - closer: releases the SFTP connection; a no-op for local roots
//
// With confine set, a local root is opened through a chroot backend bound to
// the root's absolute path, so links inside the tree resolve within it.
// Remote roots are unaffected.
func CreateFileSystem(rootStr string, confine bool) (FileSystem, string, func(), error) {
	return createFileSystem(rootStr, confine, Dial)
}

func createFileSystem(rootStr string, confine bool, dial dialFunc) (FileSystem, string, func(), error) {
	root, err := ParseRoot(rootStr)
	if err != nil {
		return nil, "", nil, err
	}

	if !root.Remote {
		if !confine {
			return NewRealFileSystem(), root.Path, func() {}, nil
		}

		base, err := filepath.Abs(root.Path)
		if err != nil {
			return nil, "", nil, fmt.Errorf("failed to resolve %s: %w", root.Path, err)
		}

		return NewChrootFileSystem(base), base, func() {}, nil
	}

	conn, err := dial(root)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to connect to %s@%s: %w", root.User, root.Address(), err)
	}

	closer := func() {
		_ = conn.Close()
	}

	return NewSFTPFileSystem(conn.Client()), root.Path, closer, nil
}
