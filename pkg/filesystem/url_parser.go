package filesystem

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Exported constants.
const (
	// DefaultSSHPort is used when an sftp:// root names no port.
	DefaultSSHPort = 22
)

// Exported variables.
var (
	ErrMissingUser = errors.New("sftp root must include a user (sftp://user@host/path)")
	ErrMissingHost = errors.New("sftp root must include a host")
)

const sftpScheme = "sftp"

// Root is a parsed scan root: a local path or a directory on an SFTP host.
type Root struct {
	Remote bool

	// Path is the local path, or the remote path for SFTP roots.
	Path string

	Host string
	Port int
	User string
}

// Address returns host:port for remote roots.
func (r *Root) Address() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// String renders the root the way it would be typed.
func (r *Root) String() string {
	if !r.Remote {
		return r.Path
	}

	remotePath := r.Path
	switch {
	case remotePath == ".":
		remotePath = ""
	case strings.HasPrefix(remotePath, "/"):
		remotePath = "/" + remotePath
	}

	return fmt.Sprintf("sftp://%s@%s:%d/%s", r.User, r.Host, r.Port, strings.TrimPrefix(remotePath, "/"))
}

// ParseRoot parses a scan root.
//
// Anything that does not start with sftp:// is a local path and is kept
// verbatim. Remote roots look like sftp://user@host[:port]/path where the port
// defaults to 22, "/path" is relative to the remote home directory, "//path"
// is absolute and an empty path means the home directory itself.
func ParseRoot(raw string) (*Root, error) {
	if !strings.HasPrefix(raw, sftpScheme+"://") {
		return &Root{Path: raw}, nil
	}

	u, err := url.Parse(raw) //nolint:varnamelen // u is idiomatic for URL
	if err != nil {
		return nil, fmt.Errorf("invalid sftp root: %w", err)
	}

	if u.User == nil || u.User.Username() == "" {
		return nil, ErrMissingUser
	}

	if u.Hostname() == "" {
		return nil, ErrMissingHost
	}

	port := DefaultSSHPort
	if raw := u.Port(); raw != "" {
		port, err = strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid port number: %w", err)
		}
	}

	return &Root{
		Remote: true,
		Path:   remoteRootPath(u.Path),
		Host:   u.Hostname(),
		Port:   port,
		User:   u.User.Username(),
	}, nil
}

func remoteRootPath(p string) string {
	switch {
	case p == "" || p == "/":
		return "."
	case strings.HasPrefix(p, "//"):
		return p[1:]
	default:
		return strings.TrimPrefix(p, "/")
	}
}
