//nolint:varnamelen,testpackage // White-box tests replace the dialer
package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers
)

var errDial = errors.New("connection refused")

func TestCreateFileSystem_LocalRootDoesNotDial(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	dialed := false
	dial := func(*Root) (*SFTPConnection, error) {
		dialed = true

		return nil, errDial
	}

	fsys, base, closer, err := createFileSystem("/home/joe/pictures", false, dial)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(fsys).To(BeAssignableToTypeOf(&RealFileSystem{}))
	g.Expect(base).To(Equal("/home/joe/pictures"))
	g.Expect(dialed).To(BeFalse())

	closer()
}

func TestCreateFileSystem_ConfinedLocalRoot(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	base := t.TempDir()
	g.Expect(os.WriteFile(filepath.Join(base, "a.png"), []byte("png"), 0o600)).To(Succeed())
	g.Expect(os.Mkdir(filepath.Join(base, "albums"), 0o750)).To(Succeed())

	dial := func(*Root) (*SFTPConnection, error) {
		t.Fatal("dial must not be called for a local root")

		return nil, errDial
	}

	fsys, root, closer, err := createFileSystem(base, true, dial)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(fsys).To(BeAssignableToTypeOf(&BillyFileSystem{}))
	g.Expect(root).To(Equal(base))

	defer closer()

	entry, err := fsys.Stat(root)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(entry.IsDir).To(BeTrue())

	cursor, err := fsys.OpenListing(root, "*.png")
	g.Expect(err).NotTo(HaveOccurred())

	listed := map[string]bool{}
	for entry, ok := cursor.Next(); ok; entry, ok = cursor.Next() {
		listed[entry.Name] = true
	}

	g.Expect(cursor.Close()).To(Succeed())
	g.Expect(listed).To(HaveKey("a.png"))
	g.Expect(listed).To(HaveKey("albums"))

	file, err := fsys.Open(filepath.Join(root, "a.png"))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(file.Close()).To(Succeed())
}

func TestCreateFileSystem_ConfinedRelativeRootIsMadeAbsolute(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	wd, err := os.Getwd()
	g.Expect(err).NotTo(HaveOccurred())

	_, root, _, err := createFileSystem(".", true, nil)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(root).To(Equal(wd))
}

func TestCreateFileSystem_WrapsDialErrors(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var got *Root

	dial := func(root *Root) (*SFTPConnection, error) {
		got = root

		return nil, errDial
	}

	_, _, _, err := createFileSystem("sftp://joe@nas:2200/photos", true, dial)
	g.Expect(errors.Is(err, errDial)).To(BeTrue())
	g.Expect(err.Error()).To(ContainSubstring("joe@nas:2200"))
	g.Expect(got.Path).To(Equal("photos"))
}

func TestCreateFileSystem_InvalidRoot(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	dial := func(*Root) (*SFTPConnection, error) {
		t.Fatal("dial must not be called for an invalid root")

		return nil, errDial
	}

	_, _, _, err := createFileSystem("sftp://nas/photos", false, dial)
	g.Expect(errors.Is(err, ErrMissingUser)).To(BeTrue())
}

func TestSFTPConnectionCloseWithoutClients(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	conn := &SFTPConnection{}
	g.Expect(conn.Client()).To(BeNil())
	g.Expect(conn.Close()).To(Succeed())
}

func TestHostKeyCallbackWithoutKnownHosts(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	callback, err := hostKeyCallback(t.TempDir())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(callback).NotTo(BeNil())
}

func TestAuthMethodsSkipsMissingKeys(t *testing.T) {
	t.Setenv("SSH_AUTH_SOCK", "")
	g := NewWithT(t)

	methods, agentConn := authMethods(t.TempDir())
	g.Expect(methods).To(BeEmpty())
	g.Expect(agentConn).To(BeNil())
}
