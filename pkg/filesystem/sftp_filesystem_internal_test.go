//nolint:varnamelen,testpackage // White-box tests drive the SFTP backend through a fake tree
package filesystem

import (
	"errors"
	"io"
	"io/fs"
	"path"
	"strings"
	"testing"

	krfs "github.com/kr/fs"
	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers
)

var errRemote = errors.New("remote failure")

// fakeTree is an in-memory remote tree. Links map a link path to its target.
type fakeTree struct {
	infos    map[string]fakeInfo
	children map[string][]string
	links    map[string]string
	contents map[string]string
}

func newFakeTree() *fakeTree {
	tree := &fakeTree{
		infos:    map[string]fakeInfo{},
		children: map[string][]string{},
		links:    map[string]string{},
		contents: map[string]string{},
	}
	tree.infos["/"] = fakeInfo{name: "/", mode: fs.ModeDir}

	return tree
}

func (f *fakeTree) add(p string, info fakeInfo) {
	f.infos[p] = info
	parent := path.Dir(p)
	f.children[parent] = append(f.children[parent], p)
}

func (f *fakeTree) dir(p string) {
	f.add(p, fakeInfo{name: path.Base(p), mode: fs.ModeDir})
}

func (f *fakeTree) file(p, content string) {
	f.add(p, fakeInfo{name: path.Base(p), size: int64(len(content))})
	f.contents[p] = content
}

func (f *fakeTree) link(p, target string) {
	f.add(p, fakeInfo{name: path.Base(p), mode: fs.ModeSymlink})
	f.links[p] = target
}

func (f *fakeTree) Join(elem ...string) string {
	return path.Join(elem...)
}

func (f *fakeTree) Lstat(p string) (fs.FileInfo, error) {
	info, ok := f.infos[p]
	if !ok {
		return nil, fs.ErrNotExist
	}

	return info, nil
}

func (f *fakeTree) ReadDir(dir string) ([]fs.FileInfo, error) {
	if dir == "/denied" {
		return nil, errRemote
	}

	out := make([]fs.FileInfo, 0, len(f.children[dir]))
	for _, child := range f.children[dir] {
		out = append(out, f.infos[child])
	}

	return out, nil
}

func (f *fakeTree) Stat(p string) (fs.FileInfo, error) {
	if target, ok := f.links[p]; ok {
		return f.Stat(target)
	}

	return f.Lstat(p)
}

func (f *fakeTree) open(p string) (File, error) {
	content, ok := f.contents[p]
	if !ok {
		return nil, fs.ErrNotExist
	}

	return io.NopCloser(strings.NewReader(content)), nil
}

func newFakeSFTP() (*SFTPFileSystem, *fakeTree) {
	tree := newFakeTree()
	tree.dir("/srv")
	tree.file("/srv/a.png", "png!")
	tree.file("/srv/b.txt", "txt")
	tree.dir("/srv/albums")
	tree.link("/srv/shortcut", "/srv/albums")
	tree.dir("/denied")

	return newSFTPFileSystem(tree, tree.open), tree
}

func TestSFTPFileSystemSatisfiesWalkerInterface(t *testing.T) {
	t.Parallel()

	var _ krfs.FileSystem = newFakeTree()
}

func TestSFTPFileSystemListing(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fsys, _ := newFakeSFTP()

	cursor, err := fsys.OpenListing("/srv", "*.png")
	g.Expect(err).NotTo(HaveOccurred())

	entries := collect(cursor)
	g.Expect(names(entries)).To(Equal([]string{".", "..", "a.png", "albums", "shortcut"}))

	for _, entry := range entries {
		if entry.Name == "shortcut" {
			g.Expect(entry.IsDir).To(BeTrue())
		}
	}

	g.Expect(fsys.IsReparsePoint("/srv/shortcut")).To(BeTrue())
	g.Expect(fsys.IsReparsePoint("/srv/albums")).To(BeFalse())
	g.Expect(fsys.IsReparsePoint("/srv/gone")).To(BeTrue())
}

func TestSFTPFileSystemRootHasNoDotEntries(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fsys, _ := newFakeSFTP()

	cursor, err := fsys.OpenListing("/", MatchAll)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(names(collect(cursor))).To(Equal([]string{"srv", "denied"}))
}

func TestSFTPFileSystemListingErrors(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fsys, _ := newFakeSFTP()

	_, err := fsys.OpenListing("/srv/a.png", MatchAll)
	g.Expect(errors.Is(err, errNotDirectory)).To(BeTrue())

	_, err = fsys.OpenListing("/missing", MatchAll)
	g.Expect(errors.Is(err, fs.ErrNotExist)).To(BeTrue())

	_, err = fsys.OpenListing("/denied", MatchAll)
	g.Expect(errors.Is(err, errRemote)).To(BeTrue())
}

func TestSFTPFileSystemOpenAndStat(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fsys, _ := newFakeSFTP()

	entry, err := fsys.Stat("/srv/a.png")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(entry.Name).To(Equal("a.png"))
	g.Expect(entry.Size).To(Equal(int64(4)))

	file, err := fsys.Open("/srv/a.png")
	g.Expect(err).NotTo(HaveOccurred())

	data, err := io.ReadAll(file)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(string(data)).To(Equal("png!"))

	_, err = fsys.Open("/srv/none.png")
	g.Expect(err).To(MatchError(ContainSubstring("failed to open remote file")))

	g.Expect(fsys.Syntax().Separator()).To(Equal(byte('/')))
}
