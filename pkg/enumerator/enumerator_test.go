package enumerator_test

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/joe/png-scan/pkg/enumerator"
	"github.com/joe/png-scan/pkg/filesystem"
)

// makeTree creates files under root; names ending in "/" are directories.
func makeTree(root string, names ...string) {
	GinkgoHelper()

	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(name))
		if strings.HasSuffix(name, "/") {
			Expect(os.MkdirAll(path, 0o755)).To(Succeed())

			continue
		}

		Expect(os.MkdirAll(filepath.Dir(path), 0o755)).To(Succeed())
		Expect(os.WriteFile(path, []byte("content of "+name), 0o644)).To(Succeed())
	}
}

// drain pulls every remaining path.
func drain(e *enumerator.FileEnumerator) []string {
	var paths []string
	for path := e.Next(); path != ""; path = e.Next() {
		paths = append(paths, path)
	}

	return paths
}

// under joins slash-separated names onto root.
func under(root string, names ...string) []string {
	paths := make([]string, 0, len(names))
	for _, name := range names {
		paths = append(paths, filepath.Join(root, filepath.FromSlash(name)))
	}

	return paths
}

var _ = Describe("FileEnumerator", func() {
	var (
		fsys *filesystem.RealFileSystem
		root string
	)

	BeforeEach(func() {
		fsys = filesystem.NewRealFileSystem()
		root = GinkgoT().TempDir()
	})

	Describe("recursion", func() {
		BeforeEach(func() {
			makeTree(root, "a.txt", "sub/b.txt", "sub/deeper/c.txt", "empty/")
		})

		It("stays inside the root when not recursive", func() {
			e := enumerator.New(fsys, root, false, enumerator.DefaultFileType)

			Expect(drain(e)).To(ConsistOf(under(root, "a.txt", "sub", "empty")))
		})

		It("returns every file exactly once when recursive", func() {
			e := enumerator.New(fsys, root, true, enumerator.Files)

			Expect(drain(e)).To(ConsistOf(under(root, "a.txt", "sub/b.txt", "sub/deeper/c.txt")))
		})

		It("returns directories as well as files by default", func() {
			e := enumerator.New(fsys, root, true, enumerator.DefaultFileType)

			Expect(drain(e)).To(ConsistOf(under(root,
				"a.txt", "sub", "sub/b.txt", "sub/deeper", "sub/deeper/c.txt", "empty")))
		})

		It("returns only directories when asked to", func() {
			e := enumerator.New(fsys, root, true, enumerator.Directories)

			Expect(drain(e)).To(ConsistOf(under(root, "sub", "sub/deeper", "empty")))
		})

		It("finishes a directory's own entries before descending into its subdirectories", func() {
			e := enumerator.New(fsys, root, true, enumerator.Files)
			paths := drain(e)

			b := indexOf(paths, filepath.Join(root, "sub", "b.txt"))
			c := indexOf(paths, filepath.Join(root, "sub", "deeper", "c.txt"))
			Expect(b).To(BeNumerically("<", c))
		})
	})

	Describe("search policies", func() {
		BeforeEach(func() {
			makeTree(root, "a.png", "b.txt", "sub/c.png", "sub/d.txt", "sub/inner/e.PNG", "pics.png/f.txt")
		})

		It("narrows only the root listing under MatchOnly", func() {
			e := enumerator.New(fsys, root, true, enumerator.Files,
				enumerator.WithPattern("*.png"), enumerator.WithPolicy(enumerator.MatchOnly))

			Expect(drain(e)).To(ConsistOf(under(root,
				"a.png", "sub/c.png", "sub/d.txt", "sub/inner/e.PNG", "pics.png/f.txt")))
		})

		It("never returns a non-matching root directory under MatchOnly", func() {
			e := enumerator.New(fsys, root, true, enumerator.Directories,
				enumerator.WithPattern("*.png"), enumerator.WithPolicy(enumerator.MatchOnly))

			paths := drain(e)
			Expect(paths).To(ContainElement(filepath.Join(root, "pics.png")))
			Expect(paths).NotTo(ContainElement(filepath.Join(root, "sub")))
		})

		It("applies the pattern at every depth under All", func() {
			e := enumerator.New(fsys, root, true, enumerator.Files,
				enumerator.WithPattern("*.png"), enumerator.WithPolicy(enumerator.All))

			paths := drain(e)
			Expect(paths).To(ConsistOf(under(root, "a.png", "sub/c.png", "sub/inner/e.PNG")))

			for _, path := range paths {
				Expect(strings.ToLower(path)).To(HaveSuffix(".png"))
			}
		})

		It("matches everything with an empty pattern", func() {
			e := enumerator.New(fsys, root, false, enumerator.Files, enumerator.WithPattern(""))

			Expect(drain(e)).To(ConsistOf(under(root, "a.png", "b.txt")))
		})

		It("accepts alternatives separated by semicolons", func() {
			e := enumerator.New(fsys, root, false, enumerator.Files,
				enumerator.WithPattern("*.txt;*.png"), enumerator.WithPolicy(enumerator.All))

			Expect(drain(e)).To(ConsistOf(under(root, "a.png", "b.txt")))
		})
	})

	Describe("dot entries", func() {
		BeforeEach(func() {
			makeTree(root, "a.txt", "sub/")
		})

		It("never returns . or .. by default", func() {
			e := enumerator.New(fsys, root, false, enumerator.DefaultFileType)

			for _, path := range drain(e) {
				Expect(filepath.Base(path)).NotTo(BeElementOf(".", ".."))
			}
		})

		It("returns .. but never . when IncludeDotDot is set", func() {
			e := enumerator.New(fsys, root, false, enumerator.Directories|enumerator.IncludeDotDot)

			paths := drain(e)
			Expect(paths).To(ContainElement(root + string(filepath.Separator) + ".."))
			Expect(paths).To(ContainElement(filepath.Join(root, "sub")))

			for _, path := range paths {
				Expect(strings.HasSuffix(path, string(filepath.Separator)+".")).To(BeFalse())
			}
		})

		It("terminates when IncludeDotDot is combined with recursion", func() {
			e := enumerator.New(fsys, root, true, enumerator.Directories|enumerator.IncludeDotDot)

			Expect(drain(e)).To(ConsistOf(
				root+string(filepath.Separator)+"..",
				filepath.Join(root, "sub"),
				filepath.Join(root, "sub")+string(filepath.Separator)+"..",
			))
		})
	})

	Describe("links", func() {
		It("returns a linked directory but does not descend into it", func() {
			makeTree(root, "real/x.txt")

			err := os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "link"))
			if err != nil {
				Skip("symlinks unavailable: " + err.Error())
			}

			e := enumerator.New(fsys, root, true, enumerator.DefaultFileType)

			Expect(drain(e)).To(ConsistOf(under(root, "real", "real/x.txt", "link")))
		})

		It("terminates on a link cycle", func() {
			makeTree(root, "loop/")

			err := os.Symlink(root, filepath.Join(root, "loop", "back"))
			if err != nil {
				Skip("symlinks unavailable: " + err.Error())
			}

			e := enumerator.New(fsys, root, true, enumerator.Directories)

			Expect(drain(e)).To(ConsistOf(under(root, "loop", "loop/back")))
		})
	})

	Describe("the PNG scan example", func() {
		It("returns exactly the PNG files", func() {
			makeTree(root, "a.png", "b.txt", "sub/c.png")

			e := enumerator.New(fsys, root, true, enumerator.Files,
				enumerator.WithPattern("*.png"), enumerator.WithPolicy(enumerator.MatchOnly))

			Expect(drain(e)).To(ConsistOf(under(root, "a.png", "sub/c.png")))
		})

		It("accepts a root with a trailing separator", func() {
			makeTree(root, "a.png", "sub/c.png")

			e := enumerator.New(fsys, root+string(filepath.Separator), true, enumerator.Files,
				enumerator.WithPattern("*.png"), enumerator.WithPolicy(enumerator.All))

			Expect(drain(e)).To(ConsistOf(under(root, "a.png", "sub/c.png")))
		})
	})

	Describe("exhaustion", func() {
		It("keeps returning empty once exhausted", func() {
			makeTree(root, "a.txt")
			e := enumerator.New(fsys, root, true, enumerator.Files)

			Expect(e.Next()).To(Equal(filepath.Join(root, "a.txt")))
			Expect(e.Next()).To(BeEmpty())
			Expect(e.Next()).To(BeEmpty())
			Expect(e.Next()).To(BeEmpty())
		})

		It("treats a missing root as empty", func() {
			e := enumerator.New(fsys, filepath.Join(root, "missing"), true, enumerator.DefaultFileType)

			Expect(e.Next()).To(BeEmpty())
		})

		It("treats a file root as empty", func() {
			makeTree(root, "a.png")
			e := enumerator.New(fsys, filepath.Join(root, "a.png"), true, enumerator.DefaultFileType)

			Expect(e.Next()).To(BeEmpty())
		})

		It("returns nothing after Close", func() {
			makeTree(root, "a.txt", "b.txt")
			e := enumerator.New(fsys, root, false, enumerator.Files)

			Expect(e.Next()).NotTo(BeEmpty())
			Expect(e.Close()).To(Succeed())
			Expect(e.Close()).To(Succeed())
			Expect(e.Next()).To(BeEmpty())
		})
	})

	Describe("Info", func() {
		It("describes the last returned entry", func() {
			makeTree(root, "a.txt")
			e := enumerator.New(fsys, root, false, enumerator.Files)

			Expect(e.Info()).To(Equal(enumerator.FileInfo{}))

			Expect(e.Next()).To(Equal(filepath.Join(root, "a.txt")))
			info := e.Info()
			Expect(info.Name).To(Equal("a.txt"))
			Expect(info.Size).To(Equal(int64(len("content of a.txt"))))
			Expect(info.IsDir).To(BeFalse())
			Expect(info.ModTime.IsZero()).To(BeFalse())

			Expect(e.Next()).To(BeEmpty())
			Expect(e.Info()).To(Equal(enumerator.FileInfo{}))
		})

		It("reports directories", func() {
			makeTree(root, "sub/")
			e := enumerator.New(fsys, root, false, enumerator.Directories)

			Expect(e.Next()).To(Equal(filepath.Join(root, "sub")))
			Expect(e.Info().IsDir).To(BeTrue())
		})
	})

	Describe("All", func() {
		It("yields every match with its info", func() {
			makeTree(root, "a.txt", "sub/b.txt")
			e := enumerator.New(fsys, root, true, enumerator.Files)

			seen := map[string]string{}
			for path, info := range e.All() {
				seen[path] = info.Name
			}

			Expect(seen).To(Equal(map[string]string{
				filepath.Join(root, "a.txt"):        "a.txt",
				filepath.Join(root, "sub", "b.txt"): "b.txt",
			}))
		})

		It("closes the enumerator when the loop stops early", func() {
			makeTree(root, "a.txt", "b.txt", "c.txt")
			e := enumerator.New(fsys, root, false, enumerator.Files)

			for range e.All() {
				break
			}

			Expect(e.Next()).To(BeEmpty())
		})
	})

	Describe("on a billy filesystem", func() {
		It("walks an in-memory tree", func() {
			mem := memfs.New()
			for _, name := range []string{"/photos/a.png", "/photos/b.txt", "/photos/2024/c.png"} {
				Expect(util.WriteFile(mem, name, []byte("x"), 0o644)).To(Succeed())
			}

			e := enumerator.New(filesystem.NewBillyFileSystem(mem), "/photos", true, enumerator.Files,
				enumerator.WithPattern("*.png"), enumerator.WithPolicy(enumerator.All))

			Expect(drain(e)).To(ConsistOf(
				filepath.Join("/photos", "a.png"),
				filepath.Join("/photos", "2024", "c.png"),
			))
		})
	})
})

func indexOf(paths []string, want string) int {
	for i, path := range paths {
		if path == want {
			return i
		}
	}

	return -1
}
