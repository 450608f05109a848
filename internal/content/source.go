package content

import (
	"errors"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// IndexFile is the canonical file name of a directory-style document.
const IndexFile = "index.md"

// Source is a discovered document file.
type Source struct {
	Path   string
	Stem   string
	Bundle bool // Path is <root>/<dir>/index.md; siblings are page resources
}

// Dir returns the directory holding a bundle's resources.
func (s Source) Dir() string { return filepath.Dir(s.Path) }

// Locate yields <root>/*.md followed by <root>/*/index.md. The order within
// each group is directory enumeration order. A missing root yields nothing.
func Locate(root string) iter.Seq2[Source, error] {
	return func(yield func(Source, error) bool) {
		entries, err := os.ReadDir(root)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return
			}
			yield(Source{}, ferrors.FileSystemError(err, "failed to read content root", root).Build())
			return
		}

		for _, e := range entries {
			name := e.Name()
			if isDir(root, e) || !strings.HasSuffix(name, ".md") {
				continue
			}
			src := Source{Path: filepath.Join(root, name), Stem: strings.TrimSuffix(name, ".md")}
			if !yield(src, nil) {
				return
			}
		}

		for _, e := range entries {
			if !isDir(root, e) {
				continue
			}
			path := filepath.Join(root, e.Name(), IndexFile)
			info, err := os.Stat(path)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					continue
				}
				if !yield(Source{}, ferrors.FileSystemError(err, "failed to stat document", path).Build()) {
					return
				}
				continue
			}
			if !info.Mode().IsRegular() {
				continue
			}
			if !yield(Source{Path: path, Stem: e.Name(), Bundle: true}, nil) {
				return
			}
		}
	}
}

// isDir reports whether e is a directory, following a symlink to its target.
func isDir(parent string, e fs.DirEntry) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(parent, e.Name()))
	return err == nil && info.IsDir()
}
