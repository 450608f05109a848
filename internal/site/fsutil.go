package site

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// CopyDir merges the tree at src into dst. Files already in dst are
// overwritten when src has the same path and kept otherwise. skip, when set,
// is consulted with each entry's path relative to src. It returns the number
// of files copied. Symlinks are followed; a link back into one of its own
// ancestors is skipped, as is a dangling one.
func CopyDir(src, dst string, skip func(rel string) bool) (int, error) {
	return copyDir(src, dst, "", skip, map[string]bool{})
}

func copyDir(src, dst, rel string, skip func(string) bool, ancestors map[string]bool) (int, error) {
	resolved, err := filepath.EvalSymlinks(src)
	if err != nil {
		return 0, err
	}
	if ancestors[resolved] {
		return 0, nil
	}
	ancestors[resolved] = true
	defer delete(ancestors, resolved)

	if err := os.MkdirAll(dst, dirPerm); err != nil {
		return 0, err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return 0, err
	}

	copied := 0
	for _, entry := range entries {
		entryRel := filepath.Join(rel, entry.Name())
		if skip != nil && skip(entryRel) {
			continue
		}
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		mode := entry.Type()
		if mode&fs.ModeSymlink != 0 {
			info, err := os.Stat(srcPath)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return copied, err
			}
			mode = info.Mode().Type()
		}

		if mode.IsDir() {
			n, err := copyDir(srcPath, dstPath, entryRel, skip, ancestors)
			copied += n
			if err != nil {
				return copied, err
			}
			continue
		}
		if !mode.IsRegular() {
			continue
		}
		if err := copyFile(srcPath, dstPath); err != nil {
			return copied, err
		}
		copied++
	}
	return copied, nil
}

func copyFile(src, dst string) error {
	// #nosec G304 -- src is enumerated from configured input directories.
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return err
	}
	return dstFile.Close()
}

// writeFile creates the parent directory of path, then writes data.
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return err
	}
	return os.WriteFile(path, data, filePerm)
}
