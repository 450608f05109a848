package site

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCopyDirFollowsSymlinks(t *testing.T) {
	target := t.TempDir()
	writeTestFile(t, filepath.Join(target, "img.png"), "png")
	writeTestFile(t, filepath.Join(target, "assets", "app.js"), "js")

	src := t.TempDir()
	writeTestFile(t, filepath.Join(src, "index.md"), "body")
	require.NoError(t, os.Symlink(filepath.Join(target, "img.png"), filepath.Join(src, "img.png")))
	require.NoError(t, os.Symlink(filepath.Join(target, "assets"), filepath.Join(src, "assets")))
	require.NoError(t, os.Symlink(filepath.Join(target, "gone.png"), filepath.Join(src, "dangling.png")))

	dst := t.TempDir()
	n, err := CopyDir(src, dst, func(rel string) bool { return rel == "index.md" })
	require.NoError(t, err)
	require.Equal(t, 2, n)

	data, err := os.ReadFile(filepath.Join(dst, "img.png"))
	require.NoError(t, err)
	require.Equal(t, "png", string(data))
	info, err := os.Lstat(filepath.Join(dst, "img.png"))
	require.NoError(t, err)
	require.True(t, info.Mode().IsRegular())

	data, err = os.ReadFile(filepath.Join(dst, "assets", "app.js"))
	require.NoError(t, err)
	require.Equal(t, "js", string(data))
	require.NoFileExists(t, filepath.Join(dst, "dangling.png"))
	require.NoFileExists(t, filepath.Join(dst, "index.md"))
}

func TestCopyDirStopsAtSymlinkCycles(t *testing.T) {
	src := t.TempDir()
	writeTestFile(t, filepath.Join(src, "a", "file.txt"), "x")
	require.NoError(t, os.Symlink(src, filepath.Join(src, "a", "loop")))

	dst := t.TempDir()
	n, err := CopyDir(src, dst, nil)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.FileExists(t, filepath.Join(dst, "a", "file.txt"))
}
