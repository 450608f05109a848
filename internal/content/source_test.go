package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func collect(t *testing.T, root string) []Source {
	t.Helper()
	var out []Source
	for src, err := range Locate(root) {
		require.NoError(t, err)
		out = append(out, src)
	}
	return out
}

func TestLocate_FlatAndDirectoryStyle(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.md"), "---\ndate: 2024-01-01\n---\n")
	writeFile(t, filepath.Join(root, "b", "index.md"), "---\ndate: 2024-01-01\n---\n")

	got := collect(t, root)

	require.ElementsMatch(t, []Source{
		{Path: filepath.Join(root, "a.md"), Stem: "a"},
		{Path: filepath.Join(root, "b", "index.md"), Stem: "b", Bundle: true},
	}, got)
}

func TestLocate_IgnoresNonMatchingEntries(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "notes.txt"), "x")
	writeFile(t, filepath.Join(root, "c", "readme.md"), "x")
	writeFile(t, filepath.Join(root, "d", "e", "index.md"), "x")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "f", "index.md"), 0o750))

	require.Empty(t, collect(t, root))
}

func TestLocate_FollowsSymlinkedBundles(t *testing.T) {
	root := t.TempDir()
	elsewhere := t.TempDir()
	writeFile(t, filepath.Join(elsewhere, "bundle", "index.md"), "x")
	writeFile(t, filepath.Join(elsewhere, "flat.md"), "x")
	require.NoError(t, os.Symlink(filepath.Join(elsewhere, "bundle"), filepath.Join(root, "linked")))
	require.NoError(t, os.Symlink(filepath.Join(elsewhere, "flat.md"), filepath.Join(root, "flat.md")))
	require.NoError(t, os.Symlink(filepath.Join(elsewhere, "bundle"), filepath.Join(root, "dir.md")))

	got := collect(t, root)

	require.ElementsMatch(t, []Source{
		{Path: filepath.Join(root, "flat.md"), Stem: "flat"},
		{Path: filepath.Join(root, "linked", "index.md"), Stem: "linked", Bundle: true},
		{Path: filepath.Join(root, "dir.md", "index.md"), Stem: "dir.md", Bundle: true},
	}, got)
}

func TestLocate_FlatBeforeDirectoryStyle(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "index.md"), "x")
	writeFile(t, filepath.Join(root, "z.md"), "x")

	got := collect(t, root)
	require.Len(t, got, 2)
	require.Equal(t, "z", got[0].Stem)
	require.Equal(t, "a", got[1].Stem)
}

func TestLocate_MissingRootIsEmpty(t *testing.T) {
	require.Empty(t, collect(t, filepath.Join(t.TempDir(), "missing")))
}

func TestLocate_StopsWhenConsumerBreaks(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.md"), "x")
	writeFile(t, filepath.Join(root, "b.md"), "x")

	n := 0
	for range Locate(root) {
		n++
		break
	}
	require.Equal(t, 1, n)
}

func TestLocate_YieldsEveryCreatedDocument(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("flat and bundle stems are yielded exactly once", prop.ForAll(
		func(flat, bundles []string) bool {
			root := t.TempDir()
			want := map[string]bool{}
			for _, s := range flat {
				writeFile(t, filepath.Join(root, s+".md"), "x")
				want[s+".md"] = true
			}
			for _, s := range bundles {
				dir := "d" + s
				writeFile(t, filepath.Join(root, dir, IndexFile), "x")
				want[dir+"/"] = true
			}

			got := map[string]bool{}
			for src, err := range Locate(root) {
				if err != nil {
					return false
				}
				key := src.Stem + ".md"
				if src.Bundle {
					key = src.Stem + "/"
				}
				if got[key] {
					return false
				}
				got[key] = true
			}
			if len(got) != len(want) {
				return false
			}
			for k := range want {
				if !got[k] {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(4, gen.RegexMatch(`^[a-z]{1,8}$`)),
		gen.SliceOfN(4, gen.RegexMatch(`^[a-z]{1,8}$`)),
	))

	properties.TestingRun(t)
}
