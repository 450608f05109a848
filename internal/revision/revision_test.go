package revision

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	ggit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

func TestHead_OutsideRepository(t *testing.T) {
	hash, err := Head(t.TempDir())
	require.NoError(t, err)
	require.Empty(t, hash)
}

func TestHead_EmptyRepository(t *testing.T) {
	dir := t.TempDir()
	_, err := ggit.PlainInit(dir, false)
	require.NoError(t, err)

	hash, err := Head(dir)
	require.NoError(t, err)
	require.Empty(t, hash)
}

func TestHead_FindsCommitFromSubdirectory(t *testing.T) {
	dir := t.TempDir()
	repo, err := ggit.PlainInit(dir, false)
	require.NoError(t, err)

	sub := filepath.Join(dir, "projects")
	require.NoError(t, os.MkdirAll(sub, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "alpha.md"), []byte("---\ntitle: Alpha\n---\n"), 0o600))

	w, err := repo.Worktree()
	require.NoError(t, err)
	_, err = w.Add("projects/alpha.md")
	require.NoError(t, err)
	commit, err := w.Commit("add alpha", &ggit.CommitOptions{
		Author: &object.Signature{Name: "Site Author", Email: "author@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	hash, err := Head(sub)
	require.NoError(t, err)
	require.Equal(t, commit.String(), hash)
	require.Len(t, Short(hash), 8)
}

func TestShort(t *testing.T) {
	require.Equal(t, "abc", Short("abc"))
	require.Equal(t, "01234567", Short("0123456789abcdef"))
}
