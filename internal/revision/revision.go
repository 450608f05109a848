// Package revision reports which git commit a site was built from.
package revision

import (
	"errors"

	ggit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// Head returns the commit checked out in the repository containing dir. It
// returns "" without error when dir is not in a repository or the
// repository has no commits yet.
func Head(dir string) (string, error) {
	repo, err := ggit.PlainOpenWithOptions(dir, &ggit.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, ggit.ErrRepositoryNotExists) {
		return "", nil
	}
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to open git repository").
			WithContext("path", dir).
			Build()
	}
	ref, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", nil
	}
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to resolve HEAD").
			WithContext("path", dir).
			Build()
	}
	return ref.Hash().String(), nil
}

// Short abbreviates a commit hash for display.
func Short(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
