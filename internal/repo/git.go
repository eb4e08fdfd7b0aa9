package repo

import (
	"context"
	"fmt"

	git "github.com/go-git/go-git/v5"
)

// Clone performs a shallow clone of a repository into dest and returns
// the revision the clone landed on. url may be any transport go-git
// supports, including a local path.
func Clone(ctx context.Context, url, dest string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("repository url cannot be empty")
	}
	if dest == "" {
		return "", fmt.Errorf("destination cannot be empty")
	}

	r, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
		URL:   url,
		Depth: 1,
	})
	if err != nil {
		return "", fmt.Errorf("cloning %s: %w", url, err)
	}

	head, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("resolving HEAD: %w", err)
	}
	return head.Hash().String(), nil
}

// HeadRevision returns the commit hash a local working tree is at.
func HeadRevision(path string) (string, error) {
	r, err := git.PlainOpen(path)
	if err != nil {
		return "", fmt.Errorf("opening repository %s: %w", path, err)
	}
	head, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("resolving HEAD: %w", err)
	}
	return head.Hash().String(), nil
}
