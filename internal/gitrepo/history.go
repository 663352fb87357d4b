package gitrepo

import (
	"context"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// History returns per-file change counts for the repository at root, keyed
// by repo-relative forward-slash path. maxCommits bounds the walk; zero
// means unlimited. Any failure yields an empty map and the error so callers
// can degrade gracefully (hotspot detection is optional).
func History(ctx context.Context, root string, maxCommits int) (map[string]int, error) {
	counts := make(map[string]int)

	repo, err := git.PlainOpen(root)
	if err != nil {
		return counts, err
	}

	head, err := repo.Head()
	if err != nil {
		return counts, err
	}

	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return counts, err
	}
	defer iter.Close()

	visited := 0
	err = iter.ForEach(func(c *object.Commit) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if maxCommits > 0 && visited >= maxCommits {
			return storer.ErrStop
		}
		visited++

		stats, err := c.Stats()
		if err != nil {
			// Stats can fail on odd merge commits; skip rather than abort.
			return nil
		}
		for _, stat := range stats {
			counts[stat.Name]++
		}
		return nil
	})
	if err != nil {
		return counts, err
	}

	return counts, nil
}
