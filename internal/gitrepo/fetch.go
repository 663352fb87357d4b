// Package gitrepo provides the repository fetcher and commit-history
// provider backing an analysis run.
package gitrepo

import (
	"context"
	"os"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"repolens/internal/errors"
	"repolens/internal/logging"
)

// Checkout is a scoped local copy of a repository. Cleanup must be called
// once the analysis is assembled or the run fails; for local directories it
// is a no-op.
type Checkout struct {
	// Root is the local directory containing the working tree.
	Root string
	// Cloned is true when Root is a temporary clone owned by this process.
	Cloned bool
}

// Cleanup removes the temporary clone directory, if any.
func (c *Checkout) Cleanup() {
	if c.Cloned && c.Root != "" {
		_ = os.RemoveAll(c.Root)
	}
}

// Fetcher materializes a repository identifier into a local directory.
type Fetcher struct {
	// AuthToken, when set, is used for token-authenticated HTTPS clones.
	AuthToken string

	logger *logging.Logger
}

// NewFetcher creates a Fetcher.
func NewFetcher(authToken string, logger *logging.Logger) *Fetcher {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Fetcher{AuthToken: authToken, logger: logger}
}

// Fetch resolves an identifier to a local working tree. An existing local
// directory passes through untouched; anything else is treated as a clone
// URL. Clone failures are fatal FETCH_FAILED errors.
func (f *Fetcher) Fetch(ctx context.Context, identifier string) (*Checkout, error) {
	if info, err := os.Stat(identifier); err == nil && info.IsDir() {
		return &Checkout{Root: identifier, Cloned: false}, nil
	}

	dir, err := os.MkdirTemp("", "repolens-*")
	if err != nil {
		return nil, errors.New(errors.FetchFailed, "cannot create checkout directory", err)
	}

	opts := git.CloneOptions{
		URL:      identifier,
		Progress: nil,
		// Full clone: history analysis needs the complete log.
		Depth: 0,
	}
	if f.AuthToken != "" {
		opts.Auth = &http.BasicAuth{
			Username: "token", // any non-empty username works for token auth
			Password: f.AuthToken,
		}
	}

	f.logger.Info("cloning repository", map[string]interface{}{"url": identifier})

	if _, err := git.PlainCloneContext(ctx, dir, false, &opts); err != nil {
		_ = os.RemoveAll(dir)
		return nil, errors.Newf(errors.FetchFailed, err, "clone failed for %s", identifier)
	}

	return &Checkout{Root: dir, Cloned: true}, nil
}
