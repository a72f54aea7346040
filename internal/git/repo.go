package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	gitssh "github.com/go-git/go-git/v5/plumbing/transport/ssh"
	"github.com/rs/zerolog/log"
)

// EnsureRepo makes a fresh bare mirror available at path: an existing
// repository is opened and fetched along origin's configured refspecs, a
// missing one is cloned bare (single-branch when a reference is given).
//
// Concurrent calls for the same URL from different inputs are not
// serialized; the last fetch wins. Callers run this off the interactive
// loop and check cancellation before starting.
func EnsureRepo(ctx context.Context, path, url, reference string) (*gogit.Repository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, &CacheError{Path: path, Err: err}
	}

	if _, err := os.Stat(path); err == nil {
		repo, err := gogit.PlainOpen(path)
		if err != nil {
			return nil, &CacheError{Path: path, Err: err}
		}
		if err := fetchRepo(ctx, repo, url); err != nil {
			return nil, err
		}
		return repo, nil
	}

	return cloneRepo(ctx, path, url, reference)
}

func cloneRepo(ctx context.Context, path, url, reference string) (*gogit.Repository, error) {
	log.Debug().Str("url", url).Msg("cloning repository")

	opts := &gogit.CloneOptions{
		URL:  url,
		Auth: authFor(url),
	}
	if reference != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(reference)
		opts.SingleBranch = true
	}

	repo, err := gogit.PlainCloneContext(ctx, path, true, opts)
	if err != nil {
		// A failed clone leaves a partial directory that would be
		// mistaken for a repository on the next run.
		_ = os.RemoveAll(path)
		return nil, mapTransportErr(ctx, url, err)
	}
	return repo, nil
}

func fetchRepo(ctx context.Context, repo *gogit.Repository, url string) error {
	err := repo.FetchContext(ctx, &gogit.FetchOptions{
		RemoteName: "origin",
		Auth:       authFor(url),
	})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return mapTransportErr(ctx, url, err)
	}
	return nil
}

// authFor returns SSH agent credentials for ssh-style URLs and nil (the
// transport default) otherwise. No other credential source is consulted.
func authFor(url string) transport.AuthMethod {
	if !isSSHURL(url) {
		return nil
	}
	user := "git"
	if ep, err := transport.NewEndpoint(url); err == nil && ep.User != "" {
		user = ep.User
	}
	auth, err := gitssh.NewSSHAgentAuth(user)
	if err != nil {
		return nil
	}
	return auth
}

func isSSHURL(url string) bool {
	if strings.HasPrefix(url, "ssh://") {
		return true
	}
	// SCP-style remote: user@host:path
	if !strings.Contains(url, "://") && strings.Contains(url, "@") && strings.Contains(url, ":") {
		return true
	}
	return false
}

func mapTransportErr(ctx context.Context, url string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return ErrTimeout
	case errors.Is(err, context.Canceled):
		return ErrCancelled
	case errors.Is(err, transport.ErrRepositoryNotFound):
		return ErrNotFound
	case errors.Is(err, transport.ErrAuthenticationRequired),
		errors.Is(err, transport.ErrAuthorizationFailed):
		return ErrAuth
	default:
		return &CloneError{URL: url, Err: err}
	}
}
