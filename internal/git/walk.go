package git

import (
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/bianoble/flakewatch/internal/model"
)

const (
	// maxWalkCommits caps an "ahead of base" walk.
	maxWalkCommits = 500
	// changelogTail caps the historical tail below the locked commit.
	changelogTail = 50
)

// CommitsSince returns the commits reachable from headRef but not from
// baseRev, newest first, capped at maxWalkCommits. An unresolvable base
// yields an empty list and no error: the pinned revision may have been
// rewritten out of the remote's history.
func CommitsSince(repo *gogit.Repository, baseRev, headRef string) ([]model.Commit, error) {
	if headRef == "" {
		headRef = "HEAD"
	}

	headHash, err := resolveRef(repo, headRef)
	if err != nil {
		return nil, err
	}

	baseHash, err := repo.ResolveRevision(plumbing.Revision(baseRev))
	if err != nil {
		return nil, nil
	}

	if headHash == *baseHash {
		return nil, nil
	}

	head, err := repo.CommitObject(headHash)
	if err != nil {
		return nil, fmt.Errorf("reading head commit: %w", err)
	}

	// Hide the base commit and its whole ancestry. Seeding only the base
	// itself would still count shared ancestors reached through another
	// parent of a merge.
	hidden, err := ancestry(repo, *baseHash)
	if err != nil {
		return nil, err
	}

	return collect(object.NewCommitPreorderIter(head, nil, hidden), maxWalkCommits)
}

// ancestry returns base and every commit reachable from it.
func ancestry(repo *gogit.Repository, base plumbing.Hash) ([]plumbing.Hash, error) {
	commit, err := repo.CommitObject(base)
	if err != nil {
		return nil, fmt.Errorf("reading base commit: %w", err)
	}

	var hashes []plumbing.Hash
	err = object.NewCommitPreorderIter(commit, nil, nil).ForEach(func(c *object.Commit) error {
		hashes = append(hashes, c.Hash)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking base ancestry: %w", err)
	}
	return hashes, nil
}

// CommitsFrom returns up to limit commits reachable from rev, newest
// first. An unresolvable rev yields an empty list and no error.
func CommitsFrom(repo *gogit.Repository, rev string, limit int) ([]model.Commit, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, nil
	}

	start, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("reading commit %s: %w", rev, err)
	}

	return collect(object.NewCommitPreorderIter(start, nil, nil), limit)
}

func collect(iter object.CommitIter, limit int) ([]model.Commit, error) {
	var commits []model.Commit
	err := iter.ForEach(func(c *object.Commit) error {
		commits = append(commits, commitToModel(c))
		if len(commits) >= limit {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking commits: %w", err)
	}
	return commits, nil
}

// resolveRef resolves a head reference by trying, in order, the mirrored
// remote branch, a local branch, literal HEAD, then a raw revision parse.
func resolveRef(repo *gogit.Repository, refname string) (plumbing.Hash, error) {
	if ref, err := repo.Reference(plumbing.NewRemoteReferenceName("origin", refname), true); err == nil {
		return ref.Hash(), nil
	}
	if ref, err := repo.Reference(plumbing.NewBranchReferenceName(refname), true); err == nil {
		return ref.Hash(), nil
	}
	if refname == "HEAD" {
		if head, err := repo.Head(); err == nil {
			return head.Hash(), nil
		}
	}
	if hash, err := repo.ResolveRevision(plumbing.Revision(refname)); err == nil {
		return *hash, nil
	}
	return plumbing.ZeroHash, fmt.Errorf("revision %q not found in repository", refname)
}

// commitToModel normalizes a commit: first message line, author name with
// an Unknown fallback, author time in UTC. IsLocked is decided later by
// the changelog assembly.
func commitToModel(c *object.Commit) model.Commit {
	message, _, _ := strings.Cut(c.Message, "\n")
	author := c.Author.Name
	if author == "" {
		author = "Unknown"
	}
	return model.Commit{
		SHA:     c.Hash.String(),
		Message: strings.TrimRight(message, "\r"),
		Author:  author,
		Date:    c.Author.When.UTC(),
	}
}
