package model

import "time"

// Commit is one normalized commit in a changelog.
type Commit struct {
	SHA      string
	Message  string // first line only
	Author   string
	Date     time.Time
	IsLocked bool
}

// ShortSHA returns the abbreviated commit hash.
func (c Commit) ShortSHA() string {
	return shortSHA(c.SHA)
}

// ChangelogData is the merged, newest-first commit history for an input.
// Entries before LockedIdx are strictly newer than the pinned revision;
// LockedIdx and after are the historical tail including the locked commit.
// LockedIdx is nil when the pinned revision could not be resolved.
type ChangelogData struct {
	Commits   []Commit
	LockedIdx *int
}

// CommitsAhead returns the number of commits newer than the locked one.
func (d ChangelogData) CommitsAhead() int {
	if d.LockedIdx != nil {
		return *d.LockedIdx
	}
	return len(d.Commits)
}

// CommitsBehind returns the number of commits older than the locked one.
func (d ChangelogData) CommitsBehind() int {
	if d.LockedIdx == nil {
		return 0
	}
	n := len(d.Commits) - (*d.LockedIdx + 1)
	if n < 0 {
		return 0
	}
	return n
}
