package git

import "github.com/bianoble/flakewatch/internal/model"

// AssembleChangelog merges the "ahead of the pin" commits with the
// historical tail walked back from the pin. A non-empty tail starts with
// the locked commit itself, which gets marked and indexed; an empty tail
// means the pinned revision was unresolvable (local-only commit or
// rewritten history) and the result renders ahead-only with no lock
// marker.
func AssembleChangelog(ahead, tail []model.Commit) *model.ChangelogData {
	data := &model.ChangelogData{Commits: ahead}
	if len(tail) == 0 {
		return data
	}

	idx := len(ahead)
	tail[0].IsLocked = true
	data.Commits = append(data.Commits, tail...)
	data.LockedIdx = &idx
	return data
}
