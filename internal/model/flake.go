package model

// FlakeData holds the inputs of a loaded flake.
// The whole structure is replaced on every metadata reload, never patched.
type FlakeData struct {
	Path        string
	Description string
	Inputs      []FlakeInput
}

// Input returns the input with the given name, or nil.
func (f *FlakeData) Input(name string) *FlakeInput {
	for i := range f.Inputs {
		if f.Inputs[i].Name() == name {
			return &f.Inputs[i]
		}
	}
	return nil
}

// InputKind discriminates the FlakeInput variants.
type InputKind int

const (
	KindGit InputKind = iota
	KindPath
	KindOther
)

// FlakeInput is one pinned dependency from the lock data.
// Exactly one of Git, Path, Other is set, matching Kind.
type FlakeInput struct {
	Kind  InputKind
	Git   *GitInput
	Path  *PathInput
	Other *OtherInput
}

// GitInput is a git-hosted input (GitHub, GitLab, SourceHut, ...).
type GitInput struct {
	Name         string
	Owner        string
	Repo         string
	Forge        ForgeType
	Host         string // empty means the forge default
	Reference    string // branch or tag; empty means HEAD
	Rev          string
	LastModified int64
	URL          string
}

// PathInput is a local path input.
type PathInput struct {
	Name string
	Path string
}

// OtherInput covers tarball, file and other non-git input types.
type OtherInput struct {
	Name         string
	URL          string
	Rev          string
	LastModified int64
}

// Name returns the input name regardless of variant.
func (f FlakeInput) Name() string {
	switch f.Kind {
	case KindGit:
		return f.Git.Name
	case KindPath:
		return f.Path.Name
	default:
		return f.Other.Name
	}
}

// ShortRev returns the abbreviated pinned revision, or "" for path inputs.
func (f FlakeInput) ShortRev() string {
	switch f.Kind {
	case KindGit:
		return shortSHA(f.Git.Rev)
	case KindOther:
		return shortSHA(f.Other.Rev)
	default:
		return ""
	}
}

// LastModified returns the lock timestamp, or 0 for path inputs.
func (f FlakeInput) LastModified() int64 {
	switch f.Kind {
	case KindGit:
		return f.Git.LastModified
	case KindOther:
		return f.Other.LastModified
	default:
		return 0
	}
}

// TypeDisplay returns a short label for the input variant.
func (f FlakeInput) TypeDisplay() string {
	switch f.Kind {
	case KindGit:
		return "git"
	case KindPath:
		return "path"
	default:
		return "other"
	}
}

func shortSHA(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}
