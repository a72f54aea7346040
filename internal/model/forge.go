package model

import (
	"fmt"
	"strings"
)

// ForgeType identifies the git hosting provider of an input.
// It is derived once from lock data or URL sniffing and selects the
// provider strategy for update checks and changelogs.
type ForgeType int

const (
	ForgeGeneric ForgeType = iota
	ForgeGitHub
	ForgeGitLab
	ForgeSourceHut
	ForgeCodeberg
	ForgeGitea
)

// String returns the lowercase provider name.
func (f ForgeType) String() string {
	switch f {
	case ForgeGitHub:
		return "github"
	case ForgeGitLab:
		return "gitlab"
	case ForgeSourceHut:
		return "sourcehut"
	case ForgeCodeberg:
		return "codeberg"
	case ForgeGitea:
		return "gitea"
	default:
		return "git"
	}
}

// DetectForge resolves the forge from a declared lock type, falling back
// to URL substring sniffing for generic git inputs.
func DetectForge(lockType, url string) ForgeType {
	switch lockType {
	case "github":
		return ForgeGitHub
	case "gitlab":
		return ForgeGitLab
	case "sourcehut":
		return ForgeSourceHut
	case "git":
		switch {
		case strings.Contains(url, "github.com"):
			return ForgeGitHub
		case strings.Contains(url, "gitlab"):
			return ForgeGitLab
		case strings.Contains(url, "sr.ht"), strings.Contains(url, "sourcehut"):
			return ForgeSourceHut
		case strings.Contains(url, "codeberg.org"):
			return ForgeCodeberg
		case strings.Contains(url, "gitea"), strings.Contains(url, "forgejo"):
			return ForgeGitea
		default:
			return ForgeGeneric
		}
	default:
		return ForgeGeneric
	}
}

// CloneURL returns the https clone URL for a repository on this forge.
// Generic returns "" — callers must treat that as unsupported.
func (f ForgeType) CloneURL(owner, repo, host string) string {
	switch f {
	case ForgeGitHub:
		return fmt.Sprintf("https://github.com/%s/%s.git", owner, repo)
	case ForgeGitLab:
		if host == "" {
			host = "gitlab.com"
		}
		return fmt.Sprintf("https://%s/%s/%s.git", host, owner, repo)
	case ForgeSourceHut:
		if host == "" {
			host = "git.sr.ht"
		}
		return fmt.Sprintf("https://%s/%s/%s", host, tildeOwner(owner), repo)
	case ForgeCodeberg:
		return fmt.Sprintf("https://codeberg.org/%s/%s.git", owner, repo)
	case ForgeGitea:
		if host == "" {
			host = "gitea.com"
		}
		return fmt.Sprintf("https://%s/%s/%s.git", host, owner, repo)
	default:
		return ""
	}
}

// LockURL returns the flake locator string pinning owner/repo to rev,
// suitable as an --override-input argument. Generic returns "".
func (f ForgeType) LockURL(owner, repo, rev, host string) string {
	switch f {
	case ForgeGitHub:
		return fmt.Sprintf("github:%s/%s/%s", owner, repo, rev)
	case ForgeGitLab:
		if host == "" || host == "gitlab.com" {
			return fmt.Sprintf("gitlab:%s/%s/%s", owner, repo, rev)
		}
		return fmt.Sprintf("git+https://%s/%s/%s?rev=%s", host, owner, repo, rev)
	case ForgeSourceHut:
		return fmt.Sprintf("sourcehut:%s/%s/%s", tildeOwner(owner), repo, rev)
	case ForgeCodeberg:
		return fmt.Sprintf("git+https://codeberg.org/%s/%s?rev=%s", owner, repo, rev)
	case ForgeGitea:
		if host == "" {
			host = "gitea.com"
		}
		return fmt.Sprintf("git+https://%s/%s/%s?rev=%s", host, owner, repo, rev)
	default:
		return ""
	}
}

// ParseOwnerRepo extracts the owner and repository name from a raw remote
// URL. It handles git+ prefixes, https/http/ssh schemes and SCP-style
// user@host:path remotes, and keeps nested subgroups in the owner part.
// Returns ok=false when the URL has no usable path segments.
func ParseOwnerRepo(rawURL string) (owner, repo string, ok bool) {
	s := strings.TrimPrefix(rawURL, "git+")

	// Drop query and fragment before carving up the path.
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}

	switch {
	case strings.HasPrefix(s, "https://"), strings.HasPrefix(s, "http://"), strings.HasPrefix(s, "ssh://"):
		s = s[strings.Index(s, "://")+3:]
		// Drop user@ and the authority.
		if i := strings.Index(s, "/"); i >= 0 {
			s = s[i+1:]
		} else {
			return "", "", false
		}
	case strings.Contains(s, "@") && strings.Contains(s, ":"):
		// SCP-style: user@host:owner/repo
		s = s[strings.Index(s, ":")+1:]
	}

	s = strings.TrimSuffix(s, ".git")
	s = strings.Trim(s, "/")
	if s == "" {
		return "", "", false
	}

	segs := strings.Split(s, "/")
	if len(segs) < 2 {
		return "", "", false
	}
	return strings.Join(segs[:len(segs)-1], "/"), segs[len(segs)-1], true
}

func tildeOwner(owner string) string {
	if strings.HasPrefix(owner, "~") {
		return owner
	}
	return "~" + owner
}
