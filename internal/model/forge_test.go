package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectForge(t *testing.T) {
	tests := []struct {
		lockType string
		url      string
		want     ForgeType
	}{
		{"github", "", ForgeGitHub},
		{"gitlab", "", ForgeGitLab},
		{"sourcehut", "", ForgeSourceHut},
		{"git", "https://github.com/owner/repo", ForgeGitHub},
		{"git", "https://gitlab.com/group/repo", ForgeGitLab},
		{"git", "https://gitlab.example.org/group/repo", ForgeGitLab},
		{"git", "https://git.sr.ht/~owner/repo", ForgeSourceHut},
		{"git", "https://codeberg.org/LGFae/awww", ForgeCodeberg},
		{"git", "https://gitea.example.com/owner/repo", ForgeGitea},
		{"git", "https://example.com/owner/repo", ForgeGeneric},
		{"path", "", ForgeGeneric},
		{"tarball", "https://github.com/owner/repo", ForgeGeneric},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectForge(tt.lockType, tt.url), "DetectForge(%q, %q)", tt.lockType, tt.url)
	}
}

func TestParseOwnerRepo(t *testing.T) {
	tests := []struct {
		url   string
		owner string
		repo  string
		ok    bool
	}{
		{"https://github.com/NixOS/nixpkgs", "NixOS", "nixpkgs", true},
		{"https://github.com/NixOS/nixpkgs.git", "NixOS", "nixpkgs", true},
		{"git+https://codeberg.org/LGFae/awww", "LGFae", "awww", true},
		{"git+https://example.com/owner/repo?ref=main&rev=abc", "owner", "repo", true},
		{"git@github.com:owner/repo.git", "owner", "repo", true},
		{"ssh://git@github.com/owner/repo.git", "owner", "repo", true},
		{"https://gitlab.com/group/subgroup/repo", "group/subgroup", "repo", true},
		{"https://git.sr.ht/~owner/repo", "~owner", "repo", true},
		{"https://example.com/", "", "", false},
		{"https://example.com/justone", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		owner, repo, ok := ParseOwnerRepo(tt.url)
		assert.Equal(t, tt.ok, ok, "ok for %q", tt.url)
		assert.Equal(t, tt.owner, owner, "owner for %q", tt.url)
		assert.Equal(t, tt.repo, repo, "repo for %q", tt.url)
	}
}

func TestCloneURL(t *testing.T) {
	assert.Equal(t, "https://github.com/NixOS/nixpkgs.git", ForgeGitHub.CloneURL("NixOS", "nixpkgs", ""))
	assert.Equal(t, "https://gitlab.com/group/repo.git", ForgeGitLab.CloneURL("group", "repo", ""))
	assert.Equal(t, "https://gitlab.example.org/group/repo.git", ForgeGitLab.CloneURL("group", "repo", "gitlab.example.org"))
	assert.Equal(t, "https://git.sr.ht/~owner/repo", ForgeSourceHut.CloneURL("owner", "repo", ""))
	assert.Equal(t, "https://git.sr.ht/~owner/repo", ForgeSourceHut.CloneURL("~owner", "repo", ""))
	assert.Equal(t, "https://codeberg.org/LGFae/awww.git", ForgeCodeberg.CloneURL("LGFae", "awww", ""))
	assert.Equal(t, "", ForgeGeneric.CloneURL("owner", "repo", ""))
}

func TestLockURL(t *testing.T) {
	assert.Equal(t, "github:NixOS/nixpkgs/abc1234", ForgeGitHub.LockURL("NixOS", "nixpkgs", "abc1234", ""))
	assert.Equal(t, "gitlab:group/repo/abc1234", ForgeGitLab.LockURL("group", "repo", "abc1234", ""))
	assert.Equal(t, "git+https://gitlab.example.org/group/repo?rev=abc1234",
		ForgeGitLab.LockURL("group", "repo", "abc1234", "gitlab.example.org"))
	assert.Equal(t, "sourcehut:~owner/repo/abc1234", ForgeSourceHut.LockURL("owner", "repo", "abc1234", ""))
	assert.Equal(t, "git+https://codeberg.org/LGFae/awww?rev=abc1234",
		ForgeCodeberg.LockURL("LGFae", "awww", "abc1234", ""))
	assert.Equal(t, "", ForgeGeneric.LockURL("owner", "repo", "abc1234", ""))
}

// A clone URL derived from forge coordinates must parse back to the same
// owner and repo, so lock URLs built after a fallback walk stay correct.
func TestCloneURLRoundTrip(t *testing.T) {
	for _, forge := range []ForgeType{ForgeGitHub, ForgeGitLab, ForgeSourceHut, ForgeCodeberg, ForgeGitea} {
		clone := forge.CloneURL("owner", "repo", "")
		owner, repo, ok := ParseOwnerRepo(clone)
		assert.True(t, ok, "parse %q", clone)
		if forge == ForgeSourceHut {
			assert.Equal(t, "~owner", owner)
		} else {
			assert.Equal(t, "owner", owner)
		}
		assert.Equal(t, "repo", repo)
	}
}
