package nix

import (
	"errors"
	"testing"

	"github.com/bianoble/flakewatch/internal/model"
)

const metadataFixture = `{
  "description": "test flake",
  "locks": {
    "root": "root",
    "nodes": {
      "root": {
        "inputs": {
          "nixpkgs": "nixpkgs",
          "home-manager": ["home-manager"],
          "awww": "awww",
          "secrets": "secrets",
          "tarball": "tarball"
        }
      },
      "nixpkgs": {
        "locked": {
          "type": "github",
          "owner": "NixOS",
          "repo": "nixpkgs",
          "rev": "abc1234567890abcdef1234567890abcdef12345",
          "lastModified": 1724600000
        },
        "original": {
          "type": "github",
          "owner": "NixOS",
          "repo": "nixpkgs",
          "ref": "nixos-unstable"
        }
      },
      "home-manager": {
        "locked": {
          "type": "github",
          "owner": "nix-community",
          "repo": "home-manager",
          "rev": "def4567890123def4567890123def4567890123d",
          "lastModified": 1724500000
        },
        "original": {"type": "github", "owner": "nix-community", "repo": "home-manager"}
      },
      "awww": {
        "locked": {
          "type": "git",
          "url": "https://codeberg.org/LGFae/awww",
          "rev": "777888999000777888999000777888999000aaaa",
          "lastModified": 1724400000
        },
        "original": {"type": "git", "url": "https://codeberg.org/LGFae/awww"}
      },
      "secrets": {
        "locked": {"type": "path", "path": "/etc/secrets"},
        "original": {"type": "path", "path": "/etc/secrets"}
      },
      "tarball": {
        "locked": {
          "type": "tarball",
          "url": "https://example.com/release.tar.gz",
          "lastModified": 1724300000
        },
        "original": {"type": "tarball", "url": "https://example.com/release.tar.gz"}
      }
    }
  }
}`

func TestParseMetadata(t *testing.T) {
	data, err := parseMetadata("/flake", []byte(metadataFixture))
	if err != nil {
		t.Fatalf("parseMetadata: %v", err)
	}

	if data.Description != "test flake" {
		t.Errorf("description = %q", data.Description)
	}
	if len(data.Inputs) != 5 {
		t.Fatalf("inputs = %d, want 5", len(data.Inputs))
	}

	// Sorted case-insensitively by name.
	wantOrder := []string{"awww", "home-manager", "nixpkgs", "secrets", "tarball"}
	for i, want := range wantOrder {
		if got := data.Inputs[i].Name(); got != want {
			t.Errorf("inputs[%d] = %q, want %q", i, got, want)
		}
	}

	nixpkgs := data.Input("nixpkgs")
	if nixpkgs == nil || nixpkgs.Git == nil {
		t.Fatal("nixpkgs should be a git input")
	}
	if nixpkgs.Git.Forge != model.ForgeGitHub {
		t.Errorf("nixpkgs forge = %v", nixpkgs.Git.Forge)
	}
	if nixpkgs.Git.Reference != "nixos-unstable" {
		t.Errorf("nixpkgs reference = %q", nixpkgs.Git.Reference)
	}
	if nixpkgs.ShortRev() != "abc1234" {
		t.Errorf("nixpkgs rev = %q", nixpkgs.ShortRev())
	}
	if nixpkgs.Git.URL != "github:NixOS/nixpkgs" {
		t.Errorf("nixpkgs url = %q", nixpkgs.Git.URL)
	}

	// Generic git input recovers owner/repo from the URL.
	awww := data.Input("awww")
	if awww == nil || awww.Git == nil {
		t.Fatal("awww should be a git input")
	}
	if awww.Git.Owner != "LGFae" || awww.Git.Repo != "awww" {
		t.Errorf("awww owner/repo = %q/%q", awww.Git.Owner, awww.Git.Repo)
	}
	if awww.Git.Forge != model.ForgeCodeberg {
		t.Errorf("awww forge = %v", awww.Git.Forge)
	}

	if in := data.Input("secrets"); in == nil || in.Kind != model.KindPath {
		t.Error("secrets should be a path input")
	}
	if in := data.Input("tarball"); in == nil || in.Kind != model.KindOther {
		t.Error("tarball should be an other input")
	}
}

func TestParseMetadataGitNoOwner(t *testing.T) {
	raw := `{
  "locks": {
    "root": "root",
    "nodes": {
      "root": {"inputs": {"weird": "weird"}},
      "weird": {
        "locked": {"type": "git", "url": "https://example.com/repo", "rev": "aaa"},
        "original": {"type": "git", "url": "https://example.com/repo"}
      }
    }
  }
}`
	data, err := parseMetadata("/flake", []byte(raw))
	if err != nil {
		t.Fatalf("parseMetadata: %v", err)
	}
	in := data.Input("weird")
	if in == nil {
		t.Fatal("weird input missing")
	}
	if in.Kind != model.KindOther {
		t.Errorf("kind = %v, want KindOther when owner/repo unrecoverable", in.Kind)
	}
}

func TestParseMetadataInvalid(t *testing.T) {
	_, err := parseMetadata("/flake", []byte("not json"))
	if err == nil {
		t.Fatal("expected parse error")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Errorf("error type = %T", err)
	}
}
