package cmd

import (
	"fmt"
	"os"

	"github.com/bianoble/flakewatch/internal/config"
	"github.com/bianoble/flakewatch/internal/git"
	"github.com/bianoble/flakewatch/internal/nix"
)

// loadConfig reads the config file, falling back to defaults if missing.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// newNixService creates the nix CLI wrapper with configured timeouts.
func newNixService(cfg *config.Config, canceller *git.Canceller) *nix.Service {
	svc := nix.NewService(canceller)
	svc.Timeout = cfg.NixTimeout()
	return svc
}

// newGitService creates the update/changelog engine from the config.
func newGitService(cfg *config.Config, canceller *git.Canceller) *git.Service {
	return git.NewService(canceller, git.Options{
		CacheDir:         cfg.CacheDir,
		Concurrency:      int64(cfg.GitConcurrency),
		HTTPTimeout:      cfg.HTTPTimeout(),
		CheckTimeout:     cfg.UpdateCheckTimeout(),
		ChangelogTimeout: cfg.ChangelogTimeout(),
		GitHubToken:      os.Getenv(cfg.GitHubTokenEnv),
	})
}

// resolveFlake normalizes the --flake argument to a flake directory.
func resolveFlake() (string, error) {
	path, err := nix.ResolveFlakePath(flakePath)
	if err != nil {
		return "", fmt.Errorf("resolving flake path: %w", err)
	}
	return path, nil
}

// info prints a line unless quiet mode is active.
func info(format string, args ...any) {
	if !quiet {
		fmt.Printf(format+"\n", args...)
	}
}

// detail prints a line only in verbose mode.
func detail(format string, args ...any) {
	if verbose {
		fmt.Printf("  "+format+"\n", args...)
	}
}

// errorf prints an error message to stderr.
func errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
