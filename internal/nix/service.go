// Package nix drives the nix CLI: it reads flake metadata into the input
// list and applies lock updates. The CLI is treated as an opaque data
// source; all parsing happens on its JSON output.
package nix

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/bianoble/flakewatch/internal/git"
	"github.com/bianoble/flakewatch/internal/model"
	"github.com/rs/zerolog/log"
)

// DefaultTimeout bounds a single nix invocation.
const DefaultTimeout = 120 * time.Second

// Service runs nix commands for one flake.
type Service struct {
	Canceller *git.Canceller
	Timeout   time.Duration // 0 means DefaultTimeout
}

// NewService creates a Service sharing the given cancellation handle.
func NewService(canceller *git.Canceller) *Service {
	return &Service{Canceller: canceller, Timeout: DefaultTimeout}
}

// LoadMetadata reads the flake at path and returns its input list.
// path may be a directory, a flake.nix file, "." or empty.
func (s *Service) LoadMetadata(ctx context.Context, path string) (*model.FlakeData, error) {
	flakeDir, err := ResolveFlakePath(path)
	if err != nil {
		return nil, err
	}

	if _, statErr := os.Stat(filepath.Join(flakeDir, "flake.nix")); statErr != nil {
		return nil, &FlakeNotFoundError{Path: flakeDir}
	}

	out, err := s.run(ctx, "flake", "metadata", "--json", "--no-update-lock-file", flakeDir)
	if err != nil {
		return nil, err
	}

	return parseMetadata(flakeDir, out)
}

// Refresh re-reads the flake metadata from disk.
func (s *Service) Refresh(ctx context.Context, path string) (*model.FlakeData, error) {
	return s.LoadMetadata(ctx, path)
}

// UpdateInputs runs `nix flake update` for the named inputs.
func (s *Service) UpdateInputs(ctx context.Context, path string, names []string) error {
	if len(names) == 0 {
		return nil
	}
	args := append([]string{"flake", "update"}, names...)
	args = append(args, "--flake", path)
	_, err := s.run(ctx, args...)
	return err
}

// UpdateAll runs `nix flake update` for every input.
func (s *Service) UpdateAll(ctx context.Context, path string) error {
	_, err := s.run(ctx, "flake", "update", "--flake", path)
	return err
}

// LockInput pins the named input to the given locator string.
func (s *Service) LockInput(ctx context.Context, path, name, overrideURL string) error {
	_, err := s.run(ctx, "flake", "update", name,
		"--override-input", name, overrideURL, "--flake", path)
	return err
}

func (s *Service) run(ctx context.Context, args ...string) ([]byte, error) {
	if s.Canceller != nil && s.Canceller.Cancelled() {
		return nil, git.ErrCancelled
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	log.Debug().Strs("args", args).Msg("running nix")

	cmd := exec.CommandContext(ctx, "nix", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, git.ErrTimeout
		}
		if s.Canceller != nil && s.Canceller.Cancelled() {
			return nil, git.ErrCancelled
		}
		return nil, &CommandError{
			Args:   args,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}

	return stdout.Bytes(), nil
}

// ResolveFlakePath normalizes a flake argument to an absolute directory:
// "" and "." mean the working directory, and a trailing flake.nix is
// stripped to its parent.
func ResolveFlakePath(path string) (string, error) {
	if path == "" || path == "." {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		path = wd
	}

	if filepath.Base(path) == "flake.nix" {
		path = filepath.Dir(path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &FlakeNotFoundError{Path: path}
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", &FlakeNotFoundError{Path: abs}
	}
	return resolved, nil
}
