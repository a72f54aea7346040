package nix

import "fmt"

// FlakeNotFoundError means no flake.nix exists at the requested path.
type FlakeNotFoundError struct {
	Path string
}

func (e *FlakeNotFoundError) Error() string {
	return fmt.Sprintf("no flake.nix found in %s", e.Path)
}

// CommandError wraps a failed nix invocation with its captured stderr.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("nix command failed: %s", e.Stderr)
	}
	return fmt.Sprintf("nix command failed: %v", e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ParseError means the metadata JSON could not be decoded.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse flake metadata: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
