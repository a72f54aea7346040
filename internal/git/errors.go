package git

import (
	"errors"
	"fmt"
)

// Distinguished error kinds. Cancellation and timeout are never conflated
// with each other or with ordinary failures.
var (
	// ErrCancelled means the shared cancellation flag was set before the
	// operation started. Pending work short-circuits without being marked
	// as failed.
	ErrCancelled = errors.New("operation cancelled")

	// ErrTimeout means the operation category's deadline expired.
	ErrTimeout = errors.New("operation timed out")

	// ErrRateLimited means a provider reported API rate-limit exhaustion.
	// It is reported directly and never downgraded to the clone fallback.
	ErrRateLimited = errors.New("API rate limit exceeded")

	// ErrNotFound means the remote repository does not exist or is not
	// reachable under the constructed URL.
	ErrNotFound = errors.New("repository not found")

	// ErrAuth means the fallback could not authenticate. Only the SSH
	// agent and the transport default are tried.
	ErrAuth = errors.New("authentication failed - ensure the SSH agent is running with valid keys")
)

// NetworkError wraps a transport-level failure (HTTP, DNS, TLS).
type NetworkError struct {
	Msg string
	Err error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("network error: %s: %v", e.Msg, e.Err)
	}
	return "network error: " + e.Msg
}

func (e *NetworkError) Unwrap() error { return e.Err }

// CloneError wraps a failure in the clone/fetch fallback path.
type CloneError struct {
	URL string
	Err error
}

func (e *CloneError) Error() string {
	return fmt.Sprintf("failed to clone repository %s: %v", e.URL, e.Err)
}

func (e *CloneError) Unwrap() error { return e.Err }

// CacheError wraps a cache directory or filesystem failure.
type CacheError struct {
	Path string
	Err  error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache directory error at %s: %v", e.Path, e.Err)
}

func (e *CacheError) Unwrap() error { return e.Err }
