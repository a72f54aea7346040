package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

const configFileName = "flakewatch.yaml"
const configDirName = "flakewatch"

// Load reads and validates a flakewatch.yaml configuration file.
// A missing file is not an error: the built-in defaults are returned.
// Fields absent from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if errs := Validate(cfg); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return cfg, nil
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks a Config for semantic correctness.
// Returns a list of validation error messages (empty if valid).
func Validate(cfg *Config) []string {
	var errs []string

	if cfg.GitConcurrency < 1 {
		errs = append(errs, fmt.Sprintf("git_concurrency must be at least 1, got %d", cfg.GitConcurrency))
	}

	checkTimeout := func(name string, v int) {
		if v < 1 {
			errs = append(errs, fmt.Sprintf("timeouts.%s must be at least 1 second, got %d", name, v))
		}
	}
	checkTimeout("nix_command", cfg.Timeouts.NixCommand)
	checkTimeout("update_check", cfg.Timeouts.UpdateCheck)
	checkTimeout("changelog", cfg.Timeouts.Changelog)
	checkTimeout("http", cfg.Timeouts.HTTP)

	if cfg.GitHubTokenEnv != "" && strings.ContainsAny(cfg.GitHubTokenEnv, "= \t") {
		errs = append(errs, fmt.Sprintf("github_token_env is not a valid environment variable name: %q", cfg.GitHubTokenEnv))
	}

	return errs
}

// DefaultPath returns the platform-standard user config path.
func DefaultPath() string {
	if runtime.GOOS != "windows" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, configDirName, configFileName)
		}
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, configDirName, configFileName)
}
