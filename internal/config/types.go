package config

import "time"

// Config represents the flakewatch.yaml configuration file.
type Config struct {
	Timeouts       Timeouts `yaml:"timeouts,omitempty"`
	GitConcurrency int      `yaml:"git_concurrency,omitempty"`
	CacheDir       string   `yaml:"cache_dir,omitempty"`
	GitHubTokenEnv string   `yaml:"github_token_env,omitempty"`
}

// Timeouts holds per-operation timeout settings, in seconds.
type Timeouts struct {
	NixCommand  int `yaml:"nix_command,omitempty"`
	UpdateCheck int `yaml:"update_check,omitempty"`
	Changelog   int `yaml:"changelog,omitempty"`
	HTTP        int `yaml:"http,omitempty"`
}

// Default returns a Config populated with the built-in defaults.
func Default() *Config {
	return &Config{
		Timeouts: Timeouts{
			NixCommand:  120,
			UpdateCheck: 120,
			Changelog:   120,
			HTTP:        30,
		},
		GitConcurrency: 10,
		GitHubTokenEnv: "GITHUB_TOKEN",
	}
}

// NixTimeout returns the nix command timeout as a duration.
func (c *Config) NixTimeout() time.Duration {
	return time.Duration(c.Timeouts.NixCommand) * time.Second
}

// UpdateCheckTimeout returns the per-input update check timeout as a duration.
func (c *Config) UpdateCheckTimeout() time.Duration {
	return time.Duration(c.Timeouts.UpdateCheck) * time.Second
}

// ChangelogTimeout returns the changelog load timeout as a duration.
func (c *Config) ChangelogTimeout() time.Duration {
	return time.Duration(c.Timeouts.Changelog) * time.Second
}

// HTTPTimeout returns the forge API request timeout as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.Timeouts.HTTP) * time.Second
}
