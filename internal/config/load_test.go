package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 120*time.Second, cfg.NixTimeout())
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout())
	assert.Equal(t, 10, cfg.GitConcurrency)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flakewatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("git_concurrency: 4\ntimeouts:\n  http: 5\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.GitConcurrency)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout())
	// Unset fields keep their defaults.
	assert.Equal(t, 120*time.Second, cfg.UpdateCheckTimeout())
	assert.Equal(t, "GITHUB_TOKEN", cfg.GitHubTokenEnv)
}

func TestLoadFullFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flakewatch.yaml")
	content := `
timeouts:
  nix_command: 60
  update_check: 90
  changelog: 45
  http: 10
git_concurrency: 2
cache_dir: /var/cache/fw
github_token_env: FW_TOKEN
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 60*time.Second, cfg.NixTimeout())
	assert.Equal(t, 90*time.Second, cfg.UpdateCheckTimeout())
	assert.Equal(t, 45*time.Second, cfg.ChangelogTimeout())
	assert.Equal(t, "/var/cache/fw", cfg.CacheDir)
	assert.Equal(t, "FW_TOKEN", cfg.GitHubTokenEnv)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flakewatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timeouts: ["), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.GitConcurrency = 0
	cfg.Timeouts.HTTP = -1
	cfg.GitHubTokenEnv = "NOT VALID"

	errs := Validate(cfg)
	assert.Len(t, errs, 3)

	_, err := loadFromBytes(t, "git_concurrency: 0\n")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, verr.Errors)
}

func loadFromBytes(t *testing.T, content string) (*Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flakewatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return Load(path)
}
