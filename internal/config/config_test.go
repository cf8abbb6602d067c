package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "https://api.github.com", cfg.GitHub.APIEndpoint)
	assert.Equal(t, "https://api.github.com/graphql", cfg.GitHub.GraphQLEndpoint)
	assert.Equal(t, "GITHUB_TOKEN", cfg.GitHub.TokenEnv)
	assert.Equal(t, 30, cfg.Defaults.WindowDays)
	assert.Equal(t, "all", cfg.Defaults.State)
	assert.Equal(t, 200, cfg.Defaults.MaxPerRepo)
	assert.False(t, cfg.Defaults.IncludeDrafts)
	assert.Equal(t, 10, cfg.RateLimit.MinRemaining)
	assert.Equal(t, 5*time.Second, cfg.RateLimit.PauseMargin)
	assert.Equal(t, 60*time.Second, cfg.RateLimit.Cooldown)

	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
github:
  api_endpoint: https://github.example.com/api/v3
  token_env: GHE_TOKEN
defaults:
  window_days: 14
  state: closed
  max_per_repo: 50
  include_drafts: true
rate_limit:
  min_remaining: 25
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://github.example.com/api/v3", cfg.GitHub.APIEndpoint)
	assert.Equal(t, "GHE_TOKEN", cfg.GitHub.TokenEnv)
	assert.Equal(t, 14, cfg.Defaults.WindowDays)
	assert.Equal(t, "closed", cfg.Defaults.State)
	assert.Equal(t, 50, cfg.Defaults.MaxPerRepo)
	assert.True(t, cfg.Defaults.IncludeDrafts)
	assert.Equal(t, 25, cfg.RateLimit.MinRemaining)

	// Values absent from the file keep their defaults.
	assert.Equal(t, "https://api.github.com/graphql", cfg.GitHub.GraphQLEndpoint)
	assert.Equal(t, 60*time.Second, cfg.RateLimit.Cooldown)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("defaults: [not a map"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("GITHUB_API_ENDPOINT", "https://ghe.internal/api/v3")
	t.Setenv("PULLSTAT_WINDOW_DAYS", "7")
	t.Setenv("PULLSTAT_MAX_PER_REPO", "25")
	t.Setenv("PULLSTAT_STATE", "Open")
	t.Setenv("PULLSTAT_INCLUDE_DRAFTS", "yes")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "https://ghe.internal/api/v3", cfg.GitHub.APIEndpoint)
	assert.Equal(t, 7, cfg.Defaults.WindowDays)
	assert.Equal(t, 25, cfg.Defaults.MaxPerRepo)
	assert.Equal(t, "open", cfg.Defaults.State)
	assert.True(t, cfg.Defaults.IncludeDrafts)
}

func TestLoadConfig_EnvIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("PULLSTAT_WINDOW_DAYS", "-3")
	t.Setenv("PULLSTAT_MAX_PER_REPO", "lots")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Defaults.WindowDays)
	assert.Equal(t, 200, cfg.Defaults.MaxPerRepo)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "zero window",
			mutate:  func(c *Config) { c.Defaults.WindowDays = 0 },
			wantErr: "window",
		},
		{
			name:    "zero max",
			mutate:  func(c *Config) { c.Defaults.MaxPerRepo = 0 },
			wantErr: "max results",
		},
		{
			name:    "unknown state",
			mutate:  func(c *Config) { c.Defaults.State = "merged" },
			wantErr: "state",
		},
		{
			name:    "empty api endpoint",
			mutate:  func(c *Config) { c.GitHub.APIEndpoint = "" },
			wantErr: "API endpoint",
		},
		{
			name:    "empty graphql endpoint",
			mutate:  func(c *Config) { c.GitHub.GraphQLEndpoint = "" },
			wantErr: "GraphQL endpoint",
		},
		{
			name:    "negative rate limit floor",
			mutate:  func(c *Config) { c.RateLimit.MinRemaining = -1 },
			wantErr: "rate limit floor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
