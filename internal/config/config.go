// Copyright 2026 Pullstat Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides configuration management for pullstat with support
// for multiple configuration sources and a well-defined precedence order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables
//  3. Configuration file
//  4. Built-in defaults
//
// The package supports YAML configuration files and provides automatic
// discovery of configuration in standard locations. It's designed to work
// seamlessly with GitHub Enterprise deployments through custom endpoints.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValidStates are the accepted values for the pull-request state filter.
var ValidStates = map[string]bool{
	"all":    true,
	"open":   true,
	"closed": true,
}

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from that
// specific file. Otherwise, it searches standard locations:
//   - .pullstat.yaml (current directory)
//   - .pullstat.yml (current directory)
//   - ~/.pullstat/config.yaml
//   - ~/.pullstat/config.yml
//
// Environment variables are applied after loading the config file, allowing
// runtime overrides.
//
// Returns an error if the specified config file cannot be loaded, but will
// succeed with defaults if no config file is found in standard locations.
func LoadConfig(configPath string) (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		// Try default locations
		defaultPaths := []string{
			".pullstat.yaml",
			".pullstat.yml",
			filepath.Join(os.Getenv("HOME"), ".pullstat", "config.yaml"),
			filepath.Join(os.Getenv("HOME"), ".pullstat", "config.yml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	return cfg, nil
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	// GitHub endpoints
	if endpoint := os.Getenv("GITHUB_API_ENDPOINT"); endpoint != "" {
		cfg.GitHub.APIEndpoint = endpoint
	}
	if endpoint := os.Getenv("GITHUB_GRAPHQL_ENDPOINT"); endpoint != "" {
		cfg.GitHub.GraphQLEndpoint = endpoint
	}

	// Scan defaults
	if window := os.Getenv("PULLSTAT_WINDOW_DAYS"); window != "" {
		if days, err := parsePositiveInt(window); err == nil {
			cfg.Defaults.WindowDays = days
		}
	}
	if maxPerRepo := os.Getenv("PULLSTAT_MAX_PER_REPO"); maxPerRepo != "" {
		if n, err := parsePositiveInt(maxPerRepo); err == nil {
			cfg.Defaults.MaxPerRepo = n
		}
	}
	if state := os.Getenv("PULLSTAT_STATE"); state != "" {
		cfg.Defaults.State = strings.ToLower(strings.TrimSpace(state))
	}
	if drafts := os.Getenv("PULLSTAT_INCLUDE_DRAFTS"); drafts != "" {
		cfg.Defaults.IncludeDrafts = parseBool(drafts)
	}
}

// parsePositiveInt parses a string to a positive integer
func parsePositiveInt(s string) (int, error) {
	var i int
	_, err := fmt.Sscanf(s, "%d", &i)
	if err != nil {
		return 0, fmt.Errorf("failed to parse integer from '%s': %w", s, err)
	}
	if i <= 0 {
		return 0, fmt.Errorf("value must be positive, got: %d", i)
	}
	return i, nil
}

// parseBool parses various boolean representations
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "yes" || s == "1" || s == "on"
}

// Validate checks if the configuration contains valid values. It ensures the
// scan window and result cap are positive, the state filter is a known value,
// and endpoints are not empty. This should be called after loading
// configuration to catch invalid settings early.
func (c *Config) Validate() error {
	if c.Defaults.WindowDays <= 0 {
		return fmt.Errorf("window must be positive, got: %d", c.Defaults.WindowDays)
	}
	if c.Defaults.MaxPerRepo <= 0 {
		return fmt.Errorf("max results per repository must be positive, got: %d", c.Defaults.MaxPerRepo)
	}
	if !ValidStates[c.Defaults.State] {
		return fmt.Errorf("invalid state filter %q (must be: all, open, closed)", c.Defaults.State)
	}
	if c.GitHub.APIEndpoint == "" {
		return fmt.Errorf("GitHub API endpoint cannot be empty")
	}
	if c.GitHub.GraphQLEndpoint == "" {
		return fmt.Errorf("GitHub GraphQL endpoint cannot be empty")
	}
	if c.RateLimit.MinRemaining < 0 {
		return fmt.Errorf("rate limit floor cannot be negative, got: %d", c.RateLimit.MinRemaining)
	}
	return nil
}
