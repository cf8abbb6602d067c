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

// Package config types define the configuration structures used throughout
// pullstat. These types represent settings that can be loaded from YAML
// configuration files, environment variables, or command-line flags.
package config

import "time"

// Config represents the complete configuration for pullstat. It consolidates
// settings from various sources and provides a unified interface for
// accessing configuration values throughout the application.
type Config struct {
	GitHub    GitHubConfig    `yaml:"github"`
	Defaults  DefaultsConfig  `yaml:"defaults"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// GitHubConfig contains GitHub-specific settings including API endpoints and
// authentication configuration. This allows easy configuration for GitHub
// Enterprise deployments by specifying custom endpoints.
type GitHubConfig struct {
	APIEndpoint     string `yaml:"api_endpoint"`
	GraphQLEndpoint string `yaml:"graphql_endpoint"`
	TokenEnv        string `yaml:"token_env"`
}

// DefaultsConfig contains default scan settings that apply unless overridden
// by command-line flags.
type DefaultsConfig struct {
	WindowDays    int    `yaml:"window_days"`
	State         string `yaml:"state"`
	MaxPerRepo    int    `yaml:"max_per_repo"`
	IncludeDrafts bool   `yaml:"include_drafts"`
}

// RateLimitConfig controls the anticipatory rate-limit gate. MinRemaining is
// the quota floor below which calls pause until the reset time, PauseMargin
// is added on top of the reset wait, and Cooldown is the fixed wait applied
// after a rate-limited 403 before retrying.
type RateLimitConfig struct {
	MinRemaining int           `yaml:"min_remaining"`
	PauseMargin  time.Duration `yaml:"pause_margin"`
	Cooldown     time.Duration `yaml:"cooldown"`
}

// DefaultConfig returns a Config with sensible defaults suitable for most use
// cases. These defaults are optimized for public GitHub.com usage but can be
// overridden for GitHub Enterprise or special requirements.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			APIEndpoint:     "https://api.github.com",
			GraphQLEndpoint: "https://api.github.com/graphql",
			TokenEnv:        "GITHUB_TOKEN",
		},
		Defaults: DefaultsConfig{
			WindowDays: 30,
			State:      "all",
			MaxPerRepo: 200,
		},
		RateLimit: RateLimitConfig{
			MinRemaining: 10,
			PauseMargin:  5 * time.Second,
			Cooldown:     60 * time.Second,
		},
	}
}
