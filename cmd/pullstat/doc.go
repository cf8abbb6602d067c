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

// Package main implements the pullstat command-line interface. The tool
// scans the repositories of a GitHub organization or user, collects pull
// requests created within a configurable window, and emits one CSV row of
// derived metrics per pull request.
//
// The CLI supports:
//   - Organization-wide scans with automatic fallback to user accounts
//   - Single-repository scans via the --repo flag
//   - A basic mode that skips per-pull-request detail calls
//   - Customizable output destinations (stdout or file)
//   - GitHub token authentication via flag or environment variable
//   - YAML configuration files with environment overrides
//
// Usage:
//
//	pullstat scan <owner> [flags]
//
// Example:
//
//	export GITHUB_TOKEN=your_token
//	pullstat scan golang --window 90 --output metrics.csv
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Authentication/authorization error
//   - 3: Network error
package main
