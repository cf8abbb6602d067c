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

// Package errors defines sentinel errors for consistent error handling across the application.
// These errors map to specific exit codes in the CLI for proper scripting support.
package errors

import "errors"

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrInvalidToken indicates GitHub authentication failed (HTTP 401).
	// Maps to exit code 2.
	ErrInvalidToken = errors.New("invalid github token")

	// ErrForbidden indicates the token lacks permission for a resource
	// (HTTP 403 that is not a rate-limit rejection).
	// Maps to exit code 2.
	ErrForbidden = errors.New("access forbidden")

	// ErrNotFound indicates the requested owner, repository or resource
	// does not exist or is not accessible (HTTP 404).
	// Maps to exit code 2.
	ErrNotFound = errors.New("resource not found")

	// ErrRateLimit indicates the GitHub API rate limit has been exceeded
	// and retries could not recover.
	// Maps to exit code 2.
	ErrRateLimit = errors.New("github rate limit exceeded")

	// ErrNetworkFailure indicates a network connection problem that
	// persisted through the retry budget.
	// Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")
)
