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

package github

import "context"

// Client defines the interface for interacting with GitHub's API.
// This interface allows for easy mocking in tests.
type Client interface {
	// ListRepositories returns every repository of the owner, fully
	// materialized. The organization endpoint is tried first with a
	// fallback to the user endpoint.
	ListRepositories(ctx context.Context, owner string) ([]Repository, error)

	// ListPullRequests returns the pull requests of one repository that
	// satisfy opts, newest update first, capped at opts.MaxResults.
	ListPullRequests(ctx context.Context, owner, repo string, opts ListOptions) ([]PullRequest, error)

	// FetchDetails retrieves reviews and comments for one pull request.
	// It never fails: any error degrades to all-empty Details, because
	// missing detail reduces metrics quality but must not abort the
	// enclosing pull request or repository.
	FetchDetails(ctx context.Context, owner, repo string, number int) Details

	// GetRepositoryInfo retrieves basic repository metadata including the
	// total PR count. Used for progress display.
	GetRepositoryInfo(ctx context.Context, owner, repo string) (*RepositoryInfo, error)
}
