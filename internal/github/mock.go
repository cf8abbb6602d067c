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

import (
	"context"
	"fmt"
)

// MockClient is a mock implementation of the Client interface for testing.
type MockClient struct {
	// Repos to return from ListRepositories.
	Repos []Repository

	// ReposErr, when set, fails ListRepositories.
	ReposErr error

	// PullsByRepo maps repository name to the pull requests to return.
	PullsByRepo map[string][]PullRequest

	// PullsErrByRepo maps repository name to a listing error.
	PullsErrByRepo map[string]error

	// DetailsByKey maps "repo#number" to the details to return. Missing
	// keys yield all-empty Details, like a degraded fetch.
	DetailsByKey map[string]Details

	// InfoByRepo maps repository name to repository metadata.
	InfoByRepo map[string]*RepositoryInfo

	// InfoErr, when set, fails GetRepositoryInfo.
	InfoErr error

	// Call tracking for verification.
	ListRepoCalls int
	ListPullCalls int
	DetailCalls   int
	LastOwner     string
	LastOpts      ListOptions
}

// DetailKey builds the lookup key used by DetailsByKey.
func DetailKey(repo string, number int) string {
	return fmt.Sprintf("%s#%d", repo, number)
}

// ListRepositories implements the Client interface.
func (m *MockClient) ListRepositories(ctx context.Context, owner string) ([]Repository, error) {
	m.ListRepoCalls++
	m.LastOwner = owner

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.ReposErr != nil {
		return nil, m.ReposErr
	}
	return m.Repos, nil
}

// ListPullRequests implements the Client interface.
func (m *MockClient) ListPullRequests(ctx context.Context, owner, repo string, opts ListOptions) ([]PullRequest, error) {
	m.ListPullCalls++
	m.LastOwner = owner
	m.LastOpts = opts

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := m.PullsErrByRepo[repo]; ok {
		return nil, err
	}

	prs := m.PullsByRepo[repo]
	if opts.MaxResults > 0 && len(prs) > opts.MaxResults {
		prs = prs[:opts.MaxResults]
	}
	return prs, nil
}

// FetchDetails implements the Client interface.
func (m *MockClient) FetchDetails(ctx context.Context, owner, repo string, number int) Details {
	m.DetailCalls++
	return m.DetailsByKey[DetailKey(repo, number)]
}

// GetRepositoryInfo implements the Client interface.
func (m *MockClient) GetRepositoryInfo(ctx context.Context, owner, repo string) (*RepositoryInfo, error) {
	if m.InfoErr != nil {
		return nil, m.InfoErr
	}
	if info, ok := m.InfoByRepo[repo]; ok {
		return info, nil
	}
	return &RepositoryInfo{}, nil
}
