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

	"github.com/shurcooL/graphql"

	pserrors "github.com/pullstathq/pullstat/internal/errors"
)

// GetRepositoryInfo retrieves basic repository metadata including the total
// PR count. It executes a minimal GraphQL query; the pipeline proper stays on
// the REST API, this exists only to give the progress display a denominator.
func (c *RESTClient) GetRepositoryInfo(ctx context.Context, owner, repo string) (*RepositoryInfo, error) {
	var query struct {
		Repository struct {
			PullRequests struct {
				TotalCount graphql.Int
			} `graphql:"pullRequests"`
		} `graphql:"repository(owner: $owner, name: $repo)"`
	}

	variables := map[string]interface{}{
		"owner": graphql.String(owner),
		"repo":  graphql.String(repo),
	}

	if err := c.graphql.Query(ctx, &query, variables); err != nil {
		return nil, c.mapGraphQLError(err, owner, repo)
	}

	return &RepositoryInfo{
		TotalPullRequests: int(query.Repository.PullRequests.TotalCount),
	}, nil
}

// mapGraphQLError maps GraphQL transport errors to the sentinel errors used
// for exit-code mapping.
func (c *RESTClient) mapGraphQLError(err error, owner, repo string) error {
	if err == nil {
		return nil
	}

	// Rate limit first: a 403 can be both auth and rate limit.
	if c.inspector.IsRateLimitError(err) {
		return fmt.Errorf("rate limited while querying %s/%s: %w", owner, repo, pserrors.ErrRateLimit)
	}
	if c.inspector.IsAuthError(err) {
		return fmt.Errorf("authentication failed while querying %s/%s: %w", owner, repo, pserrors.ErrInvalidToken)
	}
	if c.inspector.IsPermissionError(err) {
		return fmt.Errorf("access denied while querying %s/%s: %w", owner, repo, pserrors.ErrForbidden)
	}
	if c.inspector.IsNotFoundError(err) {
		return fmt.Errorf("repository %s/%s not found: %w", owner, repo, pserrors.ErrNotFound)
	}
	if c.inspector.IsNetworkError(err) {
		return fmt.Errorf("network error while querying %s/%s: %w", owner, repo, pserrors.ErrNetworkFailure)
	}
	return fmt.Errorf("failed to query repository %s/%s: %w", owner, repo, err)
}
