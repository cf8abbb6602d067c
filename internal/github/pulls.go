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
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

// ListPullRequests paginates a repository's pull requests, newest update
// first, and keeps the ones created at or after opts.Cutoff (and non-draft,
// unless opts.IncludeDrafts). Pagination stops on the first of: an empty
// page, a page whose last record was created before the cutoff, or the kept
// count reaching opts.MaxResults.
//
// The early stop on creation age is an approximation: the source sorts by
// update time, which only loosely tracks creation time. A recently updated
// old pull request can push genuinely in-window ones onto later pages that
// are never visited. The alternative is scanning the full history, which
// this enumerator deliberately does not do.
func (c *RESTClient) ListPullRequests(ctx context.Context, owner, repo string, opts ListOptions) ([]PullRequest, error) {
	state := opts.State
	if state == "" {
		state = "all"
	}
	path := fmt.Sprintf("/repos/%s/%s/pulls", owner, repo)

	var kept []PullRequest
	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("state", state)
		q.Set("sort", "updated")
		q.Set("direction", "desc")
		q.Set("per_page", strconv.Itoa(pageSize))
		q.Set("page", strconv.Itoa(page))

		var batch []PullRequest
		if err := c.getJSON(ctx, path, q, &batch); err != nil {
			return nil, fmt.Errorf("failed to list pull requests for %s/%s: %w", owner, repo, err)
		}

		if len(batch) == 0 {
			break
		}

		for _, pr := range batch {
			// A record without a creation timestamp defaults to the
			// zero time, which is always before the cutoff.
			if pr.CreatedAt == nil || pr.CreatedAt.Before(opts.Cutoff) {
				continue
			}
			if pr.Draft && !opts.IncludeDrafts {
				continue
			}
			kept = append(kept, pr)
		}

		if opts.MaxResults > 0 && len(kept) >= opts.MaxResults {
			break
		}

		last := batch[len(batch)-1]
		if last.CreatedAt != nil && last.CreatedAt.Before(opts.Cutoff) {
			break
		}

		if len(batch) < pageSize {
			break
		}
	}

	if opts.MaxResults > 0 && len(kept) > opts.MaxResults {
		kept = kept[:opts.MaxResults]
	}

	c.log.Debug("pull requests enumerated",
		zap.String("repository", owner+"/"+repo),
		zap.Int("count", len(kept)))
	return kept, nil
}
