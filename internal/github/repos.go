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

// ListRepositories returns every repository of the owner, fully materialized
// before the caller consumes it. The organization endpoint is tried first; if
// the very first page fails, the user endpoint serves the remainder of the
// run. A failure past page one is not a fallback trigger — the owner is
// assumed to be correctly identified by then — and aborts the enumeration.
func (c *RESTClient) ListRepositories(ctx context.Context, owner string) ([]Repository, error) {
	orgPath := fmt.Sprintf("/orgs/%s/repos", owner)
	userPath := fmt.Sprintf("/users/%s/repos", owner)

	path := orgPath
	var repos []Repository
	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("per_page", strconv.Itoa(pageSize))
		q.Set("page", strconv.Itoa(page))

		var batch []Repository
		if err := c.getJSON(ctx, path, q, &batch); err != nil {
			if page == 1 && path == orgPath {
				c.log.Info("organization listing failed, falling back to user repositories",
					zap.String("owner", owner),
					zap.Error(err))
				path = userPath
				page = 0
				continue
			}
			return nil, fmt.Errorf("failed to list repositories for %s: %w", owner, err)
		}

		repos = append(repos, batch...)
		if len(batch) < pageSize {
			break
		}
	}

	c.log.Debug("repositories enumerated",
		zap.String("owner", owner),
		zap.Int("count", len(repos)))
	return repos, nil
}
