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

// FetchDetails retrieves reviews, issue comments and review comments for one
// pull request through three independent calls. Any failure logs a warning
// and returns all-empty Details: missing detail degrades the derived metrics
// but must not abort processing of the pull request or its repository.
func (c *RESTClient) FetchDetails(ctx context.Context, owner, repo string, number int) Details {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(pageSize))

	warn := func(what string, err error) {
		c.log.Warn("detail fetch failed, continuing without details",
			zap.String("repository", owner+"/"+repo),
			zap.Int("pull", number),
			zap.String("detail", what),
			zap.Error(err))
	}

	var d Details
	if err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/pulls/%d/reviews", owner, repo, number), q, &d.Reviews); err != nil {
		warn("reviews", err)
		return Details{}
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/issues/%d/comments", owner, repo, number), q, &d.IssueComments); err != nil {
		warn("issue comments", err)
		return Details{}
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/pulls/%d/comments", owner, repo, number), q, &d.ReviewComments); err != nil {
		warn("review comments", err)
		return Details{}
	}

	return d
}
