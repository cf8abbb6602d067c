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

package metrics

import (
	"math"
	"strings"
	"time"

	"github.com/pullstathq/pullstat/internal/github"
)

// Derive computes the output record for one pull request and its detail data.
// Every duration anchors on the creation timestamp; when creation or the
// terminating event is absent the duration is nil. Degraded (all-empty)
// details simply yield nil first-review and first-comment durations and zero
// counts.
func Derive(pr github.PullRequest, details github.Details) PRMetrics {
	m := PRMetrics{
		PullNumber:   pr.Number,
		Title:        escapeTitle(pr.Title),
		State:        pr.State,
		IsDraft:      pr.Draft,
		CreatedAt:    pr.CreatedAt,
		UpdatedAt:    pr.UpdatedAt,
		ClosedAt:     pr.ClosedAt,
		MergedAt:     pr.MergedAt,
		Additions:    pr.Additions,
		Deletions:    pr.Deletions,
		ChangedFiles: pr.ChangedFiles,
		Commits:      pr.Commits,
		URL:          pr.HTMLURL,
	}

	if pr.User != nil {
		m.Author = pr.User.Login
	}
	if pr.Base != nil && pr.Base.Repo != nil {
		m.Repository = pr.Base.Repo.Name
	}

	m.TimeToClose = hoursBetween(pr.CreatedAt, pr.ClosedAt)
	m.TimeToMerge = hoursBetween(pr.CreatedAt, pr.MergedAt)
	m.TimeToFirstReview = hoursBetween(pr.CreatedAt, firstReviewAt(details.Reviews))
	m.TimeToFirstComment = hoursBetween(pr.CreatedAt, firstCommentAt(details.IssueComments, details.ReviewComments))

	m.TotalReviews = len(details.Reviews)
	m.TotalComments = len(details.IssueComments) + len(details.ReviewComments)

	return m
}

// hoursBetween returns the elapsed hours from start to end, rounded to two
// decimals, or nil when either endpoint is absent.
func hoursBetween(start, end *time.Time) *float64 {
	if start == nil || end == nil {
		return nil
	}
	h := math.Round(end.Sub(*start).Hours()*100) / 100
	return &h
}

// firstReviewAt returns the earliest review submission time. Reviews still
// pending carry no submission time and do not count.
func firstReviewAt(reviews []github.Review) *time.Time {
	var first *time.Time
	for _, r := range reviews {
		if r.SubmittedAt == nil {
			continue
		}
		if first == nil || r.SubmittedAt.Before(*first) {
			first = r.SubmittedAt
		}
	}
	return first
}

// firstCommentAt returns the earliest creation time across conversation
// comments and inline review comments.
func firstCommentAt(groups ...[]github.Comment) *time.Time {
	var first *time.Time
	for _, comments := range groups {
		for _, c := range comments {
			if c.CreatedAt == nil {
				continue
			}
			if first == nil || c.CreatedAt.Before(*first) {
				first = c.CreatedAt
			}
		}
	}
	return first
}

// escapeTitle doubles embedded double quotes so a title can be emitted inside
// a quoted CSV field as-is.
func escapeTitle(title string) string {
	return strings.ReplaceAll(title, `"`, `""`)
}
