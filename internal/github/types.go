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

import "time"

// Repository is a repository reference produced by the listing endpoints or
// synthesized when a single repository is requested directly.
type Repository struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
}

// User is a GitHub account reference.
type User struct {
	Login string `json:"login"`
}

// BaseRef is the base branch reference of a pull request. Only the owning
// repository is of interest here.
type BaseRef struct {
	Repo *Repository `json:"repo"`
}

// PullRequest is the REST representation of a pull request. The upstream
// payload is loosely typed: every field may be absent, so optional fields are
// pointer-typed and consumers must check presence instead of assuming values.
type PullRequest struct {
	Number       int        `json:"number"`
	Title        string     `json:"title"`
	State        string     `json:"state"`
	Draft        bool       `json:"draft"`
	HTMLURL      string     `json:"html_url"`
	User         *User      `json:"user"`
	Base         *BaseRef   `json:"base"`
	CreatedAt    *time.Time `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
	ClosedAt     *time.Time `json:"closed_at"`
	MergedAt     *time.Time `json:"merged_at"`
	Additions    int        `json:"additions"`
	Deletions    int        `json:"deletions"`
	ChangedFiles int        `json:"changed_files"`
	Commits      int        `json:"commits"`
}

// Review is a pull request review. Only the submission timestamp matters for
// timing metrics; reviews still pending have no submitted_at.
type Review struct {
	SubmittedAt *time.Time `json:"submitted_at"`
}

// Comment is an issue comment or review comment on a pull request.
type Comment struct {
	CreatedAt *time.Time `json:"created_at"`
}

// Details holds the per-pull-request enrichment data: reviews, conversation
// comments, and inline review comments. Each slice may be empty, including
// when the detail fetch failed and degraded to the zero value.
type Details struct {
	Reviews        []Review
	IssueComments  []Comment
	ReviewComments []Comment
}

// ListOptions configures a pull request listing.
type ListOptions struct {
	// State filters by pull request state: "all", "open" or "closed".
	// Empty defaults to "all".
	State string

	// Cutoff excludes pull requests created before this instant.
	Cutoff time.Time

	// IncludeDrafts keeps draft pull requests in the result.
	IncludeDrafts bool

	// MaxResults caps the number of pull requests returned for one
	// repository. Zero or negative means no cap.
	MaxResults int
}

// RepositoryInfo contains basic repository metadata. Used to give the
// progress display a total when scanning a single repository.
type RepositoryInfo struct {
	TotalPullRequests int
}

// pageSize is the fixed page size used for all paginated listing calls,
// GitHub's documented maximum.
const pageSize = 100
