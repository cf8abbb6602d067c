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

// Package pipeline orchestrates a scan: repository enumeration, per-repository
// pull request listing, detail enrichment and metric derivation. It is the
// layer between the CLI and the API client, and the unit the CLI tests mock
// against.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pullstathq/pullstat/internal/github"
	"github.com/pullstathq/pullstat/internal/metrics"
)

// Options configures one scan run.
type Options struct {
	// Owner is the organization or user whose repositories are scanned.
	Owner string

	// Repo, when set, restricts the scan to this single repository and skips
	// repository enumeration entirely.
	Repo string

	// Cutoff excludes pull requests created before this instant.
	Cutoff time.Time

	// State filters pull requests: "all", "open" or "closed".
	State string

	// IncludeDrafts keeps draft pull requests.
	IncludeDrafts bool

	// MaxPerRepo caps the pull requests collected per repository. Zero means
	// no cap.
	MaxPerRepo int

	// Basic skips the per-pull-request detail calls. Review and comment
	// derived fields come out absent; the run costs one listing call per
	// page instead of three extra calls per pull request.
	Basic bool
}

// Pipeline runs scans against a Client and accumulates derived metrics.
type Pipeline struct {
	client github.Client
	log    *zap.Logger

	// Progress, when set, is invoked after each repository completes with
	// the repository name and the rows collected so far.
	Progress func(repo string, rows int)
}

// New creates a Pipeline.
func New(client github.Client, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{client: client, log: log}
}

// Run executes a scan and returns one metrics record per collected pull
// request, ordered by repository then by listing order.
//
// Failure policy: repository enumeration failure is fatal; a single
// repository's listing failure logs a warning and skips that repository so one
// broken or empty repository cannot sink an organization-wide scan. Detail
// failures never surface here at all, the client degrades them to empty.
// Cancellation is checked at each repository boundary and returns the rows
// collected so far alongside the context error.
func (p *Pipeline) Run(ctx context.Context, opts Options) ([]metrics.PRMetrics, error) {
	repos, err := p.resolveRepos(ctx, opts)
	if err != nil {
		return nil, err
	}

	listOpts := github.ListOptions{
		State:         opts.State,
		Cutoff:        opts.Cutoff,
		IncludeDrafts: opts.IncludeDrafts,
		MaxResults:    opts.MaxPerRepo,
	}

	var rows []metrics.PRMetrics
	for _, repo := range repos {
		if err := ctx.Err(); err != nil {
			return rows, err
		}

		prs, err := p.client.ListPullRequests(ctx, opts.Owner, repo.Name, listOpts)
		if err != nil {
			if ctx.Err() != nil {
				return rows, ctx.Err()
			}
			p.log.Warn("skipping repository after listing failure",
				zap.String("repository", repo.FullName),
				zap.Error(err))
			continue
		}

		for _, pr := range prs {
			var details github.Details
			if !opts.Basic {
				details = p.client.FetchDetails(ctx, opts.Owner, repo.Name, pr.Number)
			}
			m := metrics.Derive(pr, details)
			if m.Repository == "" {
				m.Repository = repo.Name
			}
			rows = append(rows, m)
		}

		p.log.Debug("repository processed",
			zap.String("repository", repo.FullName),
			zap.Int("pull_requests", len(prs)))
		if p.Progress != nil {
			p.Progress(repo.Name, len(rows))
		}
	}

	return rows, nil
}

// resolveRepos produces the repository set to scan. A directly named
// repository is synthesized locally; its existence surfaces naturally on the
// first listing call.
func (p *Pipeline) resolveRepos(ctx context.Context, opts Options) ([]github.Repository, error) {
	if opts.Repo != "" {
		return []github.Repository{{
			Name:     opts.Repo,
			FullName: opts.Owner + "/" + opts.Repo,
		}}, nil
	}

	repos, err := p.client.ListRepositories(ctx, opts.Owner)
	if err != nil {
		return nil, fmt.Errorf("repository enumeration failed: %w", err)
	}
	p.log.Info("repositories resolved",
		zap.String("owner", opts.Owner),
		zap.Int("count", len(repos)))
	return repos, nil
}
