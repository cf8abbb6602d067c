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

package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pullstathq/pullstat/internal/github"
)

func tp(t time.Time) *time.Time { return &t }

func pr(number int, created time.Time) github.PullRequest {
	return github.PullRequest{Number: number, State: "open", CreatedAt: tp(created)}
}

func TestRunSingleRepositorySkipsEnumeration(t *testing.T) {
	created := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	mock := &github.MockClient{
		PullsByRepo: map[string][]github.PullRequest{
			"widgets": {pr(1, created), pr(2, created)},
		},
		DetailsByKey: map[string]github.Details{
			github.DetailKey("widgets", 1): {
				Reviews: []github.Review{{SubmittedAt: tp(created.Add(time.Hour))}},
			},
		},
	}

	p := New(mock, nil)
	rows, err := p.Run(context.Background(), Options{
		Owner:  "acme",
		Repo:   "widgets",
		Cutoff: created.AddDate(0, 0, -30),
	})
	require.NoError(t, err)

	assert.Zero(t, mock.ListRepoCalls, "a named repository must not trigger enumeration")
	require.Len(t, rows, 2)
	assert.Equal(t, "widgets", rows[0].Repository)
	assert.Equal(t, 1, rows[0].TotalReviews)
	assert.Zero(t, rows[1].TotalReviews)
}

func TestRunScansAllRepositories(t *testing.T) {
	created := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	mock := &github.MockClient{
		Repos: []github.Repository{
			{Name: "widgets", FullName: "acme/widgets"},
			{Name: "gadgets", FullName: "acme/gadgets"},
			{Name: "empty", FullName: "acme/empty"},
		},
		PullsByRepo: map[string][]github.PullRequest{
			"widgets": {pr(1, created)},
			"gadgets": {pr(2, created), pr(3, created)},
		},
	}

	p := New(mock, nil)
	rows, err := p.Run(context.Background(), Options{Owner: "acme", Cutoff: created.AddDate(0, 0, -30)})
	require.NoError(t, err)

	assert.Equal(t, 1, mock.ListRepoCalls)
	assert.Equal(t, 3, mock.ListPullCalls)
	require.Len(t, rows, 3)
	assert.Equal(t, "widgets", rows[0].Repository)
	assert.Equal(t, "gadgets", rows[1].Repository)
}

func TestRunSkipsFailingRepository(t *testing.T) {
	created := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	mock := &github.MockClient{
		Repos: []github.Repository{
			{Name: "broken", FullName: "acme/broken"},
			{Name: "widgets", FullName: "acme/widgets"},
		},
		PullsByRepo: map[string][]github.PullRequest{
			"widgets": {pr(1, created)},
		},
		PullsErrByRepo: map[string]error{
			"broken": errors.New("received status 500"),
		},
	}

	p := New(mock, nil)
	rows, err := p.Run(context.Background(), Options{Owner: "acme"})
	require.NoError(t, err, "one failing repository must not fail the scan")

	require.Len(t, rows, 1)
	assert.Equal(t, "widgets", rows[0].Repository)
}

func TestRunEnumerationFailureIsFatal(t *testing.T) {
	mock := &github.MockClient{ReposErr: errors.New("received status 500")}

	p := New(mock, nil)
	rows, err := p.Run(context.Background(), Options{Owner: "acme"})

	require.Error(t, err)
	assert.Nil(t, rows)
}

func TestRunBasicModeSkipsDetails(t *testing.T) {
	created := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	mock := &github.MockClient{
		PullsByRepo: map[string][]github.PullRequest{
			"widgets": {pr(1, created), pr(2, created)},
		},
		DetailsByKey: map[string]github.Details{
			github.DetailKey("widgets", 1): {
				Reviews: []github.Review{{SubmittedAt: tp(created.Add(time.Hour))}},
			},
		},
	}

	p := New(mock, nil)
	rows, err := p.Run(context.Background(), Options{Owner: "acme", Repo: "widgets", Basic: true})
	require.NoError(t, err)

	assert.Zero(t, mock.DetailCalls)
	require.Len(t, rows, 2)
	assert.Nil(t, rows[0].TimeToFirstReview)
	assert.Zero(t, rows[0].TotalReviews)
}

func TestRunPropagatesListOptions(t *testing.T) {
	cutoff := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	mock := &github.MockClient{}

	p := New(mock, nil)
	_, err := p.Run(context.Background(), Options{
		Owner:         "acme",
		Repo:          "widgets",
		Cutoff:        cutoff,
		State:         "closed",
		IncludeDrafts: true,
		MaxPerRepo:    25,
	})
	require.NoError(t, err)

	assert.Equal(t, "closed", mock.LastOpts.State)
	assert.True(t, mock.LastOpts.Cutoff.Equal(cutoff))
	assert.True(t, mock.LastOpts.IncludeDrafts)
	assert.Equal(t, 25, mock.LastOpts.MaxResults)
}

func TestRunReportsProgressPerRepository(t *testing.T) {
	created := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	mock := &github.MockClient{
		Repos: []github.Repository{
			{Name: "widgets", FullName: "acme/widgets"},
			{Name: "gadgets", FullName: "acme/gadgets"},
		},
		PullsByRepo: map[string][]github.PullRequest{
			"widgets": {pr(1, created)},
			"gadgets": {pr(2, created), pr(3, created)},
		},
	}

	p := New(mock, nil)
	var seen []string
	var counts []int
	p.Progress = func(repo string, rows int) {
		seen = append(seen, repo)
		counts = append(counts, rows)
	}

	_, err := p.Run(context.Background(), Options{Owner: "acme"})
	require.NoError(t, err)

	assert.Equal(t, []string{"widgets", "gadgets"}, seen)
	assert.Equal(t, []int{1, 3}, counts)
}

func TestRunReturnsPartialRowsOnCancellation(t *testing.T) {
	created := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	mock := &github.MockClient{
		Repos: []github.Repository{
			{Name: "widgets", FullName: "acme/widgets"},
			{Name: "gadgets", FullName: "acme/gadgets"},
		},
		PullsByRepo: map[string][]github.PullRequest{
			"widgets": {pr(1, created)},
			"gadgets": {pr(2, created)},
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := New(mock, nil)
	p.Progress = func(repo string, rows int) {
		cancel() // cancel after the first repository completes
	}

	rows, err := p.Run(ctx, Options{Owner: "acme"})

	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, rows, 1, "rows collected before cancellation are returned")
	assert.Equal(t, "widgets", rows[0].Repository)
}
