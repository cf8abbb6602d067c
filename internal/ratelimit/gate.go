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

// Package ratelimit implements an anticipatory quota gate for the GitHub API.
// The gate tracks the remaining request quota and its reset time, pausing the
// caller before a request would risk a hard rate-limit rejection. It is a
// conservative heuristic, not an authoritative limiter: it trades a possible
// unnecessary pause for avoiding a 403 from the API.
package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Header names carrying quota information on GitHub API responses.
const (
	headerRemaining = "X-Ratelimit-Remaining"
	headerReset     = "X-Ratelimit-Reset"
)

// Gate tracks the remaining API quota and pauses callers when it runs low.
// All state is mutex-guarded so a future parallel fetch path can share one
// gate; updates are serialized and reads never observe torn state.
type Gate struct {
	mu        sync.Mutex
	remaining int
	resetAt   time.Time

	minRemaining int
	margin       time.Duration
	log          *zap.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewGate creates a Gate with an optimistic initial estimate: the full
// unauthenticated-user quota of 5000 with a reset one hour out. The estimate
// is corrected by the first response that carries rate-limit headers.
func NewGate(minRemaining int, margin time.Duration, log *zap.Logger) *Gate {
	if log == nil {
		log = zap.NewNop()
	}
	g := &Gate{
		minRemaining: minRemaining,
		margin:       margin,
		log:          log,
		now:          time.Now,
	}
	g.remaining = 5000
	g.resetAt = g.now().Add(time.Hour)
	return g
}

// Wait blocks until a request may be issued. If the remaining quota is below
// the configured floor and the reset time has not passed, it sleeps until
// reset plus a small margin, honoring context cancellation.
func (g *Gate) Wait(ctx context.Context) error {
	g.mu.Lock()
	remaining := g.remaining
	resetAt := g.resetAt
	g.mu.Unlock()

	now := g.now()
	if remaining >= g.minRemaining || !now.Before(resetAt) {
		return nil
	}

	pause := resetAt.Sub(now) + g.margin
	g.log.Warn("rate limit quota low, pausing until reset",
		zap.Int("remaining", remaining),
		zap.Time("reset_at", resetAt),
		zap.Duration("pause", pause))

	select {
	case <-time.After(pause):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Update overwrites the quota estimate. Used directly by tests and by
// UpdateFromResponse.
func (g *Gate) Update(remaining int, resetAt time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.remaining = remaining
	g.resetAt = resetAt
}

// UpdateFromResponse refreshes the quota estimate from a response's
// X-RateLimit headers. Responses without both headers leave the prior
// estimate unchanged; the API does not echo them on every transport.
func (g *Gate) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}
	remainingHdr := resp.Header.Get(headerRemaining)
	resetHdr := resp.Header.Get(headerReset)
	if remainingHdr == "" || resetHdr == "" {
		return
	}

	remaining, err := strconv.Atoi(remainingHdr)
	if err != nil || remaining < 0 {
		return
	}
	resetUnix, err := strconv.ParseInt(resetHdr, 10, 64)
	if err != nil {
		return
	}

	g.Update(remaining, time.Unix(resetUnix, 0))
}

// Snapshot returns the current quota estimate.
func (g *Gate) Snapshot() (remaining int, resetAt time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.remaining, g.resetAt
}
