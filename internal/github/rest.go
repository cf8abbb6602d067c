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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shurcooL/graphql"
	"go.uber.org/zap"

	"github.com/pullstathq/pullstat/internal/apierror"
	pserrors "github.com/pullstathq/pullstat/internal/errors"
	"github.com/pullstathq/pullstat/internal/ratelimit"
)

// Defaults for the retry policy.
const (
	defaultMaxRetries = 3
	defaultCooldown   = 60 * time.Second
)

// ClientConfig configures a RESTClient.
type ClientConfig struct {
	// Token is the bearer credential. Injected by the auth transport only.
	Token string

	// APIEndpoint is the REST base URL, e.g. https://api.github.com.
	APIEndpoint string

	// GraphQLEndpoint serves the repository metadata query.
	GraphQLEndpoint string

	// MaxRetries bounds attempts per logical call. Defaults to 3.
	MaxRetries int

	// Cooldown is the fixed wait after a rate-limited 403 before the next
	// attempt. Defaults to 60 seconds.
	Cooldown time.Duration
}

// RESTClient implements Client against the GitHub REST API, with a GraphQL
// side channel for the repository metadata query. Every call passes the
// rate-limit gate first, refreshes the gate from response headers, and
// retries transient failures with exponential backoff.
type RESTClient struct {
	http      *http.Client
	graphql   *graphql.Client
	baseURL   string
	gate      *ratelimit.Gate
	inspector apierror.Inspector
	log       *zap.Logger

	maxRetries int
	cooldown   time.Duration

	// backoffUnit scales the exponential backoff; one second in
	// production, shrunk by tests.
	backoffUnit time.Duration
}

// NewRESTClient creates a RESTClient with connection pooling tuned for
// sequential API traffic.
func NewRESTClient(cfg ClientConfig, gate *ratelimit.Gate, log *zap.Logger) *RESTClient {
	if log == nil {
		log = zap.NewNop()
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	cooldown := cfg.Cooldown
	if cooldown <= 0 {
		cooldown = defaultCooldown
	}

	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}
	httpClient := &http.Client{
		Transport: &authTransport{
			token: cfg.Token,
			base:  transport,
		},
	}

	return &RESTClient{
		http:        httpClient,
		graphql:     graphql.NewClient(cfg.GraphQLEndpoint, httpClient),
		baseURL:     strings.TrimRight(cfg.APIEndpoint, "/"),
		gate:        gate,
		inspector:   apierror.NewErrorChainInspector(apierror.NewInspector()),
		log:         log,
		maxRetries:  maxRetries,
		cooldown:    cooldown,
		backoffUnit: time.Second,
	}
}

// getJSON issues one logical GET against the REST API with bounded retries
// and decodes the JSON response into v.
//
// Status policy:
//   - 401 fails immediately: a credential problem cannot be retried away.
//   - 403 carrying a rate-limit indication sleeps the fixed cooldown and
//     retries within the same attempt budget; any other 403 fails
//     immediately as a permission problem.
//   - 404 fails immediately: retrying cannot materialize a missing resource.
//   - Any other non-success status and any transport error retries with
//     exponential backoff (2^(attempt-1) seconds) up to the budget.
func (c *RESTClient) getJSON(ctx context.Context, path string, query url.Values, v any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	redacted := redactURL(target)

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := c.gate.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return fmt.Errorf("failed to build request for %s: %w", redacted, err)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			c.log.Warn("request failed, retrying",
				zap.String("url", redacted),
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", c.maxRetries),
				zap.Error(err))
			if err := c.backoff(ctx, attempt); err != nil {
				return err
			}
			continue
		}

		c.gate.UpdateFromResponse(resp)

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			if readErr != nil {
				lastErr = readErr
				c.log.Warn("response read failed, retrying",
					zap.String("url", redacted),
					zap.Int("attempt", attempt),
					zap.Error(readErr))
				if err := c.backoff(ctx, attempt); err != nil {
					return err
				}
				continue
			}
			if err := json.Unmarshal(body, v); err != nil {
				return fmt.Errorf("failed to decode response from %s: %w", redacted, err)
			}
			c.logQuota(redacted)
			return nil

		case resp.StatusCode == http.StatusUnauthorized:
			return fmt.Errorf("authentication failed for %s: %w", redacted, pserrors.ErrInvalidToken)

		case resp.StatusCode == http.StatusForbidden:
			if !isRateLimited(resp, body) {
				return fmt.Errorf("access denied for %s: %w", redacted, pserrors.ErrForbidden)
			}
			lastErr = fmt.Errorf("rate limited at %s: %w", redacted, pserrors.ErrRateLimit)
			c.log.Warn("rate limit rejection, cooling down",
				zap.String("url", redacted),
				zap.Duration("cooldown", c.cooldown),
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", c.maxRetries))
			if attempt < c.maxRetries {
				if err := sleepCtx(ctx, c.cooldown); err != nil {
					return err
				}
			}

		case resp.StatusCode == http.StatusNotFound:
			return fmt.Errorf("%s: %w", redacted, pserrors.ErrNotFound)

		default:
			lastErr = fmt.Errorf("received status %d from %s", resp.StatusCode, redacted)
			c.log.Warn("unexpected status, retrying",
				zap.Int("status", resp.StatusCode),
				zap.String("url", redacted),
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", c.maxRetries))
			if err := c.backoff(ctx, attempt); err != nil {
				return err
			}
		}
	}

	return c.exhausted(redacted, lastErr)
}

// backoff sleeps 2^(attempt-1) backoff units after a failed attempt, skipping
// the sleep when the budget is already spent.
func (c *RESTClient) backoff(ctx context.Context, attempt int) error {
	if attempt >= c.maxRetries {
		return nil
	}
	return sleepCtx(ctx, time.Duration(1<<(attempt-1))*c.backoffUnit)
}

// exhausted wraps the final error of a call whose retry budget ran out,
// attaching the matching sentinel for exit-code mapping.
func (c *RESTClient) exhausted(redacted string, lastErr error) error {
	if c.inspector.IsNetworkError(lastErr) {
		return fmt.Errorf("request to %s failed after %d attempts: %v: %w",
			redacted, c.maxRetries, lastErr, pserrors.ErrNetworkFailure)
	}
	// Rate-limit failures already wrap ErrRateLimit.
	return fmt.Errorf("request to %s failed after %d attempts: %w", redacted, c.maxRetries, lastErr)
}

// logQuota emits the current quota estimate at debug level.
func (c *RESTClient) logQuota(redacted string) {
	if !c.log.Core().Enabled(zap.DebugLevel) {
		return
	}
	remaining, resetAt := c.gate.Snapshot()
	c.log.Debug("request succeeded",
		zap.String("url", redacted),
		zap.Int("quota_remaining", remaining),
		zap.Time("quota_reset", resetAt))
}

// isRateLimited reports whether a 403 response is a rate-limit rejection
// rather than a permission problem. GitHub signals this through the response
// message and an exhausted X-RateLimit-Remaining header.
func isRateLimited(resp *http.Response, body []byte) bool {
	if resp.Header.Get("X-Ratelimit-Remaining") == "0" {
		return true
	}
	msg := strings.ToLower(string(body))
	return strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "secondary limit") ||
		strings.Contains(msg, "abuse detection")
}

// sleepCtx sleeps for d, honoring context cancellation.
func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
