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
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	pserrors "github.com/pullstathq/pullstat/internal/errors"
	"github.com/pullstathq/pullstat/internal/ratelimit"
)

// newTestClient builds a RESTClient against a test server with millisecond
// backoff and cooldown so retry paths run fast.
func newTestClient(t *testing.T, srv *httptest.Server) *RESTClient {
	t.Helper()

	gate := ratelimit.NewGate(10, 5*time.Millisecond, zap.NewNop())
	c := NewRESTClient(ClientConfig{
		Token:           "test-token",
		APIEndpoint:     srv.URL,
		GraphQLEndpoint: srv.URL + "/graphql",
		MaxRetries:      3,
		Cooldown:        2 * time.Millisecond,
	}, gate, zap.NewNop())
	c.backoffUnit = time.Millisecond
	return c
}

func TestGetJSONFailsFastOnTerminalStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:    "unauthorized",
			status:  http.StatusUnauthorized,
			body:    `{"message":"Bad credentials"}`,
			wantErr: pserrors.ErrInvalidToken,
		},
		{
			name:    "forbidden without rate limit indication",
			status:  http.StatusForbidden,
			body:    `{"message":"Resource not accessible by integration"}`,
			wantErr: pserrors.ErrForbidden,
		},
		{
			name:    "not found",
			status:  http.StatusNotFound,
			body:    `{"message":"Not Found"}`,
			wantErr: pserrors.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requests int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&requests, 1)
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			c := newTestClient(t, srv)
			var out map[string]any
			err := c.getJSON(context.Background(), "/repos/acme/widgets", nil, &out)

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if n := atomic.LoadInt32(&requests); n != 1 {
				t.Errorf("expected exactly 1 request for a terminal status, got %d", n)
			}
		})
	}
}

func TestGetJSONRetriesRateLimited403(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&requests, 1)
		if n < 3 {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"message":"API rate limit exceeded"}`)
			return
		}
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	var out map[string]any
	if err := c.getJSON(context.Background(), "/repos/acme/widgets", nil, &out); err != nil {
		t.Fatalf("expected recovery after cooldown, got %v", err)
	}
	if n := atomic.LoadInt32(&requests); n != 3 {
		t.Errorf("expected 3 requests, got %d", n)
	}
}

func TestGetJSONRateLimitDetectedByHeader(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&requests, 1)
		if n == 1 {
			// Reset in the past so the gate does not pause the retry.
			w.Header().Set("X-Ratelimit-Remaining", "0")
			w.Header().Set("X-Ratelimit-Reset", strconv.FormatInt(time.Now().Add(-time.Second).Unix(), 10))
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"message":"You have exceeded a secondary limit"}`)
			return
		}
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	var out map[string]any
	if err := c.getJSON(context.Background(), "/repos/acme/widgets", nil, &out); err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
	if n := atomic.LoadInt32(&requests); n != 2 {
		t.Errorf("expected 2 requests, got %d", n)
	}
}

func TestGetJSONRateLimitExhaustsBudget(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message":"API rate limit exceeded"}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	var out map[string]any
	err := c.getJSON(context.Background(), "/repos/acme/widgets", nil, &out)

	if !errors.Is(err, pserrors.ErrRateLimit) {
		t.Errorf("expected ErrRateLimit, got %v", err)
	}
	if n := atomic.LoadInt32(&requests); n != 3 {
		t.Errorf("expected 3 requests, got %d", n)
	}
}

func TestGetJSONRetriesServerError(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&requests, 1)
		if n < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	var out map[string]any
	if err := c.getJSON(context.Background(), "/repos/acme/widgets", nil, &out); err != nil {
		t.Fatalf("expected recovery after retries, got %v", err)
	}
	if n := atomic.LoadInt32(&requests); n != 3 {
		t.Errorf("expected 3 requests, got %d", n)
	}
}

func TestGetJSONExhaustsRetriesOnPersistentFailure(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	var out map[string]any
	err := c.getJSON(context.Background(), "/repos/acme/widgets", nil, &out)

	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if n := atomic.LoadInt32(&requests); n != 3 {
		t.Errorf("expected 3 requests, got %d", n)
	}
}

func TestGetJSONNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := newTestClient(t, srv)
	var out map[string]any
	err := c.getJSON(context.Background(), "/repos/acme/widgets", nil, &out)

	if !errors.Is(err, pserrors.ErrNetworkFailure) {
		t.Errorf("expected ErrNetworkFailure, got %v", err)
	}
}

func TestGetJSONSendsAuthAndAgentHeaders(t *testing.T) {
	var gotAuth, gotAccept, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotAgent = r.Header.Get("User-Agent")
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	var out map[string]any
	if err := c.getJSON(context.Background(), "/user", nil, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAuth != "Bearer test-token" {
		t.Errorf("expected bearer credential, got %q", gotAuth)
	}
	if gotAccept != "application/vnd.github+json" {
		t.Errorf("unexpected Accept header: %q", gotAccept)
	}
	if gotAgent == "" {
		t.Error("expected a User-Agent header")
	}
}

func TestGetJSONHonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestClient(t, srv)
	var out map[string]any
	err := c.getJSON(ctx, "/repos/acme/widgets", nil, &out)

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRedactURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain url unchanged",
			in:   "https://api.github.com/repos/acme/widgets/pulls?page=2",
			want: "https://api.github.com/repos/acme/widgets/pulls?page=2",
		},
		{
			name: "userinfo redacted",
			in:   "https://ghp_secret@api.github.com/user",
			want: "https://REDACTED@api.github.com/user",
		},
		{
			name: "access_token param redacted",
			in:   "https://api.github.com/user?access_token=ghp_secret",
			want: "https://api.github.com/user?access_token=REDACTED",
		},
		{
			name: "token param redacted",
			in:   "https://api.github.com/user?page=1&token=ghp_secret",
			want: "https://api.github.com/user?page=1&token=REDACTED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := redactURL(tt.in); got != tt.want {
				t.Errorf("redactURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
