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

// Package github implements the GitHub API retrieval layer: a rate-limit
// aware REST client with bounded retries, page-number pagination over
// repositories and pull requests, and the per-pull-request detail fan-out
// for reviews and comments.
//
// The package exposes the Client interface so the pipeline can be tested
// against MockClient without network access. RESTClient is the production
// implementation; it carries a small GraphQL side channel for the repository
// metadata query used by the progress display.
package github
