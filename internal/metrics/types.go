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

// Package metrics derives per-pull-request duration metrics and counts from
// raw API records. Derivation is pure: no I/O, no clock reads, no mutation of
// its inputs.
package metrics

import "time"

// PRMetrics is one fully derived output record for a pull request. Pointer
// fields distinguish absent from zero: a nil duration means the underlying
// event never happened, not that it took no time.
type PRMetrics struct {
	Repository string
	PullNumber int
	Title      string
	Author     string
	State      string
	IsDraft    bool

	CreatedAt *time.Time
	UpdatedAt *time.Time
	ClosedAt  *time.Time
	MergedAt  *time.Time

	// Durations in hours, rounded to two decimals.
	TimeToClose        *float64
	TimeToMerge        *float64
	TimeToFirstReview  *float64
	TimeToFirstComment *float64

	TotalReviews  int
	TotalComments int

	Additions    int
	Deletions    int
	ChangedFiles int
	Commits      int

	URL string
}
