// Copyright 2025 Vasync Labs
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

// Package sync matches Visible portfolio metrics against Affinity list
// entries by company domain and applies the resulting field updates.
package sync

import (
	"context"
	"sort"
)

// Entry is the slice of an Affinity list entry the matcher needs.
type Entry struct {
	ID      int64
	Company string
	Domains []string
}

// Match pairs a list entry with the metric value found for one of its
// domains.
type Match struct {
	EntryID int64
	Company string
	Domain  string
	Value   float64
}

// Unmatched is an Affinity entry that had domains but none with Visible
// data.
type Unmatched struct {
	Company string
	Domains []string
}

type Report struct {
	Matches []Match
	// Normalized domains present in Visible but not matched by any entry,
	// sorted for stable output.
	VisibleOnly []string
	// Entries with at least one domain but no Visible data. Entries without
	// domains are not reported; there was nothing to match on.
	AffinityOnly []Unmatched
}

// MatchByDomain pairs entries with metric values keyed by normalized domain.
// The first domain of an entry that has Visible data wins; remaining domains
// are not consulted.
func MatchByDomain(entries []Entry, valuesByDomain map[string]float64) Report {
	var report Report

	unmatchedVisible := make(map[string]bool, len(valuesByDomain))
	for domain := range valuesByDomain {
		unmatchedVisible[domain] = true
	}

	for _, entry := range entries {
		matched := false
		for _, domain := range entry.Domains {
			normalized := NormalizeDomain(domain)
			value, ok := valuesByDomain[normalized]
			if !ok {
				continue
			}
			report.Matches = append(report.Matches, Match{
				EntryID: entry.ID,
				Company: entry.Company,
				Domain:  normalized,
				Value:   value,
			})
			delete(unmatchedVisible, normalized)
			matched = true
			break
		}
		if !matched && len(entry.Domains) > 0 {
			report.AffinityOnly = append(report.AffinityOnly, Unmatched{
				Company: entry.Company,
				Domains: entry.Domains,
			})
		}
	}

	for domain := range unmatchedVisible {
		report.VisibleOnly = append(report.VisibleOnly, domain)
	}
	sort.Strings(report.VisibleOnly)

	return report
}

// FieldUpdater is the write surface of the Affinity client.
type FieldUpdater interface {
	UpdateFieldValue(ctx context.Context, listID, entryID int64, fieldID string, value float64) error
}

// ApplyResult records the outcome of pushing one match.
type ApplyResult struct {
	Match Match
	Err   error
}

// Apply pushes every match to the given field. Failures are collected, not
// fatal; the whole batch is always attempted.
func Apply(ctx context.Context, updater FieldUpdater, listID int64, fieldID string, matches []Match) []ApplyResult {
	results := make([]ApplyResult, 0, len(matches))
	for _, match := range matches {
		err := updater.UpdateFieldValue(ctx, listID, match.EntryID, fieldID, match.Value)
		results = append(results, ApplyResult{Match: match, Err: err})
	}
	return results
}
