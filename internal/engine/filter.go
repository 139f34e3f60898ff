// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

// Package engine implements filtering and aggregation over dataset rows.
//
// Every function here is pure: it reads its input slice, never modifies it,
// and returns freshly allocated results. Callers pass rows taken from a
// single dataset.Snapshot so that all aggregations of one request agree.
package engine

import (
	"strings"

	"github.com/tomtom215/rfmboard/internal/models"
)

// Filter selects rows of the clustered table. The zero value keeps every row.
type Filter struct {
	// Cluster is a label to match exactly. "", "ALL" and "Semua" disable
	// the cluster filter.
	Cluster string
	// Search keeps rows whose company contains it, ignoring case.
	// Empty disables the search filter.
	Search string
}

// IsIdentity reports whether the filter keeps every row.
func (f Filter) IsIdentity() bool {
	return models.IsSelectAll(f.Cluster) && f.Search == ""
}

// Apply returns the rows matching both conditions in their original order.
// The result never aliases rows, even for the identity filter.
func Apply(rows []models.CustomerRecord, f Filter) []models.CustomerRecord {
	out := make([]models.CustomerRecord, 0, len(rows))
	if f.IsIdentity() {
		return append(out, rows...)
	}

	matchCluster := !models.IsSelectAll(f.Cluster)
	label := models.Label(f.Cluster)
	needle := strings.ToLower(f.Search)

	for _, r := range rows {
		if matchCluster && (r.ClusterLabel.Missing() || r.ClusterLabel != label) {
			continue
		}
		if needle != "" && !containsFold(r.Company, needle) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// containsFold reports whether company contains the lower-cased needle.
// An empty company never matches.
func containsFold(company, lowerNeedle string) bool {
	if company == "" {
		return false
	}
	return strings.Contains(strings.ToLower(company), lowerNeedle)
}
