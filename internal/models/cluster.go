// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

package models

import (
	"strings"

	"github.com/goccy/go-json"
)

// ClusterID is the K-Means cluster assignment produced upstream.
type ClusterID int

// Known cluster ids. Anything else is a data-quality error.
const (
	ClusterLowValue  ClusterID = 0
	ClusterRegular   ClusterID = 1
	ClusterHighValue ClusterID = 2

	// ClusterUnknown marks a row whose Cluster cell was empty.
	ClusterUnknown ClusterID = -1
)

// Label is the human-readable cluster name. The zero value is the missing label.
type Label string

// Cluster labels as they appear in every table and selector.
const (
	LabelLowValue  Label = "Low Value Customer"
	LabelRegular   Label = "Regular Customer"
	LabelHighValue Label = "High Value Customer"

	// LabelMissing is attached to rows with an unmapped cluster id.
	LabelMissing Label = ""
)

// SelectAll is the selector value that disables the cluster filter.
// SelectAllLocal is the localized alias shown in the dashboard selector.
const (
	SelectAll      = "ALL"
	SelectAllLocal = "Semua"
)

// Label maps the id to its label. The mapping is total over the known ids;
// for any other id it returns LabelMissing and false.
func (id ClusterID) Label() (Label, bool) {
	switch id {
	case ClusterLowValue:
		return LabelLowValue, true
	case ClusterRegular:
		return LabelRegular, true
	case ClusterHighValue:
		return LabelHighValue, true
	default:
		return LabelMissing, false
	}
}

// Known reports whether the id has a label.
func (id ClusterID) Known() bool {
	_, ok := id.Label()
	return ok
}

// Missing reports whether the label is the missing label.
func (l Label) Missing() bool {
	return l == LabelMissing
}

// String returns the label text, or "(unmapped)" for the missing label.
func (l Label) String() string {
	if l.Missing() {
		return "(unmapped)"
	}
	return string(l)
}

// MarshalJSON encodes the missing label as null.
func (l Label) MarshalJSON() ([]byte, error) {
	if l.Missing() {
		return []byte("null"), nil
	}
	return json.Marshal(string(l))
}

// UnmarshalJSON accepts a string or null.
func (l *Label) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = LabelMissing
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*l = Label(s)
	return nil
}

// DistributionOrder is the fixed order used by the cluster distribution chart.
var DistributionOrder = []Label{LabelHighValue, LabelRegular, LabelLowValue}

// IsSelectAll reports whether a cluster selector value means "no cluster filter".
func IsSelectAll(selection string) bool {
	s := strings.TrimSpace(selection)
	return s == "" || strings.EqualFold(s, SelectAll) || strings.EqualFold(s, SelectAllLocal)
}
