// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

package models

import "fmt"

// Metric names a numeric column. The value is the CSV column name.
type Metric string

// Metrics available on the tables.
const (
	MetricRecency         Metric = "Recency"
	MetricFrequency       Metric = "Frequency"
	MetricMonetary        Metric = "Monetary"
	MetricRecencyScaled   Metric = "Recency_Scaled"
	MetricFrequencyScaled Metric = "Frequency_Scaled"
	MetricMonetaryScaled  Metric = "Monetary_Scaled"
)

// ScaledMetrics are the columns used by the summary and correlation views.
var ScaledMetrics = []Metric{MetricRecencyScaled, MetricFrequencyScaled, MetricMonetaryScaled}

// Direction says which end of a metric is the better customer.
type Direction int

const (
	// HigherIsBetter applies to frequency and monetary metrics.
	HigherIsBetter Direction = iota
	// LowerIsBetter applies to recency metrics: fewer days since the last purchase.
	LowerIsBetter
)

// String implements fmt.Stringer.
func (d Direction) String() string {
	if d == LowerIsBetter {
		return "lower_is_better"
	}
	return "higher_is_better"
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for the names written by
// MarshalText.
func (d *Direction) UnmarshalText(text []byte) error {
	switch string(text) {
	case "higher_is_better":
		*d = HigherIsBetter
	case "lower_is_better":
		*d = LowerIsBetter
	default:
		return fmt.Errorf("unknown direction %q", text)
	}
	return nil
}

// Aggregate is the per-company reduction used before ranking.
type Aggregate string

const (
	AggregateSum  Aggregate = "sum"
	AggregateMean Aggregate = "mean"
)

// SortOrder is the ranking order.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// Direction returns the semantic direction of the metric.
func (m Metric) Direction() Direction {
	switch m {
	case MetricRecency, MetricRecencyScaled:
		return LowerIsBetter
	default:
		return HigherIsBetter
	}
}

// DefaultAggregate returns mean for recency-style metrics and sum for totals.
func (m Metric) DefaultAggregate() Aggregate {
	if m.Direction() == LowerIsBetter {
		return AggregateMean
	}
	return AggregateSum
}

// BestFirst returns the sort order that puts the best customers first.
func (m Metric) BestFirst() SortOrder {
	if m.Direction() == LowerIsBetter {
		return Ascending
	}
	return Descending
}

// Valid reports whether m is a known metric.
func (m Metric) Valid() bool {
	switch m {
	case MetricRecency, MetricFrequency, MetricMonetary,
		MetricRecencyScaled, MetricFrequencyScaled, MetricMonetaryScaled:
		return true
	}
	return false
}

// ParseMetric resolves a column name into a Metric.
func ParseMetric(name string) (Metric, error) {
	m := Metric(name)
	if !m.Valid() {
		return "", fmt.Errorf("unknown metric %q", name)
	}
	return m, nil
}

// RankSpec fully describes a top-N ranking. Direction is never inferred from
// Order: callers pick both explicitly or start from DefaultRankSpec.
type RankSpec struct {
	Metric    Metric    `json:"metric"`
	Aggregate Aggregate `json:"aggregate"`
	Order     SortOrder `json:"order"`
	N         int       `json:"n"`
}

// DefaultRankSpec ranks the best n companies for the metric.
func DefaultRankSpec(m Metric, n int) RankSpec {
	return RankSpec{
		Metric:    m,
		Aggregate: m.DefaultAggregate(),
		Order:     m.BestFirst(),
		N:         n,
	}
}
