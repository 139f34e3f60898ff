// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

package models

import (
	"math"

	"github.com/goccy/go-json"
)

// OptionalFloat is a statistic that may be undefined (for example the mean
// of zero rows). Undefined values and NaN encode as JSON null.
type OptionalFloat struct {
	Value float64
	Valid bool
}

// Defined wraps a value. NaN and infinities are stored as undefined.
func Defined(v float64) OptionalFloat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return OptionalFloat{}
	}
	return OptionalFloat{Value: v, Valid: true}
}

// Undefined returns the undefined value.
func Undefined() OptionalFloat {
	return OptionalFloat{}
}

// MarshalJSON implements json.Marshaler.
func (f OptionalFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid || math.IsNaN(f.Value) || math.IsInf(f.Value, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *OptionalFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = OptionalFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = OptionalFloat{Value: v, Valid: true}
	return nil
}

// RankEntry is one bar of a top-N chart.
type RankEntry struct {
	Rank    int     `json:"rank"`
	Company string  `json:"perusahaan"`
	Value   float64 `json:"value"`
}

// Ranking is the result of a top-N query.
type Ranking struct {
	Spec      RankSpec    `json:"spec"`
	Direction Direction   `json:"direction"`
	Groups    int         `json:"groups"`
	Entries   []RankEntry `json:"entries"`
}

// ClusterSummary is one row of the cluster summary table. Means are rounded
// to 4 places and the percentage to 2.
type ClusterSummary struct {
	Label           Label   `json:"Cluster_Label"`
	RecencyScaled   float64 `json:"Recency_Scaled"`
	FrequencyScaled float64 `json:"Frequency_Scaled"`
	MonetaryScaled  float64 `json:"Monetary_Scaled"`
	Members         int     `json:"Jumlah Anggota"`
	Percentage      float64 `json:"Persentase (%)"`
}

// SummaryResult holds every summary row of a filtered view. NoData is set
// when the view is empty; Rows is then empty rather than carrying 0%.
type SummaryResult struct {
	Rows   []ClusterSummary `json:"rows"`
	Total  int              `json:"total"`
	NoData bool             `json:"no_data"`
}

// CorrelationMatrix is a symmetric Pearson matrix. Undefined coefficients are
// NaN in Values and null on the wire.
type CorrelationMatrix struct {
	Columns []Metric    `json:"columns"`
	Values  [][]float64 `json:"-"`
	Rows    int         `json:"rows"`
}

// At returns the coefficient for columns i and j.
func (m CorrelationMatrix) At(i, j int) float64 {
	return m.Values[i][j]
}

// MarshalJSON encodes NaN coefficients as null.
func (m CorrelationMatrix) MarshalJSON() ([]byte, error) {
	values := make([][]OptionalFloat, len(m.Values))
	for i, row := range m.Values {
		values[i] = make([]OptionalFloat, len(row))
		for j, v := range row {
			values[i][j] = Defined(v)
		}
	}
	return json.Marshal(struct {
		Columns []Metric          `json:"columns"`
		Values  [][]OptionalFloat `json:"values"`
		Rows    int               `json:"rows"`
	}{m.Columns, values, m.Rows})
}

// Description holds the headline statistics of the full population.
type Description struct {
	Count         int           `json:"count"`
	MeanRecency   OptionalFloat `json:"mean_recency"`
	MeanFrequency OptionalFloat `json:"mean_frequency"`
	MeanMonetary  OptionalFloat `json:"mean_monetary"`
}

// LabelCount is one slice of the cluster distribution.
type LabelCount struct {
	Label      Label         `json:"label"`
	Count      int           `json:"count"`
	Percentage OptionalFloat `json:"percentage"`
}

// Distribution is the member count per label in DistributionOrder, zero-filled.
// Rows with a missing label are reported in Unmapped.
type Distribution struct {
	Slices   []LabelCount `json:"slices"`
	Unmapped int          `json:"unmapped"`
	Total    int          `json:"total"`
}

// LabelTotals is the per-label sum of one metric, used by the histogram view.
type LabelTotals struct {
	Metric Metric        `json:"metric"`
	Totals []LabelAmount `json:"totals"`
}

// LabelAmount is a single label/value pair.
type LabelAmount struct {
	Label Label   `json:"label"`
	Value float64 `json:"value"`
}

// ClusterRankings is the set of per-cluster top-N charts of the clustering view.
type ClusterRankings struct {
	Label     Label   `json:"label"`
	Recency   Ranking `json:"recency"`
	Frequency Ranking `json:"frequency"`
	Monetary  Ranking `json:"monetary"`
}

// DataQuality reports issues found while loading that do not prevent serving.
type DataQuality struct {
	UnmappedClusterRows int   `json:"unmapped_cluster_rows"`
	UnmappedClusterIDs  []int `json:"unmapped_cluster_ids,omitempty"`
	MissingCompanyRows  int   `json:"missing_company_rows"`
	OutOfRangeRows      int   `json:"out_of_range_rows"`
	RowCountMismatch    bool  `json:"row_count_mismatch"`
}

// Clean reports whether no issue was found.
func (q DataQuality) Clean() bool {
	return q.UnmappedClusterRows == 0 && q.MissingCompanyRows == 0 &&
		q.OutOfRangeRows == 0 && !q.RowCountMismatch
}
