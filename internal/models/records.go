// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

package models

// RFMRecord is one row of the RFM table (rfm_tanpa_outlier.csv).
type RFMRecord struct {
	Company   string  `json:"perusahaan"`
	Recency   float64 `json:"Recency"`
	Frequency int64   `json:"Frequency"`
	Monetary  float64 `json:"Monetary"`
}

// ScaledRecord is one row of the min-max scaled table (rfm_minmax_scaled.csv).
// Rows are aligned by position with the RFM table.
type ScaledRecord struct {
	RecencyScaled   float64 `json:"Recency_Scaled"`
	FrequencyScaled float64 `json:"Frequency_Scaled"`
	MonetaryScaled  float64 `json:"Monetary_Scaled"`
}

// CustomerRecord is one row of the clustered table (rfm_clustered.csv)
// with its cluster label attached at load time.
type CustomerRecord struct {
	Company         string    `json:"perusahaan"`
	Recency         float64   `json:"Recency"`
	Frequency       int64     `json:"Frequency"`
	Monetary        float64   `json:"Monetary"`
	RecencyScaled   float64   `json:"Recency_Scaled"`
	FrequencyScaled float64   `json:"Frequency_Scaled"`
	MonetaryScaled  float64   `json:"Monetary_Scaled"`
	Cluster         ClusterID `json:"Cluster"`
	ClusterLabel    Label     `json:"Cluster_Label"`
}

// Row is implemented by every table row the ranking engine can group.
type Row interface {
	CompanyName() string
	MetricValue(m Metric) (float64, bool)
}

// CompanyName implements Row.
func (r RFMRecord) CompanyName() string { return r.Company }

// MetricValue implements Row. Scaled metrics are not present in the RFM table.
func (r RFMRecord) MetricValue(m Metric) (float64, bool) {
	switch m {
	case MetricRecency:
		return r.Recency, true
	case MetricFrequency:
		return float64(r.Frequency), true
	case MetricMonetary:
		return r.Monetary, true
	default:
		return 0, false
	}
}

// CompanyName implements Row.
func (r CustomerRecord) CompanyName() string { return r.Company }

// MetricValue implements Row.
func (r CustomerRecord) MetricValue(m Metric) (float64, bool) {
	switch m {
	case MetricRecency:
		return r.Recency, true
	case MetricFrequency:
		return float64(r.Frequency), true
	case MetricMonetary:
		return r.Monetary, true
	case MetricRecencyScaled:
		return r.RecencyScaled, true
	case MetricFrequencyScaled:
		return r.FrequencyScaled, true
	case MetricMonetaryScaled:
		return r.MonetaryScaled, true
	default:
		return 0, false
	}
}

// MetricValue returns the scaled metric of a scaled-table row.
func (r ScaledRecord) MetricValue(m Metric) (float64, bool) {
	switch m {
	case MetricRecencyScaled:
		return r.RecencyScaled, true
	case MetricFrequencyScaled:
		return r.FrequencyScaled, true
	case MetricMonetaryScaled:
		return r.MonetaryScaled, true
	default:
		return 0, false
	}
}
