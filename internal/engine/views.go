// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

package engine

import (
	"sort"

	"github.com/tomtom215/rfmboard/internal/models"
)

// DescriptiveRankings holds the three top-N charts of the descriptive view.
type DescriptiveRankings struct {
	Recency        models.Ranking `json:"recency"`
	Frequency      models.Ranking `json:"frequency"`
	MonetaryScaled models.Ranking `json:"monetary_scaled"`
}

// Rankings builds the descriptive charts: the lowest mean Recency from the
// RFM table, and the highest total Frequency and Monetary_Scaled from the
// clustered table.
func Rankings(rfm []models.RFMRecord, clustered []models.CustomerRecord, n int) (DescriptiveRankings, error) {
	var out DescriptiveRankings
	var err error
	if out.Recency, err = TopN(rfm, models.DefaultRankSpec(models.MetricRecency, n)); err != nil {
		return out, err
	}
	if out.Frequency, err = TopN(clustered, models.DefaultRankSpec(models.MetricFrequency, n)); err != nil {
		return out, err
	}
	if out.MonetaryScaled, err = TopN(clustered, models.DefaultRankSpec(models.MetricMonetaryScaled, n)); err != nil {
		return out, err
	}
	return out, nil
}

// PerClusterTopN ranks the companies of every label present in rows, labels
// in order of first appearance. Rows with a missing label are skipped.
func PerClusterTopN(rows []models.CustomerRecord, n int) ([]models.ClusterRankings, error) {
	labels := Labels(rows)
	out := make([]models.ClusterRankings, 0, len(labels))
	for _, label := range labels {
		members := Apply(rows, Filter{Cluster: string(label)})
		cr := models.ClusterRankings{Label: label}
		var err error
		if cr.Recency, err = TopN(members, models.DefaultRankSpec(models.MetricRecencyScaled, n)); err != nil {
			return nil, err
		}
		if cr.Frequency, err = TopN(members, models.DefaultRankSpec(models.MetricFrequencyScaled, n)); err != nil {
			return nil, err
		}
		if cr.Monetary, err = TopN(members, models.DefaultRankSpec(models.MetricMonetaryScaled, n)); err != nil {
			return nil, err
		}
		out = append(out, cr)
	}
	return out, nil
}

// ClusterTable returns the rows of the cluster assignment table filtered by
// label and sorted stably by cluster id.
func ClusterTable(rows []models.CustomerRecord, cluster string) []models.CustomerRecord {
	out := Apply(rows, Filter{Cluster: cluster})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Cluster < out[j].Cluster })
	return out
}
