// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

package engine

import (
	"math"
	"sort"

	"github.com/tomtom215/rfmboard/internal/models"
)

// Round4 rounds half away from zero to 4 decimal places.
func Round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

// Round2 rounds half away from zero to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

type labelGroup struct {
	label          models.Label
	count          int
	sumR, sumF, sM float64
}

// ClusterSummary groups rows by cluster label and reports the mean of each
// scaled metric (rounded to 4 places), the member count and the share of
// len(rows) (2 places).
//
// Groups are ordered by label text; rows with a missing label form a last
// group so that member counts always add up to len(rows). Percentages are
// apportioned with the largest remainder method and add up to exactly 100.
// Empty input yields NoData with no rows.
func ClusterSummary(rows []models.CustomerRecord) models.SummaryResult {
	if len(rows) == 0 {
		return models.SummaryResult{Rows: []models.ClusterSummary{}, NoData: true}
	}

	index := make(map[models.Label]int)
	var groups []labelGroup
	for _, r := range rows {
		i, ok := index[r.ClusterLabel]
		if !ok {
			i = len(groups)
			index[r.ClusterLabel] = i
			groups = append(groups, labelGroup{label: r.ClusterLabel})
		}
		g := &groups[i]
		g.count++
		g.sumR += r.RecencyScaled
		g.sumF += r.FrequencyScaled
		g.sM += r.MonetaryScaled
	}

	sort.SliceStable(groups, func(a, b int) bool {
		la, lb := groups[a].label, groups[b].label
		if la.Missing() != lb.Missing() {
			return lb.Missing()
		}
		return la < lb
	})

	counts := make([]int, len(groups))
	for i, g := range groups {
		counts[i] = g.count
	}
	pcts := apportion(counts, len(rows))

	out := make([]models.ClusterSummary, len(groups))
	for i, g := range groups {
		n := float64(g.count)
		out[i] = models.ClusterSummary{
			Label:           g.label,
			RecencyScaled:   Round4(g.sumR / n),
			FrequencyScaled: Round4(g.sumF / n),
			MonetaryScaled:  Round4(g.sM / n),
			Members:         g.count,
			Percentage:      pcts[i],
		}
	}
	return models.SummaryResult{Rows: out, Total: len(rows)}
}

// apportion converts counts into percentages with 2 decimals that sum to
// exactly 100. Work is done in hundredths of a percent: each share gets its
// floor, and the leftover units go to the largest remainders, earlier
// entries first on ties.
func apportion(counts []int, total int) []float64 {
	const units = 10000
	out := make([]float64, len(counts))
	if total <= 0 {
		return out
	}

	floors := make([]int, len(counts))
	rems := make([]int, len(counts))
	assigned := 0
	for i, c := range counts {
		floors[i] = c * units / total
		rems[i] = c * units % total
		assigned += floors[i]
	}

	order := make([]int, len(counts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return rems[order[a]] > rems[order[b]] })
	for k := 0; k < units-assigned && k < len(order); k++ {
		floors[order[k]]++
	}

	for i, f := range floors {
		out[i] = float64(f) / 100
	}
	return out
}

// Distribution counts members per label in models.DistributionOrder,
// zero-filled. Percentages are shares of the labelled rows; rows with a
// missing label are only counted in Unmapped.
func Distribution(rows []models.CustomerRecord) models.Distribution {
	counts := make(map[models.Label]int, len(models.DistributionOrder))
	unmapped := 0
	for _, r := range rows {
		if r.ClusterLabel.Missing() {
			unmapped++
			continue
		}
		counts[r.ClusterLabel]++
	}

	labelled := len(rows) - unmapped
	slices := make([]models.LabelCount, len(models.DistributionOrder))
	for i, label := range models.DistributionOrder {
		c := counts[label]
		pct := models.Undefined()
		if labelled > 0 {
			pct = models.Defined(Round2(float64(c) / float64(labelled) * 100))
		}
		slices[i] = models.LabelCount{Label: label, Count: c, Percentage: pct}
	}
	return models.Distribution{Slices: slices, Unmapped: unmapped, Total: len(rows)}
}

// Labels returns the distinct non-missing labels in order of first appearance.
func Labels(rows []models.CustomerRecord) []models.Label {
	seen := make(map[models.Label]struct{})
	var out []models.Label
	for _, r := range rows {
		if r.ClusterLabel.Missing() {
			continue
		}
		if _, ok := seen[r.ClusterLabel]; ok {
			continue
		}
		seen[r.ClusterLabel] = struct{}{}
		out = append(out, r.ClusterLabel)
	}
	return out
}

// ClusterOptions returns the selector values: "Semua" followed by Labels(rows).
func ClusterOptions(rows []models.CustomerRecord) []string {
	labels := Labels(rows)
	out := make([]string, 0, len(labels)+1)
	out = append(out, models.SelectAllLocal)
	for _, l := range labels {
		out = append(out, string(l))
	}
	return out
}

// LabelTotals sums metric per label, labels in order of first appearance.
// Rows with a missing label are skipped.
func LabelTotals(rows []models.CustomerRecord, metric models.Metric) models.LabelTotals {
	labels := Labels(rows)
	sums := make(map[models.Label]float64, len(labels))
	for _, r := range rows {
		if r.ClusterLabel.Missing() {
			continue
		}
		v, _ := r.MetricValue(metric)
		sums[r.ClusterLabel] += v
	}
	totals := make([]models.LabelAmount, len(labels))
	for i, l := range labels {
		totals[i] = models.LabelAmount{Label: l, Value: sums[l]}
	}
	return models.LabelTotals{Metric: metric, Totals: totals}
}
