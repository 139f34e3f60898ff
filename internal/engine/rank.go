// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

package engine

import (
	"fmt"
	"sort"

	"github.com/tomtom215/rfmboard/internal/models"
)

type group struct {
	company string
	sum     float64
	count   int
}

func (g group) value(agg models.Aggregate) float64 {
	if agg == models.AggregateMean {
		return g.sum / float64(g.count)
	}
	return g.sum
}

// TopN groups rows by company, reduces each group with spec.Aggregate and
// returns the first spec.N groups ordered by spec.Order.
//
// Groups are formed in order of first appearance and sorted stably, so ties
// keep that order. Rows with an empty company are not grouped. The result has
// min(N, groups) entries.
func TopN[R models.Row](rows []R, spec models.RankSpec) (models.Ranking, error) {
	if err := validateSpec(spec); err != nil {
		return models.Ranking{}, err
	}

	index := make(map[string]int)
	groups := make([]group, 0)
	for _, r := range rows {
		v, ok := r.MetricValue(spec.Metric)
		if !ok {
			return models.Ranking{}, fmt.Errorf("metric %s is not available on this table", spec.Metric)
		}
		company := r.CompanyName()
		if company == "" {
			continue
		}
		i, seen := index[company]
		if !seen {
			i = len(groups)
			index[company] = i
			groups = append(groups, group{company: company})
		}
		groups[i].sum += v
		groups[i].count++
	}

	values := make([]float64, len(groups))
	for i, g := range groups {
		values[i] = g.value(spec.Aggregate)
	}
	order := make([]int, len(groups))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		if spec.Order == models.Ascending {
			return values[order[a]] < values[order[b]]
		}
		return values[order[a]] > values[order[b]]
	})

	n := spec.N
	if n > len(order) {
		n = len(order)
	}
	entries := make([]models.RankEntry, n)
	for i := 0; i < n; i++ {
		g := order[i]
		entries[i] = models.RankEntry{Rank: i + 1, Company: groups[g].company, Value: values[g]}
	}

	return models.Ranking{
		Spec:      spec,
		Direction: spec.Metric.Direction(),
		Groups:    len(groups),
		Entries:   entries,
	}, nil
}

func validateSpec(spec models.RankSpec) error {
	if !spec.Metric.Valid() {
		return fmt.Errorf("unknown metric %q", spec.Metric)
	}
	if spec.N < 0 {
		return fmt.Errorf("n must not be negative, got %d", spec.N)
	}
	switch spec.Aggregate {
	case models.AggregateSum, models.AggregateMean:
	default:
		return fmt.Errorf("unknown aggregate %q", spec.Aggregate)
	}
	switch spec.Order {
	case models.Ascending, models.Descending:
	default:
		return fmt.Errorf("unknown sort order %q", spec.Order)
	}
	return nil
}
