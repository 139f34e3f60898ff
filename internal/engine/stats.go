// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

package engine

import (
	"fmt"
	"math"

	"github.com/tomtom215/rfmboard/internal/models"
)

// CorrelationMatrix computes the Pearson coefficient for every pair of
// columns. The matrix is symmetric. A coefficient is NaN when fewer than two
// rows are given or either column has zero variance; the diagonal is 1 for
// every column that has variance.
func CorrelationMatrix[R models.Row](rows []R, columns []models.Metric) (models.CorrelationMatrix, error) {
	k := len(columns)
	cols := make([][]float64, k)
	for c, m := range columns {
		if !m.Valid() {
			return models.CorrelationMatrix{}, fmt.Errorf("unknown metric %q", m)
		}
		cols[c] = make([]float64, len(rows))
		for i, r := range rows {
			v, ok := r.MetricValue(m)
			if !ok {
				return models.CorrelationMatrix{}, fmt.Errorf("metric %s is not available on this table", m)
			}
			cols[c][i] = v
		}
	}

	values := make([][]float64, k)
	for i := range values {
		values[i] = make([]float64, k)
	}
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			r := pearson(cols[i], cols[j])
			if i == j && !math.IsNaN(r) {
				r = 1
			}
			values[i][j] = r
			values[j][i] = r
		}
	}

	return models.CorrelationMatrix{
		Columns: append([]models.Metric(nil), columns...),
		Values:  values,
		Rows:    len(rows),
	}, nil
}

func pearson(x, y []float64) float64 {
	n := len(x)
	if n < 2 {
		return math.NaN()
	}
	mx, my := mean(x), mean(y)
	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		dx, dy := x[i]-mx, y[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return math.NaN()
	}
	r := sxy / math.Sqrt(sxx*syy)
	// Clamp accumulated rounding error.
	return math.Max(-1, math.Min(1, r))
}

func mean(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s / float64(len(xs))
}

// Describe reports the population size and the mean recency, frequency and
// monetary value. Means are undefined for an empty population.
func Describe[R models.Row](rows []R) models.Description {
	d := models.Description{
		Count:         len(rows),
		MeanRecency:   models.Undefined(),
		MeanFrequency: models.Undefined(),
		MeanMonetary:  models.Undefined(),
	}
	if len(rows) == 0 {
		return d
	}

	var r, f, m float64
	for _, row := range rows {
		v, _ := row.MetricValue(models.MetricRecency)
		r += v
		v, _ = row.MetricValue(models.MetricFrequency)
		f += v
		v, _ = row.MetricValue(models.MetricMonetary)
		m += v
	}
	n := float64(len(rows))
	d.MeanRecency = models.Defined(r / n)
	d.MeanFrequency = models.Defined(f / n)
	d.MeanMonetary = models.Defined(m / n)
	return d
}
