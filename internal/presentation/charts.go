// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

package presentation

import (
	"fmt"
	"math"

	"github.com/tomtom215/rfmboard/internal/models"
)

// Orientation of a bar chart.
type Orientation string

const (
	Vertical   Orientation = "v"
	Horizontal Orientation = "h"
)

// BarChart is a single-series bar chart of a ranking. Categories and Values
// are in rank order.
type BarChart struct {
	Title       string      `json:"title"`
	Metric      string      `json:"metric"`
	Direction   string      `json:"direction"`
	Orientation Orientation `json:"orientation"`
	Color       string      `json:"color"`
	Categories  []string    `json:"categories"`
	Values      []float64   `json:"values"`
}

// Bar converts a ranking into a bar chart.
func Bar(title string, r models.Ranking, o Orientation) BarChart {
	c := BarChart{
		Title:       title,
		Metric:      string(r.Spec.Metric),
		Direction:   r.Direction.String(),
		Orientation: o,
		Color:       MetricColor(r.Spec.Metric),
		Categories:  make([]string, len(r.Entries)),
		Values:      make([]float64, len(r.Entries)),
	}
	for i, e := range r.Entries {
		c.Categories[i] = e.Company
		c.Values[i] = e.Value
	}
	return c
}

// PieChart is the cluster distribution.
type PieChart struct {
	Labels      []string               `json:"labels"`
	Values      []int                  `json:"values"`
	Percentages []models.OptionalFloat `json:"percentages"`
	Colors      []string               `json:"colors"`
	Unmapped    int                    `json:"unmapped"`
	Total       int                    `json:"total"`
}

// Pie converts a distribution into a pie chart.
func Pie(d models.Distribution) PieChart {
	p := PieChart{
		Labels:      make([]string, len(d.Slices)),
		Values:      make([]int, len(d.Slices)),
		Percentages: make([]models.OptionalFloat, len(d.Slices)),
		Colors:      make([]string, len(d.Slices)),
		Unmapped:    d.Unmapped,
		Total:       d.Total,
	}
	for i, s := range d.Slices {
		p.Labels[i] = string(s.Label)
		p.Values[i] = s.Count
		p.Percentages[i] = s.Percentage
		p.Colors[i] = LabelColor(s.Label)
	}
	return p
}

// ViolinSeries is the raw distribution of one scaled metric.
type ViolinSeries struct {
	Title  string    `json:"title"`
	Metric string    `json:"metric"`
	Color  string    `json:"color"`
	Values []float64 `json:"values"`
}

// Violins returns one series per scaled metric of the scaled table.
func Violins(rows []models.ScaledRecord) []ViolinSeries {
	titles := map[models.Metric]string{
		models.MetricRecencyScaled:   "Recency (Scaled)",
		models.MetricFrequencyScaled: "Frequency (Scaled)",
		models.MetricMonetaryScaled:  "Monetary (Scaled)",
	}
	out := make([]ViolinSeries, len(models.ScaledMetrics))
	for i, m := range models.ScaledMetrics {
		s := ViolinSeries{
			Title:  titles[m],
			Metric: string(m),
			Color:  MetricColor(m),
			Values: make([]float64, len(rows)),
		}
		for j, r := range rows {
			s.Values[j], _ = r.MetricValue(m)
		}
		out[i] = s
	}
	return out
}

// ScatterPoint is one company in the 3D clustering plot. The axes are the
// scaled metrics; the raw values are carried for the hover text.
type ScatterPoint struct {
	X         float64      `json:"x"`
	Y         float64      `json:"y"`
	Z         float64      `json:"z"`
	Company   string       `json:"perusahaan"`
	Label     models.Label `json:"label"`
	Color     string       `json:"color"`
	Recency   float64      `json:"recency"`
	Frequency int64        `json:"frequency"`
	Monetary  float64      `json:"monetary"`
	Hover     string       `json:"hover"`
}

// Chart titles of the clustering view.
const (
	ScatterTitle            = "Visualisasi 3D RFM Clustering"
	HeatmapTitle            = "Heatmap Korelasi RFM (Gold Palette)"
	FrequencyHistogramTitle = "Sebaran Cluster vs Frequency"
	MonetaryHistogramTitle  = "Sebaran Cluster vs Monetary"
)

// Scatter3D is the 3D clustering plot.
type Scatter3D struct {
	Title  string         `json:"title"`
	Axes   [3]string      `json:"axes"`
	Points []ScatterPoint `json:"points"`
}

// Scatter builds the 3D plot of rows in input order.
func Scatter(rows []models.CustomerRecord) Scatter3D {
	s := Scatter3D{
		Title: ScatterTitle,
		Axes: [3]string{
			string(models.MetricRecencyScaled),
			string(models.MetricFrequencyScaled),
			string(models.MetricMonetaryScaled),
		},
		Points: make([]ScatterPoint, len(rows)),
	}
	for i, r := range rows {
		s.Points[i] = ScatterPoint{
			X:         r.RecencyScaled,
			Y:         r.FrequencyScaled,
			Z:         r.MonetaryScaled,
			Company:   r.Company,
			Label:     r.ClusterLabel,
			Color:     LabelColor(r.ClusterLabel),
			Recency:   r.Recency,
			Frequency: r.Frequency,
			Monetary:  r.Monetary,
			Hover:     hoverText(r),
		}
	}
	return s
}

func hoverText(r models.CustomerRecord) string {
	return fmt.Sprintf("Perusahaan: %s\nCluster: %s\nRecency (Hari): %.0f\nFrequency (Total): %d\nMonetary (Rp): %s",
		r.Company, formatLabel(r.ClusterLabel), r.Recency, r.Frequency, Rupiah(r.Monetary))
}

// Heatmap is the correlation heatmap. Undefined cells are null in Z and
// empty in Text.
type Heatmap struct {
	Title      string                   `json:"title"`
	X          []string                 `json:"x"`
	Y          []string                 `json:"y"`
	Z          [][]models.OptionalFloat `json:"z"`
	Text       [][]string               `json:"text"`
	ColorScale []string                 `json:"color_scale"`
	Rows       int                      `json:"rows"`
}

// CorrelationHeatmap converts a correlation matrix into a heatmap.
func CorrelationHeatmap(m models.CorrelationMatrix) Heatmap {
	names := make([]string, len(m.Columns))
	for i, c := range m.Columns {
		names[i] = string(c)
	}
	h := Heatmap{
		Title:      HeatmapTitle,
		X:          names,
		Y:          names,
		Z:          make([][]models.OptionalFloat, len(m.Columns)),
		Text:       make([][]string, len(m.Columns)),
		ColorScale: HeatmapScale,
		Rows:       m.Rows,
	}
	for i := range m.Columns {
		h.Z[i] = make([]models.OptionalFloat, len(m.Columns))
		h.Text[i] = make([]string, len(m.Columns))
		for j := range m.Columns {
			v := m.At(i, j)
			h.Z[i][j] = models.Defined(v)
			if !math.IsNaN(v) {
				h.Text[i][j] = strconvRound(v, 2)
			}
		}
	}
	return h
}

// HistogramChart is the grouped per-label sum of one metric.
type HistogramChart struct {
	Title  string    `json:"title"`
	Metric string    `json:"metric"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Colors []string  `json:"colors"`
}

// Histogram converts label totals into a chart.
func Histogram(title string, t models.LabelTotals) HistogramChart {
	h := HistogramChart{
		Title:  title,
		Metric: string(t.Metric),
		Labels: make([]string, len(t.Totals)),
		Values: make([]float64, len(t.Totals)),
		Colors: make([]string, len(t.Totals)),
	}
	for i, a := range t.Totals {
		h.Labels[i] = string(a.Label)
		h.Values[i] = a.Value
		h.Colors[i] = LabelColor(a.Label)
	}
	return h
}

// ClusterBars holds the three per-cluster ranking charts of one label.
type ClusterBars struct {
	Label     models.Label `json:"label"`
	Color     string       `json:"color"`
	Recency   BarChart     `json:"recency"`
	Frequency BarChart     `json:"frequency"`
	Monetary  BarChart     `json:"monetary"`
}

// PerClusterBars converts per-cluster rankings into horizontal bar charts.
func PerClusterBars(rankings []models.ClusterRankings, n int) []ClusterBars {
	out := make([]ClusterBars, len(rankings))
	for i, r := range rankings {
		out[i] = ClusterBars{
			Label:     r.Label,
			Color:     LabelColor(r.Label),
			Recency:   Bar(fmt.Sprintf("Top %d Recency Terendah", n), r.Recency, Horizontal),
			Frequency: Bar(fmt.Sprintf("Top %d Frequency Tertinggi", n), r.Frequency, Horizontal),
			Monetary:  Bar(fmt.Sprintf("Top %d Monetary Tertinggi", n), r.Monetary, Horizontal),
		}
	}
	return out
}

// RankingBars holds the three descriptive ranking charts.
type RankingBars struct {
	Recency        BarChart `json:"recency"`
	Frequency      BarChart `json:"frequency"`
	MonetaryScaled BarChart `json:"monetary_scaled"`
}

// DescriptiveBars titles the descriptive rankings.
func DescriptiveBars(recency, frequency, monetary models.Ranking, n int) RankingBars {
	return RankingBars{
		Recency:        Bar(fmt.Sprintf("Top %d Recency (Hari Terendah)", n), recency, Vertical),
		Frequency:      Bar(fmt.Sprintf("Top %d Total Frequency", n), frequency, Vertical),
		MonetaryScaled: Bar(fmt.Sprintf("Top %d Total Monetary", n), monetary, Vertical),
	}
}
