// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

// Package presentation turns engine results into render-ready structures:
// HTML, CSV and Markdown tables, chart series and headline strings.
//
// Nothing here computes statistics. Every builder is null-safe: missing
// labels and undefined values become empty cells or JSON null, never "NaN"
// or "<nil>".
package presentation

import "github.com/tomtom215/rfmboard/internal/models"

// Dashboard palette.
const (
	ColorGold      = "#F6C90E"
	ColorGoldMid   = "#DDB308"
	ColorBronze    = "#A67C52"
	ColorNavy      = "#1F3A5F"
	ColorBlack     = "#0D0D0D"
	ColorCharcoal  = "#2E2E2E"
	ColorWhiteText = "#EAEAEA"
	ColorDarkBG    = "#1A1A1A"
)

// Ranking bar colors.
const (
	ColorRecency   = ColorNavy
	ColorFrequency = ColorGold
	ColorMonetary  = ColorBronze
)

// ColorUnmapped is used for rows without a cluster label.
const ColorUnmapped = ColorCharcoal

// HeatmapScale is the continuous color scale of the correlation heatmap.
var HeatmapScale = []string{"#FFF7E0", "#F6C90E", "#D4A017", "#8C5A10"}

var labelColors = map[models.Label]string{
	models.LabelLowValue:  ColorNavy,
	models.LabelRegular:   ColorGold,
	models.LabelHighValue: ColorBronze,
}

// LabelColor returns the chart color of a cluster label.
func LabelColor(l models.Label) string {
	if c, ok := labelColors[l]; ok {
		return c
	}
	return ColorUnmapped
}

// LabelColors returns the label to color map for the cluster selector.
func LabelColors() map[string]string {
	out := make(map[string]string, len(labelColors))
	for l, c := range labelColors {
		out[string(l)] = c
	}
	return out
}

// MetricColor returns the bar color used for rankings of m.
func MetricColor(m models.Metric) string {
	switch m {
	case models.MetricRecency, models.MetricRecencyScaled:
		return ColorRecency
	case models.MetricFrequency, models.MetricFrequencyScaled:
		return ColorFrequency
	default:
		return ColorMonetary
	}
}
