// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

package presentation

import (
	"math"
	"strconv"

	"github.com/tomtom215/rfmboard/internal/models"
)

// Column headers shared with the CSV inputs.
const (
	headerCompany    = "perusahaan"
	headerCluster    = "Cluster"
	headerLabel      = "Cluster_Label"
	headerMembers    = "Jumlah Anggota"
	headerPercentage = "Persentase (%)"
)

// formatFloat renders v in its shortest form; NaN and infinities are missing.
func formatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

func formatLabel(l models.Label) string {
	return string(l)
}

// RFMTable renders the RFM table.
func RFMTable(rows []models.RFMRecord) Table {
	t := Table{
		Columns: []Column{
			{Name: headerCompany},
			{Name: string(models.MetricRecency), Numeric: true},
			{Name: string(models.MetricFrequency), Numeric: true},
			{Name: string(models.MetricMonetary), Numeric: true},
		},
		Rows: make([][]string, len(rows)),
	}
	for i, r := range rows {
		t.Rows[i] = []string{r.Company, formatFloat(r.Recency), formatInt(r.Frequency), formatFloat(r.Monetary)}
	}
	return t
}

// ClusterAssignmentTable renders the company, cluster id and label columns.
// An empty cluster cell renders as missing.
func ClusterAssignmentTable(rows []models.CustomerRecord) Table {
	t := Table{
		Columns: []Column{
			{Name: headerCompany},
			{Name: headerCluster, Numeric: true},
			{Name: headerLabel},
		},
		Rows: make([][]string, len(rows)),
	}
	for i, r := range rows {
		cluster := ""
		if r.Cluster != models.ClusterUnknown {
			cluster = formatInt(int64(r.Cluster))
		}
		t.Rows[i] = []string{r.Company, cluster, formatLabel(r.ClusterLabel)}
	}
	return t
}

// SummaryTable renders the cluster summary. An empty view gives a table with
// headers and no rows.
func SummaryTable(s models.SummaryResult) Table {
	t := Table{
		Columns: []Column{
			{Name: headerLabel},
			{Name: string(models.MetricRecencyScaled), Numeric: true},
			{Name: string(models.MetricFrequencyScaled), Numeric: true},
			{Name: string(models.MetricMonetaryScaled), Numeric: true},
			{Name: headerMembers, Numeric: true},
			{Name: headerPercentage, Numeric: true},
		},
		Rows: make([][]string, len(s.Rows)),
	}
	for i, r := range s.Rows {
		t.Rows[i] = []string{
			formatLabel(r.Label),
			formatFloat(r.RecencyScaled),
			formatFloat(r.FrequencyScaled),
			formatFloat(r.MonetaryScaled),
			formatInt(int64(r.Members)),
			formatFloat(r.Percentage),
		}
	}
	return t
}

// CorrelationTable renders the matrix with the column names as row headers.
// Undefined coefficients are empty cells.
func CorrelationTable(m models.CorrelationMatrix) Table {
	t := Table{
		Columns: make([]Column, 0, len(m.Columns)+1),
		Rows:    make([][]string, len(m.Columns)),
	}
	t.Columns = append(t.Columns, Column{Name: ""})
	for _, c := range m.Columns {
		t.Columns = append(t.Columns, Column{Name: string(c), Numeric: true})
	}
	for i, c := range m.Columns {
		row := make([]string, 0, len(m.Columns)+1)
		row = append(row, string(c))
		for j := range m.Columns {
			row = append(row, formatFloat(m.At(i, j)))
		}
		t.Rows[i] = row
	}
	return t
}

// RankingTable renders a top-N ranking.
func RankingTable(r models.Ranking) Table {
	t := Table{
		Columns: []Column{
			{Name: "Rank", Numeric: true},
			{Name: headerCompany},
			{Name: string(r.Spec.Metric), Numeric: true},
		},
		Rows: make([][]string, len(r.Entries)),
	}
	for i, e := range r.Entries {
		t.Rows[i] = []string{strconv.Itoa(e.Rank), e.Company, formatFloat(e.Value)}
	}
	return t
}
