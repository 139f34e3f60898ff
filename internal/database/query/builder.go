// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

// Package query builds the DuckDB statements used to project CSV files into
// typed rows. File paths cannot be bound as parameters inside read_csv, so
// every identifier and literal goes through QuoteIdent or QuoteLiteral.
package query

import (
	"fmt"
	"strings"
)

// ColumnType is a DuckDB cast target.
type ColumnType string

// Cast targets used for the input tables.
const (
	Varchar ColumnType = "VARCHAR"
	Double  ColumnType = "DOUBLE"
	BigInt  ColumnType = "BIGINT"
)

// QuoteIdent quotes a column name.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteLiteral quotes a string literal.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// ReadCSV returns a read_csv table function call with a header row.
func ReadCSV(path string) string {
	return fmt.Sprintf("read_csv(%s, header = true)", QuoteLiteral(path))
}

// ProjectionBuilder assembles a SELECT of cast columns over a source.
//
//	sql := query.NewProjection(query.ReadCSV(path)).
//		Cast("perusahaan", query.Varchar).
//		Cast("Recency", query.Double).
//		Build()
//	// SELECT CAST("perusahaan" AS VARCHAR), CAST("Recency" AS DOUBLE) FROM read_csv('...', header = true)
type ProjectionBuilder struct {
	source  string
	columns []string
	names   []string
}

// NewProjection starts a projection over source.
func NewProjection(source string) *ProjectionBuilder {
	return &ProjectionBuilder{source: source}
}

// Cast adds CAST(column AS typ).
func (pb *ProjectionBuilder) Cast(column string, typ ColumnType) *ProjectionBuilder {
	pb.columns = append(pb.columns, fmt.Sprintf("CAST(%s AS %s)", QuoteIdent(column), typ))
	pb.names = append(pb.names, column)
	return pb
}

// Columns returns the projected column names in order.
func (pb *ProjectionBuilder) Columns() []string {
	return pb.names
}

// Build returns the SELECT statement. Row order follows the file.
func (pb *ProjectionBuilder) Build() string {
	if len(pb.columns) == 0 {
		return fmt.Sprintf("SELECT * FROM %s", pb.source)
	}
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(pb.columns, ", "), pb.source)
}

// Header returns a statement that yields the source's columns and no rows.
func Header(source string) string {
	return fmt.Sprintf("SELECT * FROM %s LIMIT 0", source)
}
