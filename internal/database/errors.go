// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

package database

import (
	"fmt"
	"strings"
)

// Table names one of the three input tables.
type Table string

// Input tables.
const (
	TableRFM       Table = "rfm"
	TableScaled    Table = "scaled"
	TableClustered Table = "clustered"
)

// MissingSourceError means an input table is absent or cannot be read.
type MissingSourceError struct {
	Table Table
	Path  string
	Err   error
}

func (e *MissingSourceError) Error() string {
	return fmt.Sprintf("%s table %s unavailable: %v", e.Table, e.Path, e.Err)
}

func (e *MissingSourceError) Unwrap() error { return e.Err }

// SchemaError means a table was readable but does not match the expected
// schema: a required column is missing or a value has the wrong type.
type SchemaError struct {
	Table   Table
	Path    string
	Missing []string // required columns absent from the header
	Column  string   // column holding a bad value, if known
	Err     error
}

func (e *SchemaError) Error() string {
	switch {
	case len(e.Missing) > 0:
		return fmt.Sprintf("%s table %s is missing columns: %s", e.Table, e.Path, strings.Join(e.Missing, ", "))
	case e.Column != "":
		return fmt.Sprintf("%s table %s has an invalid value in column %s: %v", e.Table, e.Path, e.Column, e.Err)
	default:
		return fmt.Sprintf("%s table %s does not match the expected schema: %v", e.Table, e.Path, e.Err)
	}
}

func (e *SchemaError) Unwrap() error { return e.Err }
