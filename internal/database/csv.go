// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/tomtom215/rfmboard/internal/database/query"
	"github.com/tomtom215/rfmboard/internal/models"
)

// Column names shared by the input files.
const (
	ColCompany         = "perusahaan"
	ColRecency         = "Recency"
	ColFrequency       = "Frequency"
	ColMonetary        = "Monetary"
	ColRecencyScaled   = "Recency_Scaled"
	ColFrequencyScaled = "Frequency_Scaled"
	ColMonetaryScaled  = "Monetary_Scaled"
	ColCluster         = "Cluster"
)

// RFMTable is the parsed RFM table.
type RFMTable struct {
	Rows []models.RFMRecord
	// MissingCompany counts rows with an empty perusahaan cell. They are kept
	// with an empty name, which never matches a search.
	MissingCompany int
}

// ClusteredTable is the parsed clustered table. Labels are not attached here.
type ClusteredTable struct {
	Rows           []models.CustomerRecord
	MissingCompany int
	// MissingCluster counts rows with an empty Cluster cell; their id is
	// models.ClusterUnknown.
	MissingCluster int
}

var (
	errNullValue  = errors.New("empty cell")
	errNotFinite  = errors.New("not a finite number")
	errNotInteger = errors.New("not a whole number")
)

// ReadRFM parses the RFM table (perusahaan, Recency, Frequency, Monetary).
func (db *DB) ReadRFM(ctx context.Context, path string) (RFMTable, error) {
	var out RFMTable
	pb := query.NewProjection(query.ReadCSV(path)).
		Cast(ColCompany, query.Varchar).
		Cast(ColRecency, query.Double).
		Cast(ColFrequency, query.Double).
		Cast(ColMonetary, query.Double)

	err := db.project(ctx, TableRFM, path, pb, func(rows *sql.Rows, line int) error {
		var (
			company                      sql.NullString
			recency, frequency, monetary sql.NullFloat64
		)
		if err := rows.Scan(&company, &recency, &frequency, &monetary); err != nil {
			return &SchemaError{Table: TableRFM, Path: path, Err: fmt.Errorf("row %d: %w", line, err)}
		}
		if err := requireValues(TableRFM, path, line,
			number(ColRecency, recency),
			count(ColFrequency, frequency),
			number(ColMonetary, monetary),
		); err != nil {
			return err
		}
		if !company.Valid {
			out.MissingCompany++
		}
		out.Rows = append(out.Rows, models.RFMRecord{
			Company:   company.String,
			Recency:   recency.Float64,
			Frequency: int64(frequency.Float64),
			Monetary:  monetary.Float64,
		})
		return nil
	})
	return out, err
}

// ReadScaled parses the min-max scaled table.
func (db *DB) ReadScaled(ctx context.Context, path string) ([]models.ScaledRecord, error) {
	var out []models.ScaledRecord
	pb := query.NewProjection(query.ReadCSV(path)).
		Cast(ColRecencyScaled, query.Double).
		Cast(ColFrequencyScaled, query.Double).
		Cast(ColMonetaryScaled, query.Double)

	err := db.project(ctx, TableScaled, path, pb, func(rows *sql.Rows, line int) error {
		var r, f, m sql.NullFloat64
		if err := rows.Scan(&r, &f, &m); err != nil {
			return &SchemaError{Table: TableScaled, Path: path, Err: fmt.Errorf("row %d: %w", line, err)}
		}
		if err := requireValues(TableScaled, path, line,
			number(ColRecencyScaled, r),
			number(ColFrequencyScaled, f),
			number(ColMonetaryScaled, m),
		); err != nil {
			return err
		}
		out = append(out, models.ScaledRecord{
			RecencyScaled:   r.Float64,
			FrequencyScaled: f.Float64,
			MonetaryScaled:  m.Float64,
		})
		return nil
	})
	return out, err
}

// ReadClustered parses the clustered table.
func (db *DB) ReadClustered(ctx context.Context, path string) (ClusteredTable, error) {
	var out ClusteredTable
	pb := query.NewProjection(query.ReadCSV(path)).
		Cast(ColCompany, query.Varchar).
		Cast(ColRecency, query.Double).
		Cast(ColFrequency, query.Double).
		Cast(ColMonetary, query.Double).
		Cast(ColRecencyScaled, query.Double).
		Cast(ColFrequencyScaled, query.Double).
		Cast(ColMonetaryScaled, query.Double).
		Cast(ColCluster, query.Double)

	err := db.project(ctx, TableClustered, path, pb, func(rows *sql.Rows, line int) error {
		var (
			company                 sql.NullString
			rec, frequency, mon     sql.NullFloat64
			rs, fs, ms, clusterCell sql.NullFloat64
		)
		if err := rows.Scan(&company, &rec, &frequency, &mon, &rs, &fs, &ms, &clusterCell); err != nil {
			return &SchemaError{Table: TableClustered, Path: path, Err: fmt.Errorf("row %d: %w", line, err)}
		}
		if err := requireValues(TableClustered, path, line,
			number(ColRecency, rec),
			count(ColFrequency, frequency),
			number(ColMonetary, mon),
			number(ColRecencyScaled, rs),
			number(ColFrequencyScaled, fs),
			number(ColMonetaryScaled, ms),
		); err != nil {
			return err
		}
		// An empty Cluster cell is allowed; anything else must be a whole number.
		id := models.ClusterUnknown
		if clusterCell.Valid {
			if err := requireValues(TableClustered, path, line, count(ColCluster, clusterCell)); err != nil {
				return err
			}
			id = models.ClusterID(int64(clusterCell.Float64))
		} else {
			out.MissingCluster++
		}
		if !company.Valid {
			out.MissingCompany++
		}
		out.Rows = append(out.Rows, models.CustomerRecord{
			Company:         company.String,
			Recency:         rec.Float64,
			Frequency:       int64(frequency.Float64),
			Monetary:        mon.Float64,
			RecencyScaled:   rs.Float64,
			FrequencyScaled: fs.Float64,
			MonetaryScaled:  ms.Float64,
			Cluster:         id,
		})
		return nil
	})
	return out, err
}

// project checks the file, validates its header and streams the projected
// rows to scan. line is the 1-based data row number.
func (db *DB) project(ctx context.Context, table Table, path string, pb *query.ProjectionBuilder, scan func(rows *sql.Rows, line int) error) error {
	if err := checkSource(table, path); err != nil {
		return err
	}

	header, err := db.header(ctx, table, path)
	if err != nil {
		return err
	}
	if missing := missingColumns(header, pb.Columns()); len(missing) > 0 {
		return &SchemaError{Table: table, Path: path, Missing: missing}
	}

	rows, err := db.conn.QueryContext(ctx, pb.Build())
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &SchemaError{Table: table, Path: path, Err: err}
	}
	defer closeWithLog(rows, "rows")

	line := 0
	for rows.Next() {
		line++
		if err := scan(rows, line); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &SchemaError{Table: table, Path: path, Err: err}
	}
	return nil
}

// checkSource fails with MissingSourceError when path is absent, a directory
// or not readable by the process.
func checkSource(table Table, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &MissingSourceError{Table: table, Path: path, Err: err}
	}
	if info.IsDir() {
		return &MissingSourceError{Table: table, Path: path, Err: errors.New("is a directory")}
	}
	f, err := os.Open(path)
	if err != nil {
		return &MissingSourceError{Table: table, Path: path, Err: err}
	}
	closeQuietly(f)
	return nil
}

// header returns the column names DuckDB detects for the file. A file DuckDB
// cannot parse at all (empty, binary) is treated as unreadable.
func (db *DB) header(ctx context.Context, table Table, path string) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, query.Header(query.ReadCSV(path)))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &MissingSourceError{Table: table, Path: path, Err: err}
	}
	defer closeWithLog(rows, "rows")

	cols, err := rows.Columns()
	if err != nil {
		return nil, &MissingSourceError{Table: table, Path: path, Err: err}
	}
	return cols, nil
}

func missingColumns(have, want []string) []string {
	present := make(map[string]struct{}, len(have))
	for _, c := range have {
		present[c] = struct{}{}
	}
	var missing []string
	for _, c := range want {
		if _, ok := present[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

// cell is one required numeric value of a row. Numeric columns are all read
// as DOUBLE; NaN, infinities and fractional counts are rejected here.
type cell struct {
	column string
	value  sql.NullFloat64
	whole  bool
}

func number(column string, v sql.NullFloat64) cell { return cell{column: column, value: v} }

func count(column string, v sql.NullFloat64) cell {
	return cell{column: column, value: v, whole: true}
}

func (c cell) check() error {
	v := c.value.Float64
	switch {
	case !c.value.Valid:
		return errNullValue
	case math.IsNaN(v) || math.IsInf(v, 0):
		return errNotFinite
	case c.whole && (v != math.Trunc(v) || math.Abs(v) > 1<<53):
		return errNotInteger
	}
	return nil
}

func requireValues(table Table, path string, line int, cells ...cell) error {
	for _, c := range cells {
		if err := c.check(); err != nil {
			return &SchemaError{Table: table, Path: path, Column: c.column, Err: fmt.Errorf("row %d: %w", line, err)}
		}
	}
	return nil
}
