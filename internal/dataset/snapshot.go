// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

// Package dataset owns the loaded input tables.
//
// A Snapshot is an immutable view of the three tables taken by one load. The
// Manager publishes snapshots atomically: readers call Snapshot() once per
// request and work on that value, so a concurrent Reload never changes data
// under a running computation. A load that fails publishes an empty, degraded
// snapshot carrying a user-facing warning instead of stopping the process.
package dataset

import (
	"time"

	"github.com/tomtom215/rfmboard/internal/database"
	"github.com/tomtom215/rfmboard/internal/models"
)

// Snapshot is one loaded generation of the dataset. It must not be modified
// after publication; the engine functions only read from it.
type Snapshot struct {
	RFM       []models.RFMRecord
	Scaled    []models.ScaledRecord
	Clustered []models.CustomerRecord
	Quality   models.DataQuality

	Generation   uint64
	LoadedAt     time.Time
	LoadDuration time.Duration
	Sources      []string

	// Degraded is set when the load failed. The tables are then empty and
	// Warning holds the localized message shown to users.
	Degraded bool
	Warning  string
	Err      error
}

// Rows returns row counts keyed by table name.
func (s *Snapshot) Rows() map[string]int {
	return map[string]int{
		string(database.TableRFM):       len(s.RFM),
		string(database.TableScaled):    len(s.Scaled),
		string(database.TableClustered): len(s.Clustered),
	}
}

// Status describes the snapshot for the dataset endpoint.
func (s *Snapshot) Status() models.DatasetStatus {
	st := models.DatasetStatus{
		Generation:   s.Generation,
		LoadedAt:     s.LoadedAt,
		LoadDuration: float64(s.LoadDuration.Microseconds()) / 1000,
		Degraded:     s.Degraded,
		Warning:      s.Warning,
		Sources:      s.Sources,
		Rows:         s.Rows(),
		Quality:      s.Quality,
	}
	if s.Err != nil {
		st.Error = s.Err.Error()
	}
	return st
}
