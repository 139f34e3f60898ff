// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

package models

import (
	"time"
)

// APIResponse is the envelope returned by every JSON endpoint.
//
// Status is "success" with Data populated, or "error" with Error populated.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"rows": [...], "total": 120, "no_data": false},
//	  "metadata": {
//	    "timestamp": "2026-01-10T12:00:00Z",
//	    "query_time_ms": 2,
//	    "generation": 3
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "DATA_UNAVAILABLE",
//	    "message": "Pastikan file CSV (...) berada di lokasi yang benar."
//	  },
//	  "metadata": {"timestamp": "2026-01-10T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries timing and cache information.
//
// Cached responses report QueryTimeMS 0 and Cached true. Generation is the
// dataset snapshot the data was computed from.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
	Generation  uint64    `json:"generation,omitempty"`
}

// APIError is a machine-readable error code plus a human message.
//
// Codes in use:
//   - VALIDATION_ERROR: invalid query parameters
//   - DATA_UNAVAILABLE: the dataset is in its degraded (empty) state
//   - RELOAD_FAILED: an explicit reload could not complete
//   - INTERNAL_ERROR: unexpected failure while building a response
//   - METHOD_NOT_ALLOWED
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is returned by the health endpoint.
type HealthStatus struct {
	Status     string  `json:"status"` // healthy or degraded
	Version    string  `json:"version"`
	DataLoaded bool    `json:"data_loaded"`
	Generation uint64  `json:"generation"`
	Uptime     float64 `json:"uptime_seconds"`
}

// DatasetStatus describes the snapshot currently being served.
type DatasetStatus struct {
	Generation   uint64         `json:"generation"`
	LoadedAt     time.Time      `json:"loaded_at"`
	LoadDuration float64        `json:"load_duration_ms"`
	Degraded     bool           `json:"degraded"`
	Warning      string         `json:"warning,omitempty"`
	Error        string         `json:"error,omitempty"`
	Sources      []string       `json:"sources"`
	Rows         map[string]int `json:"rows"`
	Quality      DataQuality    `json:"quality"`
}

// ClusterOptions feeds the cluster selector.
type ClusterOptions struct {
	Options []string          `json:"options"`
	Colors  map[string]string `json:"colors"`
}
