// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/rfmboard/internal/cache"
	"github.com/tomtom215/rfmboard/internal/dataset"
	"github.com/tomtom215/rfmboard/internal/models"
	"github.com/tomtom215/rfmboard/internal/presentation"
)

// viewFunc computes a JSON payload from one snapshot.
type viewFunc func(snap *dataset.Snapshot) (interface{}, error)

// tableFunc computes a JSON payload together with its tabular rendering.
type tableFunc func(snap *dataset.Snapshot) (interface{}, presentation.Table, error)

// renderedTable is the cached text rendering of a table endpoint.
type renderedTable struct {
	Body string
}

// cacheParams identifies one cached result.
type cacheParams struct {
	Params     interface{} `json:"params"`
	Format     string      `json:"format,omitempty"`
	Generation uint64      `json:"generation"`
}

// execute runs the cache-first flow shared by the data endpoints:
//
//  1. take the current snapshot; a degraded one answers 503 DATA_UNAVAILABLE
//  2. look up (endpoint, params, generation) in the result cache
//  3. on a miss compute the payload once, even under concurrent requests
//  4. respond with the envelope and timing metadata
func (h *Handler) execute(w http.ResponseWriter, r *http.Request, endpoint string, params interface{}, fn viewFunc) {
	snap, ok := h.readySnapshot(w, r)
	if !ok {
		return
	}

	start := time.Now()
	key := cache.GenerateKey(endpoint, cacheParams{Params: params, Generation: snap.Generation})
	data, cached, err := h.load(key, func() (interface{}, error) { return fn(snap) })
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to compute "+endpoint, err)
		return
	}

	h.respondData(w, r, snap, data, cached, start)
}

// executeTable is execute for endpoints that can also answer as an HTML,
// CSV or Markdown table.
func (h *Handler) executeTable(w http.ResponseWriter, r *http.Request, endpoint string, params interface{}, format presentation.Format, fn tableFunc) {
	if format == presentation.FormatJSON {
		h.execute(w, r, endpoint, params, func(snap *dataset.Snapshot) (interface{}, error) {
			data, _, err := fn(snap)
			return data, err
		})
		return
	}

	snap, ok := h.readySnapshot(w, r)
	if !ok {
		return
	}

	key := cache.GenerateKey(endpoint, cacheParams{Params: params, Format: string(format), Generation: snap.Generation})
	value, cached, err := h.load(key, func() (interface{}, error) {
		_, tbl, err := fn(snap)
		if err != nil {
			return nil, err
		}
		body, err := tbl.Render(format)
		if err != nil {
			return nil, err
		}
		return renderedTable{Body: body}, nil
	})
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to render "+endpoint, err)
		return
	}

	h.setDataHeaders(w, snap, cached)
	respondText(w, r, format.ContentType(), value.(renderedTable).Body)
}

// readySnapshot returns the current snapshot, or answers 503 when it is
// degraded.
func (h *Handler) readySnapshot(w http.ResponseWriter, r *http.Request) (*dataset.Snapshot, bool) {
	snap := h.manager.Snapshot()
	if snap.Degraded {
		respondAPIError(w, r, http.StatusServiceUnavailable, &models.APIError{
			Code:    ErrCodeDataUnavailable,
			Message: snap.Warning,
			Details: map[string]interface{}{"generation": snap.Generation},
		}, nil)
		return nil, false
	}
	return snap, true
}

func (h *Handler) load(key string, fn func() (interface{}, error)) (interface{}, bool, error) {
	if h.cache == nil {
		data, err := fn()
		return data, false, err
	}
	return h.cache.GetOrLoad(key, fn)
}

func (h *Handler) setDataHeaders(w http.ResponseWriter, snap *dataset.Snapshot, cached bool) {
	w.Header().Set("X-Dataset-Generation", strconv.FormatUint(snap.Generation, 10))
	if cached {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
}

func (h *Handler) respondData(w http.ResponseWriter, r *http.Request, snap *dataset.Snapshot, data interface{}, cached bool, start time.Time) {
	meta := models.Metadata{
		Timestamp:  time.Now().UTC(),
		Cached:     cached,
		Generation: snap.Generation,
	}
	if !cached {
		meta.QueryTimeMS = time.Since(start).Milliseconds()
	}

	h.setDataHeaders(w, snap, cached)
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: meta,
	})
}
