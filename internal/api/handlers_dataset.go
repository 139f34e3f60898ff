// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/rfmboard/internal/dataset"
	"github.com/tomtom215/rfmboard/internal/engine"
	"github.com/tomtom215/rfmboard/internal/logging"
	"github.com/tomtom215/rfmboard/internal/models"
	"github.com/tomtom215/rfmboard/internal/presentation"
)

// Dataset returns the status of the published snapshot, including the
// data-quality report. It works while degraded.
func (h *Handler) Dataset(w http.ResponseWriter, r *http.Request) {
	snap := h.manager.Snapshot()
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     snap.Status(),
		Metadata: models.Metadata{Timestamp: time.Now().UTC(), Generation: snap.Generation},
	})
}

// DatasetReload rereads the CSV tables and publishes a new generation.
// A failed load still publishes a degraded snapshot and answers 500
// RELOAD_FAILED with the user-facing warning.
func (h *Handler) DatasetReload(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.config.Server.Timeout)
	defer cancel()

	start := time.Now()
	snap, err := h.manager.Reload(ctx)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeReloadFailed, "Reload did not finish", err)
		return
	case err != nil:
		respondAPIError(w, r, http.StatusInternalServerError, &models.APIError{
			Code:    ErrCodeReloadFailed,
			Message: snap.Warning,
			Details: map[string]interface{}{"generation": snap.Generation},
		}, err)
		return
	}

	logging.Ctx(r.Context()).Info().Uint64("generation", snap.Generation).Msg("dataset reloaded on request")
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   snap.Status(),
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Generation:  snap.Generation,
		},
	})
}

// Clusters returns the selector options: "Semua" and each label in order of
// first appearance, plus the label colors.
func (h *Handler) Clusters(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, "clusters", nil, func(snap *dataset.Snapshot) (interface{}, error) {
		return models.ClusterOptions{
			Options: engine.ClusterOptions(snap.Clustered),
			Colors:  presentation.LabelColors(),
		}, nil
	})
}
