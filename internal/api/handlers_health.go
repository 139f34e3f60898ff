// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/rfmboard/internal/models"
)

// Health reports overall status. It answers 200 even while the dataset is
// degraded; use HealthReady for gating traffic.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	snap := h.manager.Snapshot()

	status := "healthy"
	if snap.Degraded {
		status = "degraded"
	}

	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.HealthStatus{
			Status:     status,
			Version:    h.version,
			DataLoaded: !snap.Degraded,
			Generation: snap.Generation,
			Uptime:     time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}

// HealthLive answers 200 while the process is running.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     map[string]string{"status": "alive"},
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}

// HealthReady answers 200 once a non-degraded snapshot is published.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	snap := h.manager.Snapshot()
	if snap.Degraded {
		respondAPIError(w, r, http.StatusServiceUnavailable, &models.APIError{
			Code:    ErrCodeDataUnavailable,
			Message: snap.Warning,
		}, nil)
		return
	}

	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     map[string]interface{}{"status": "ready", "generation": snap.Generation},
		Metadata: models.Metadata{Timestamp: time.Now().UTC(), Generation: snap.Generation},
	})
}
