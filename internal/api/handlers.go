// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/rfmboard/internal/cache"
	"github.com/tomtom215/rfmboard/internal/config"
	"github.com/tomtom215/rfmboard/internal/dataset"
	"github.com/tomtom215/rfmboard/internal/logging"
	ws "github.com/tomtom215/rfmboard/internal/websocket"
)

// DatasetManager publishes dataset snapshots. *dataset.Manager implements it.
type DatasetManager interface {
	Snapshot() *dataset.Snapshot
	Reload(ctx context.Context) (*dataset.Snapshot, error)
}

// Handler holds the dependencies of every HTTP handler.
type Handler struct {
	manager   DatasetManager
	config    *config.Config
	cache     *cache.Cache // nil when caching is disabled
	hub       *ws.Hub      // nil disables the websocket endpoint
	version   string
	startTime time.Time
}

// NewHandler creates a handler. resultCache and hub may be nil.
func NewHandler(manager DatasetManager, cfg *config.Config, resultCache *cache.Cache, hub *ws.Hub, version string) *Handler {
	return &Handler{
		manager:   manager,
		config:    cfg,
		cache:     resultCache,
		hub:       hub,
		version:   version,
		startTime: time.Now(),
	}
}

// OnDatasetReload drops every cached result and tells websocket clients
// about the new snapshot. Register it with dataset.Manager.OnReload.
func (h *Handler) OnDatasetReload(snap *dataset.Snapshot) {
	if h.cache != nil {
		n := h.cache.Clear()
		logging.Debug().Int("entries", n).Uint64("generation", snap.Generation).Msg("result cache cleared")
	}
	if h.hub != nil {
		h.hub.BroadcastDataset(snap.Status())
	}
}

func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		HandshakeTimeout: 10 * time.Second,
		CheckOrigin:      h.checkWebSocketOrigin,
	}
}

// checkWebSocketOrigin accepts same-host origins and the configured CORS
// origins. Requests without an Origin header are rejected.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return false
	}

	if u, err := url.Parse(origin); err == nil && strings.EqualFold(u.Host, r.Host) {
		return true
	}

	for _, allowed := range h.config.Security.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	logging.Ctx(r.Context()).Warn().Str("origin", sanitizeLogValue(origin)).Msg("websocket origin rejected")
	return false
}

// WebSocket upgrades the connection and attaches it to the hub.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeDataUnavailable, "WebSocket not available", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.Ctx(r.Context()).Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := ws.NewClient(h.hub, conn)
	client.Start()
}
