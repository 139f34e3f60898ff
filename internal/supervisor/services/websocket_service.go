// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

package services

import (
	"context"
	"fmt"

	"github.com/thejerf/suture/v4"
)

// ContextHub is satisfied by *websocket.Hub.
type ContextHub interface {
	RunWithContext(ctx context.Context) error
}

// WebSocketHubService runs the dataset event hub under suture.
type WebSocketHubService struct {
	hub ContextHub
}

// NewWebSocketHubService wraps hub.
func NewWebSocketHubService(hub ContextHub) *WebSocketHubService {
	return &WebSocketHubService{hub: hub}
}

// Serve implements suture.Service. A hub that returned while ctx is still
// live has closed its done channel and cannot be run again.
func (w *WebSocketHubService) Serve(ctx context.Context) error {
	err := w.hub.RunWithContext(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("websocket hub stopped: %v: %w", err, suture.ErrDoNotRestart)
}

// String implements fmt.Stringer.
func (w *WebSocketHubService) String() string {
	return "websocket-hub"
}
