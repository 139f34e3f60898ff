// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

// Package services adapts the HTTP server and the websocket hub to
// suture.Service. The dataset watcher implements suture.Service itself and
// needs no wrapper.
package services
