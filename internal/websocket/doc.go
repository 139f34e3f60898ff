// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

/*
Package websocket pushes dataset lifecycle events to dashboard clients.

The Hub keeps the set of connected clients and fans out messages; each
Client runs a read pump and a write pump over a gorilla/websocket
connection. The hub runs as a supervised service through RunWithContext.

Server-to-client messages:

	{"type": "dataset_reloaded", "data": {"generation": 4, "degraded": false, ...}}
	{"type": "dataset_degraded", "data": {"generation": 5, "degraded": true, "warning": "..."}}
	{"type": "pong", "data": null}

Clients may send {"type": "ping"} and receive a pong. A dashboard that
receives dataset_reloaded should refetch its views; cached results of the
previous generation are never served again.
*/
package websocket
