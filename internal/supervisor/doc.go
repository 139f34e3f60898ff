// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

/*
Package supervisor runs the long-lived services of RFMBoard under a suture v4
supervisor tree.

	RootSupervisor ("rfmboard")
	├── DataSupervisor ("data-layer")
	│   └── dataset-watcher (if data.watch)
	├── MessagingSupervisor ("messaging-layer")
	│   └── websocket-hub
	└── APISupervisor ("api-layer")
	    └── http-server

A crashing watcher is restarted without touching the HTTP server, which keeps
serving the last published snapshot. Supervisor events are logged through the
sutureslog adapter fed by logging.NewSlogLogger.

Usage from main:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	err = tree.Serve(ctx)
	tree.LogUnstoppedServices()
*/
package supervisor
