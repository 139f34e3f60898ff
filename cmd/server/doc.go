// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

/*
Package main is the entry point for the RFMBoard server.

RFMBoard serves the RFM (Recency, Frequency, Monetary) customer segmentation
dashboard: descriptive statistics of the customer base and the K-Means
clustering results, filtered by cluster label and company name.

# Application Architecture

	RootSupervisor ("rfmboard")
	├── DataSupervisor ("data-layer")
	│   └── Dataset watcher (optional, DATA_WATCH=true)
	├── MessagingSupervisor ("messaging-layer")
	│   └── WebSocket Hub (dataset reload notifications)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Database: in-memory DuckDB used to parse the CSV tables
 4. Dataset: initial load of the three tables into an immutable snapshot
 5. Result cache and WebSocket hub
 6. Supervisor Tree: Suture v4 process supervision
 7. HTTP Server: Chi router with middleware stack

A failed initial load does not stop the server. Every data endpoint answers
503 with the load warning until POST /api/v1/dataset/reload (or the watcher)
succeeds.

# Configuration

	Priority: Environment variables > Config file > Defaults

	# Data
	RFM_DATA_DIR=.                        # directory holding the CSV files
	RFM_FILE=rfm_tanpa_outlier.csv
	SCALED_FILE=rfm_minmax_scaled.csv
	CLUSTERED_FILE=rfm_clustered.csv
	DATA_WATCH=false                      # reload when a file changes

	# Server
	HTTP_PORT=8501
	LOG_LEVEL=info                        # trace, debug, info, warn, error
	LOG_FORMAT=json                       # json or console

	# Security
	CORS_ORIGINS=https://dashboard.example.com
	RATE_LIMIT_REQUESTS=100

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
in-flight requests for HTTP_SHUTDOWN_TIMEOUT, the hub closes every
WebSocket client, and the database is closed last.

# Example Usage

	export RFM_DATA_DIR=/srv/rfm
	export LOG_FORMAT=console
	./rfmboard

Docker:

	docker run -d -v /srv/rfm:/data -e RFM_DATA_DIR=/data -p 8501:8501 \
	  ghcr.io/tomtom215/rfmboard
*/
package main
