// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

/*
Package api serves the RFM dashboard over HTTP.

Every handler reads the current dataset snapshot once and computes its
payload from that snapshot only, so all numbers of one response belong to the
same generation. Results are cached per endpoint, parameters and generation;
a reload clears the cache and notifies websocket clients.

Routes (all under /api/v1 unless noted):

	GET  /health, /health/live, /health/ready
	GET  /dataset                    snapshot status and data-quality report
	POST /dataset/reload             reread the CSV tables
	GET  /clusters                   cluster selector options and colors

	GET  /descriptive/overview       headline statistics
	GET  /descriptive/distribution   cluster pie
	GET  /descriptive/scaled         violin series of the scaled table
	GET  /descriptive/rankings?n=    top-N recency, frequency and monetary bars
	GET  /descriptive/rfm-table      RFM table (format=json|html|csv|markdown)
	GET  /descriptive/cluster-table  company to cluster assignment (cluster=, format=)

	GET  /clustering/scatter         3D scatter of the filtered view
	GET  /clustering/correlation     correlation matrix (format=)
	GET  /clustering/summary         cluster summary (format=)
	GET  /clustering/histogram       per-label totals
	GET  /clustering/top?n=          per-cluster top-N
	GET  /clustering/rankings        top-N for any metric (metric=, aggregate=, order=, n=, format=)
	GET  /clustering/view            every clustering payload at once

	GET  /ws                         dataset_reloaded / dataset_degraded events
	GET  /metrics                    Prometheus (root path)

Clustering endpoints accept cluster= (a label, or "", "ALL", "Semua" for
every label) and search= (case-insensitive company substring).

JSON responses use models.APIResponse. While the dataset is degraded, data
endpoints answer 503 with code DATA_UNAVAILABLE and the user-facing warning
as the message.
*/
package api
