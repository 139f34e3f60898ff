// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

/*
Package middleware provides the HTTP middleware shared by every route.

Key Components:

  - RequestID: request and correlation ids for structured logging
  - AccessLog: one zerolog line per request
  - PrometheusMetrics: request count, latency and in-flight gauge

All middleware has the func(http.Handler) http.Handler shape used by chi:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)

CORS, rate limiting and compression come from the chi ecosystem and are
configured in the api package.
*/
package middleware
