// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/rfmboard/internal/middleware"
)

// compressibleTypes are the content types gzip-compressed by the router.
var compressibleTypes = []string{
	"application/json",
	"text/html",
	"text/csv",
	"text/markdown",
}

// Router wires handlers and middleware into a chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router.
func NewRouter(handler *Handler, chiMiddleware *ChiMiddleware) *Router {
	return &Router{handler: handler, chiMiddleware: chiMiddleware}
}

// SetupChi builds the HTTP handler with every route.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()
	h := router.handler

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		// Upgraded connections must not pass through the compressor.
		r.Get("/ws", h.WebSocket)

		r.Group(func(r chi.Router) {
			r.Use(chimiddleware.Compress(5, compressibleTypes...))

			r.Get("/dataset", h.Dataset)
			r.With(router.chiMiddleware.RateLimitReload()).Post("/dataset/reload", h.DatasetReload)
			r.Get("/clusters", h.Clusters)

			r.Route("/descriptive", func(r chi.Router) {
				r.Get("/overview", h.DescriptiveOverview)
				r.Get("/distribution", h.DescriptiveDistribution)
				r.Get("/scaled", h.DescriptiveScaled)
				r.Get("/rankings", h.DescriptiveRankings)
				r.Get("/rfm-table", h.DescriptiveRFMTable)
				r.Get("/cluster-table", h.DescriptiveClusterTable)
			})

			r.Route("/clustering", func(r chi.Router) {
				r.Get("/scatter", h.ClusteringScatter)
				r.Get("/correlation", h.ClusteringCorrelation)
				r.Get("/summary", h.ClusteringSummary)
				r.Get("/histogram", h.ClusteringHistogram)
				r.Get("/top", h.ClusteringTop)
				r.Get("/rankings", h.ClusteringRankings)
				r.Get("/view", h.ClusteringView)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
