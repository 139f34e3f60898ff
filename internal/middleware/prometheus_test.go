// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/rfmboard/internal/metrics"
)

func TestPrometheusMetrics(t *testing.T) {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics)
	r.Get("/api/v1/clustering/summary", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Post("/api/v1/dataset/reload", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	tests := []struct {
		method, path, pattern, status string
	}{
		{http.MethodGet, "/api/v1/clustering/summary?cluster=ALL", "/api/v1/clustering/summary", "200"},
		{http.MethodPost, "/api/v1/dataset/reload", "/api/v1/dataset/reload", "503"},
		{http.MethodGet, "/nope/123", unmatchedRoute, "404"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			counter := metrics.APIRequestsTotal.WithLabelValues(tt.method, tt.pattern, tt.status)
			before := testutil.ToFloat64(counter)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if got := strconv.Itoa(rec.Code); got != tt.status {
				t.Errorf("status = %s, want %s", got, tt.status)
			}
			if after := testutil.ToFloat64(counter); after != before+1 {
				t.Errorf("counter = %v, want %v", after, before+1)
			}
		})
	}

	if got := testutil.ToFloat64(metrics.APIActiveRequests); got != 0 {
		t.Errorf("active requests = %v after all requests finished", got)
	}
}
