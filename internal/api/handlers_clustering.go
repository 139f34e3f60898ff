// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

package api

import (
	"net/http"

	"github.com/tomtom215/rfmboard/internal/dataset"
	"github.com/tomtom215/rfmboard/internal/engine"
	"github.com/tomtom215/rfmboard/internal/models"
	"github.com/tomtom215/rfmboard/internal/presentation"
)

// FilterEcho reports the filter a clustering payload was computed with.
type FilterEcho struct {
	Cluster string `json:"cluster"`
	Search  string `json:"search"`
	Count   int    `json:"count"`
}

// CorrelationResponse is the correlation matrix with its heatmap.
type CorrelationResponse struct {
	Matrix  models.CorrelationMatrix `json:"matrix"`
	Heatmap presentation.Heatmap     `json:"heatmap"`
}

// HistogramResponse holds the per-label totals of the two scaled metrics.
type HistogramResponse struct {
	Frequency presentation.HistogramChart `json:"frequency"`
	Monetary  presentation.HistogramChart `json:"monetary"`
}

// TopResponse is the per-cluster top-N block.
type TopResponse struct {
	N        int                        `json:"n"`
	Rankings []models.ClusterRankings   `json:"rankings"`
	Charts   []presentation.ClusterBars `json:"charts"`
}

// RankingResponse is a single ranking with its bar chart.
type RankingResponse struct {
	Ranking models.Ranking        `json:"ranking"`
	Chart   presentation.BarChart `json:"chart"`
	Filter  FilterEcho            `json:"filter"`
}

// ClusteringView is the whole clustering page for one filter.
type ClusteringView struct {
	Filter      FilterEcho             `json:"filter"`
	Scatter     presentation.Scatter3D `json:"scatter"`
	Correlation CorrelationResponse    `json:"correlation"`
	Summary     models.SummaryResult   `json:"summary"`
	Histogram   HistogramResponse      `json:"histogram"`
	Top         TopResponse            `json:"top"`
}

// filterParams is the cache identity of a filtered view.
type filterParams struct {
	Cluster string `json:"cluster"`
	Search  string `json:"search"`
	N       int    `json:"n,omitempty"`
}

// clusteringEndpoint parses the shared parameters and runs fn over the
// filtered clustered rows.
func (h *Handler) clusteringEndpoint(w http.ResponseWriter, r *http.Request, endpoint string, withN bool,
	fn func(req ViewRequest, rows []models.CustomerRecord) (interface{}, error)) {
	req, apiErr := h.parseViewRequest(r)
	if apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	params := filterParams{Cluster: req.Cluster, Search: req.Search}
	if withN {
		params.N = req.N
	}
	h.execute(w, r, endpoint, params, func(snap *dataset.Snapshot) (interface{}, error) {
		return fn(req, engine.Apply(snap.Clustered, req.Filter()))
	})
}

// ClusteringScatter handles GET /clustering/scatter.
func (h *Handler) ClusteringScatter(w http.ResponseWriter, r *http.Request) {
	h.clusteringEndpoint(w, r, "clustering.scatter", false, func(_ ViewRequest, rows []models.CustomerRecord) (interface{}, error) {
		return presentation.Scatter(rows), nil
	})
}

// ClusteringCorrelation handles GET /clustering/correlation?format=.
func (h *Handler) ClusteringCorrelation(w http.ResponseWriter, r *http.Request) {
	req, apiErr := h.parseViewRequest(r)
	if apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	params := filterParams{Cluster: req.Cluster, Search: req.Search}
	h.executeTable(w, r, "clustering.correlation", params, req.OutputFormat(),
		func(snap *dataset.Snapshot) (interface{}, presentation.Table, error) {
			c, err := correlation(engine.Apply(snap.Clustered, req.Filter()))
			if err != nil {
				return nil, presentation.Table{}, err
			}
			return c, presentation.CorrelationTable(c.Matrix), nil
		})
}

// ClusteringSummary handles GET /clustering/summary?format=.
func (h *Handler) ClusteringSummary(w http.ResponseWriter, r *http.Request) {
	req, apiErr := h.parseViewRequest(r)
	if apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	params := filterParams{Cluster: req.Cluster, Search: req.Search}
	h.executeTable(w, r, "clustering.summary", params, req.OutputFormat(),
		func(snap *dataset.Snapshot) (interface{}, presentation.Table, error) {
			s := engine.ClusterSummary(engine.Apply(snap.Clustered, req.Filter()))
			return s, presentation.SummaryTable(s), nil
		})
}

// ClusteringHistogram handles GET /clustering/histogram.
func (h *Handler) ClusteringHistogram(w http.ResponseWriter, r *http.Request) {
	h.clusteringEndpoint(w, r, "clustering.histogram", false, func(_ ViewRequest, rows []models.CustomerRecord) (interface{}, error) {
		return histogram(rows), nil
	})
}

// ClusteringTop handles GET /clustering/top?n=.
func (h *Handler) ClusteringTop(w http.ResponseWriter, r *http.Request) {
	h.clusteringEndpoint(w, r, "clustering.top", true, func(req ViewRequest, rows []models.CustomerRecord) (interface{}, error) {
		return top(rows, req.N)
	})
}

// ClusteringRankings handles GET /clustering/rankings: a single top-N over
// the filtered rows with an explicit metric, aggregate and order.
func (h *Handler) ClusteringRankings(w http.ResponseWriter, r *http.Request) {
	req, apiErr := h.parseRankingRequest(r)
	if apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	spec := req.Spec()
	params := struct {
		filterParams
		Spec models.RankSpec `json:"spec"`
	}{filterParams{Cluster: req.Cluster, Search: req.Search}, spec}

	h.executeTable(w, r, "clustering.rankings", params, req.OutputFormat(),
		func(snap *dataset.Snapshot) (interface{}, presentation.Table, error) {
			rows := engine.Apply(snap.Clustered, req.Filter())
			ranking, err := engine.TopN(rows, spec)
			if err != nil {
				return nil, presentation.Table{}, err
			}
			resp := RankingResponse{
				Ranking: ranking,
				Chart:   presentation.Bar(string(spec.Metric), ranking, presentation.Vertical),
				Filter:  FilterEcho{Cluster: req.Cluster, Search: req.Search, Count: len(rows)},
			}
			return resp, presentation.RankingTable(ranking), nil
		})
}

// ClusteringView handles GET /clustering/view: every clustering payload
// computed from one filtered row set.
func (h *Handler) ClusteringView(w http.ResponseWriter, r *http.Request) {
	h.clusteringEndpoint(w, r, "clustering.view", true, func(req ViewRequest, rows []models.CustomerRecord) (interface{}, error) {
		c, err := correlation(rows)
		if err != nil {
			return nil, err
		}
		t, err := top(rows, req.N)
		if err != nil {
			return nil, err
		}
		return ClusteringView{
			Filter:      FilterEcho{Cluster: req.Cluster, Search: req.Search, Count: len(rows)},
			Scatter:     presentation.Scatter(rows),
			Correlation: c,
			Summary:     engine.ClusterSummary(rows),
			Histogram:   histogram(rows),
			Top:         t,
		}, nil
	})
}

func correlation(rows []models.CustomerRecord) (CorrelationResponse, error) {
	m, err := engine.CorrelationMatrix(rows, models.ScaledMetrics)
	if err != nil {
		return CorrelationResponse{}, err
	}
	return CorrelationResponse{Matrix: m, Heatmap: presentation.CorrelationHeatmap(m)}, nil
}

func histogram(rows []models.CustomerRecord) HistogramResponse {
	return HistogramResponse{
		Frequency: presentation.Histogram(presentation.FrequencyHistogramTitle,
			engine.LabelTotals(rows, models.MetricFrequencyScaled)),
		Monetary: presentation.Histogram(presentation.MonetaryHistogramTitle,
			engine.LabelTotals(rows, models.MetricMonetaryScaled)),
	}
}

func top(rows []models.CustomerRecord, n int) (TopResponse, error) {
	rankings, err := engine.PerClusterTopN(rows, n)
	if err != nil {
		return TopResponse{}, err
	}
	return TopResponse{N: n, Rankings: rankings, Charts: presentation.PerClusterBars(rankings, n)}, nil
}
