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

// OverviewResponse is the headline block of the descriptive view.
type OverviewResponse struct {
	Description models.Description    `json:"description"`
	Headline    presentation.Headline `json:"headline"`
}

// DistributionResponse is the cluster pie.
type DistributionResponse struct {
	Distribution models.Distribution   `json:"distribution"`
	Chart        presentation.PieChart `json:"chart"`
}

// RankingsResponse holds the three descriptive top-N rankings and charts.
type RankingsResponse struct {
	Rankings engine.DescriptiveRankings `json:"rankings"`
	Charts   presentation.RankingBars   `json:"charts"`
}

// RFMTableResponse is the JSON form of the RFM table.
type RFMTableResponse struct {
	Rows  []models.RFMRecord `json:"rows"`
	Count int                `json:"count"`
}

// AssignmentRow is one row of the cluster assignment table.
type AssignmentRow struct {
	Company      string            `json:"perusahaan"`
	Cluster      *models.ClusterID `json:"Cluster"`
	ClusterLabel models.Label      `json:"Cluster_Label"`
}

// ClusterTableResponse is the JSON form of the cluster assignment table.
type ClusterTableResponse struct {
	Cluster string          `json:"cluster"`
	Rows    []AssignmentRow `json:"rows"`
	Count   int             `json:"count"`
}

// DescriptiveOverview handles GET /descriptive/overview.
func (h *Handler) DescriptiveOverview(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, "descriptive.overview", nil, func(snap *dataset.Snapshot) (interface{}, error) {
		d := engine.Describe(snap.Clustered)
		return OverviewResponse{Description: d, Headline: presentation.Headlines(d)}, nil
	})
}

// DescriptiveDistribution handles GET /descriptive/distribution.
func (h *Handler) DescriptiveDistribution(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, "descriptive.distribution", nil, func(snap *dataset.Snapshot) (interface{}, error) {
		d := engine.Distribution(snap.Clustered)
		return DistributionResponse{Distribution: d, Chart: presentation.Pie(d)}, nil
	})
}

// DescriptiveScaled handles GET /descriptive/scaled.
func (h *Handler) DescriptiveScaled(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, "descriptive.scaled", nil, func(snap *dataset.Snapshot) (interface{}, error) {
		return presentation.Violins(snap.Scaled), nil
	})
}

// DescriptiveRankings handles GET /descriptive/rankings?n=.
func (h *Handler) DescriptiveRankings(w http.ResponseWriter, r *http.Request) {
	req, apiErr := h.parseViewRequest(r)
	if apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	h.execute(w, r, "descriptive.rankings", req.N, func(snap *dataset.Snapshot) (interface{}, error) {
		rk, err := engine.Rankings(snap.RFM, snap.Clustered, req.N)
		if err != nil {
			return nil, err
		}
		return RankingsResponse{
			Rankings: rk,
			Charts:   presentation.DescriptiveBars(rk.Recency, rk.Frequency, rk.MonetaryScaled, req.N),
		}, nil
	})
}

// DescriptiveRFMTable handles GET /descriptive/rfm-table?format=.
func (h *Handler) DescriptiveRFMTable(w http.ResponseWriter, r *http.Request) {
	req, apiErr := h.parseViewRequest(r)
	if apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	h.executeTable(w, r, "descriptive.rfm-table", nil, req.OutputFormat(),
		func(snap *dataset.Snapshot) (interface{}, presentation.Table, error) {
			return RFMTableResponse{Rows: snap.RFM, Count: len(snap.RFM)}, presentation.RFMTable(snap.RFM), nil
		})
}

// DescriptiveClusterTable handles GET /descriptive/cluster-table?cluster=&format=.
// Rows are sorted stably by cluster id.
func (h *Handler) DescriptiveClusterTable(w http.ResponseWriter, r *http.Request) {
	req, apiErr := h.parseViewRequest(r)
	if apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	h.executeTable(w, r, "descriptive.cluster-table", req.Cluster, req.OutputFormat(),
		func(snap *dataset.Snapshot) (interface{}, presentation.Table, error) {
			rows := engine.ClusterTable(snap.Clustered, req.Cluster)
			return ClusterTableResponse{
				Cluster: req.Cluster,
				Rows:    assignmentRows(rows),
				Count:   len(rows),
			}, presentation.ClusterAssignmentTable(rows), nil
		})
}

func assignmentRows(rows []models.CustomerRecord) []AssignmentRow {
	out := make([]AssignmentRow, len(rows))
	for i, r := range rows {
		out[i] = AssignmentRow{Company: r.Company, ClusterLabel: r.ClusterLabel}
		if r.Cluster != models.ClusterUnknown {
			id := r.Cluster
			out[i].Cluster = &id
		}
	}
	return out
}
