// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/tomtom215/rfmboard/internal/engine"
	"github.com/tomtom215/rfmboard/internal/models"
	"github.com/tomtom215/rfmboard/internal/presentation"
)

// ViewRequest holds the filter parameters shared by the dashboard endpoints.
type ViewRequest struct {
	Cluster string `query:"cluster" json:"cluster" validate:"cluster_selector"`
	Search  string `query:"search" json:"search" validate:"max=200"`
	N       int    `query:"n" json:"n" validate:"min=1"`
	Format  string `query:"format" json:"format" validate:"omitempty,oneof=json html csv markdown md"`
}

// Filter returns the engine filter of the request.
func (v ViewRequest) Filter() engine.Filter {
	return engine.Filter{Cluster: v.Cluster, Search: v.Search}
}

// OutputFormat resolves the format parameter. Validation has already
// rejected unknown names.
func (v ViewRequest) OutputFormat() presentation.Format {
	f, err := presentation.ParseFormat(v.Format)
	if err != nil {
		return presentation.FormatJSON
	}
	return f
}

// RankingRequest is a ViewRequest plus a fully specified ranking.
type RankingRequest struct {
	ViewRequest
	Metric    string `query:"metric" json:"metric" validate:"required,rfm_metric"`
	Aggregate string `query:"aggregate" json:"aggregate" validate:"omitempty,oneof=sum mean"`
	Order     string `query:"order" json:"order" validate:"omitempty,oneof=asc desc"`
}

// Spec returns the ranking spec. Omitted aggregate and order default to the
// metric's best-first ranking.
func (rr RankingRequest) Spec() models.RankSpec {
	spec := models.DefaultRankSpec(models.Metric(rr.Metric), rr.N)
	if rr.Aggregate != "" {
		spec.Aggregate = models.Aggregate(rr.Aggregate)
	}
	if rr.Order != "" {
		spec.Order = models.SortOrder(rr.Order)
	}
	return spec
}

// parseViewRequest reads and validates the shared parameters. n defaults to
// the configured top-N and may not exceed the configured maximum.
func (h *Handler) parseViewRequest(r *http.Request) (ViewRequest, *models.APIError) {
	q := r.URL.Query()
	req := ViewRequest{
		Cluster: q.Get("cluster"),
		Search:  q.Get("search"),
		N:       h.config.API.DefaultTopN,
		Format:  strings.ToLower(strings.TrimSpace(q.Get("format"))),
	}

	if raw := strings.TrimSpace(q.Get("n")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return req, fieldError("n", "integer", raw, "n must be an integer")
		}
		req.N = n
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		return req, apiErr
	}
	if maxN := h.config.API.MaxTopN; req.N > maxN {
		return req, fieldError("n", "max", req.N, fmt.Sprintf("n must be at most %d", maxN))
	}
	return req, nil
}

func (h *Handler) parseRankingRequest(r *http.Request) (RankingRequest, *models.APIError) {
	view, apiErr := h.parseViewRequest(r)
	if apiErr != nil {
		return RankingRequest{}, apiErr
	}
	q := r.URL.Query()
	req := RankingRequest{
		ViewRequest: view,
		Metric:      strings.TrimSpace(q.Get("metric")),
		Aggregate:   strings.ToLower(strings.TrimSpace(q.Get("aggregate"))),
		Order:       strings.ToLower(strings.TrimSpace(q.Get("order"))),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		return req, apiErr
	}
	return req, nil
}

func fieldError(field, tag string, value interface{}, message string) *models.APIError {
	return &models.APIError{
		Code:    ErrCodeValidation,
		Message: message,
		Details: map[string]interface{}{
			"field": field,
			"tag":   tag,
			"value": value,
		},
	}
}
