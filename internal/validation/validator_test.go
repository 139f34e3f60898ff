// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() should not return nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

type viewParams struct {
	Cluster string `query:"cluster" validate:"omitempty,max=100,cluster_selector"`
	Search  string `query:"search" validate:"max=200"`
	N       int    `query:"n" validate:"min=1,max=100"`
	Format  string `query:"format" validate:"omitempty,oneof=json html csv markdown md"`
	Metric  string `query:"metric" validate:"omitempty,rfm_metric"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		input     viewParams
		wantField string
		wantTag   string
	}{
		{name: "defaults", input: viewParams{N: 10}},
		{name: "select all", input: viewParams{Cluster: "ALL", N: 10}},
		{name: "select all local", input: viewParams{Cluster: "Semua", N: 10}},
		{name: "known label", input: viewParams{Cluster: "High Value Customer", N: 1}},
		{name: "metric", input: viewParams{N: 5, Metric: "Monetary_Scaled"}},
		{name: "markdown", input: viewParams{N: 5, Format: "md"}},
		{name: "unknown label", input: viewParams{Cluster: "VIP", N: 10}, wantField: "cluster", wantTag: "cluster_selector"},
		{name: "n too small", input: viewParams{N: 0}, wantField: "n", wantTag: "min"},
		{name: "n too large", input: viewParams{N: 101}, wantField: "n", wantTag: "max"},
		{name: "search too long", input: viewParams{N: 1, Search: strings.Repeat("x", 201)}, wantField: "search", wantTag: "max"},
		{name: "bad format", input: viewParams{N: 1, Format: "xlsx"}, wantField: "format", wantTag: "oneof"},
		{name: "bad metric", input: viewParams{N: 1, Metric: "Cluster"}, wantField: "metric", wantTag: "rfm_metric"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected a validation error")
			}
			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors: %v", len(errs), err)
			}
			if errs[0].Field() != tt.wantField || errs[0].Tag() != tt.wantTag {
				t.Errorf("got %s/%s, want %s/%s", errs[0].Field(), errs[0].Tag(), tt.wantField, tt.wantTag)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	t.Run("single error", func(t *testing.T) {
		err := ValidateStruct(&viewParams{N: 0})
		if err == nil {
			t.Fatal("expected error")
		}
		apiErr := err.ToAPIError()
		if apiErr.Code != "VALIDATION_ERROR" {
			t.Errorf("Code = %s", apiErr.Code)
		}
		if apiErr.Message != "n must be at least 1" {
			t.Errorf("Message = %q", apiErr.Message)
		}
		if apiErr.Details["field"] != "n" {
			t.Errorf("Details = %v", apiErr.Details)
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		err := ValidateStruct(&viewParams{N: 0, Cluster: "VIP"})
		if err == nil {
			t.Fatal("expected error")
		}
		apiErr := err.ToAPIError()
		if !strings.Contains(apiErr.Message, "cluster: cluster must be ALL, Semua or a cluster label") {
			t.Errorf("Message = %q", apiErr.Message)
		}
		fields, ok := apiErr.Details["fields"].([]map[string]interface{})
		if !ok || len(fields) != 2 {
			t.Errorf("Details = %v", apiErr.Details)
		}
	})

	t.Run("empty", func(t *testing.T) {
		ve := &RequestValidationError{}
		if ve.Error() != "validation failed" {
			t.Errorf("Error() = %q", ve.Error())
		}
		if ve.ToAPIError().Message != "Validation failed" {
			t.Error("unexpected message")
		}
	})
}
