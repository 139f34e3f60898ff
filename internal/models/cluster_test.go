// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

package models

import (
	"math"
	"testing"

	"github.com/goccy/go-json"
)

func TestClusterIDLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id     ClusterID
		want   Label
		wantOK bool
	}{
		{ClusterLowValue, LabelLowValue, true},
		{ClusterRegular, LabelRegular, true},
		{ClusterHighValue, LabelHighValue, true},
		{ClusterID(3), LabelMissing, false},
		{ClusterID(-7), LabelMissing, false},
		{ClusterUnknown, LabelMissing, false},
	}

	for _, tt := range tests {
		got, ok := tt.id.Label()
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ClusterID(%d).Label() = (%q, %v), want (%q, %v)", tt.id, got, ok, tt.want, tt.wantOK)
		}
		if tt.id.Known() != tt.wantOK {
			t.Errorf("ClusterID(%d).Known() = %v, want %v", tt.id, tt.id.Known(), tt.wantOK)
		}
	}
}

func TestLabelJSON(t *testing.T) {
	t.Parallel()

	t.Run("missing label encodes as null", func(t *testing.T) {
		data, err := json.Marshal(struct {
			L Label `json:"l"`
		}{LabelMissing})
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(data) != `{"l":null}` {
			t.Errorf("got %s", data)
		}
	})

	t.Run("known label round trips", func(t *testing.T) {
		data, err := json.Marshal(LabelRegular)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var got Label
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got != LabelRegular {
			t.Errorf("got %q, want %q", got, LabelRegular)
		}
	})
}

func TestIsSelectAll(t *testing.T) {
	t.Parallel()

	for _, v := range []string{"", "  ", "ALL", "all", "Semua", "semua"} {
		if !IsSelectAll(v) {
			t.Errorf("IsSelectAll(%q) = false, want true", v)
		}
	}
	for _, v := range []string{"Low Value Customer", "Semuanya", "A"} {
		if IsSelectAll(v) {
			t.Errorf("IsSelectAll(%q) = true, want false", v)
		}
	}
}

func TestMetricDirection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		metric    Metric
		direction Direction
		aggregate Aggregate
		order     SortOrder
	}{
		{MetricRecency, LowerIsBetter, AggregateMean, Ascending},
		{MetricRecencyScaled, LowerIsBetter, AggregateMean, Ascending},
		{MetricFrequency, HigherIsBetter, AggregateSum, Descending},
		{MetricMonetaryScaled, HigherIsBetter, AggregateSum, Descending},
	}

	for _, tt := range tests {
		t.Run(string(tt.metric), func(t *testing.T) {
			if got := tt.metric.Direction(); got != tt.direction {
				t.Errorf("Direction() = %v, want %v", got, tt.direction)
			}
			spec := DefaultRankSpec(tt.metric, 10)
			if spec.Aggregate != tt.aggregate || spec.Order != tt.order || spec.N != 10 {
				t.Errorf("DefaultRankSpec() = %+v", spec)
			}
		})
	}

	if _, err := ParseMetric("Cluster"); err == nil {
		t.Error("ParseMetric(\"Cluster\") should fail")
	}
}

func TestRankingJSONRoundTrip(t *testing.T) {
	t.Parallel()

	for _, d := range []Direction{LowerIsBetter, HigherIsBetter} {
		t.Run(d.String(), func(t *testing.T) {
			in := Ranking{
				Spec:      RankSpec{Metric: MetricRecency, Aggregate: AggregateMean, Order: Ascending, N: 2},
				Direction: d,
				Groups:    3,
				Entries:   []RankEntry{{Rank: 1, Company: "PT Alpha", Value: 4.5}},
			}
			b, err := json.Marshal(in)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			var out Ranking
			if err := json.Unmarshal(b, &out); err != nil {
				t.Fatalf("Unmarshal(%s): %v", b, err)
			}
			if out.Direction != d || out.Spec != in.Spec || out.Groups != 3 || len(out.Entries) != 1 || out.Entries[0] != in.Entries[0] {
				t.Errorf("round trip = %+v, want %+v", out, in)
			}
		})
	}
}

func TestDirectionUnmarshalRejectsUnknown(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{`"sideways"`, `""`, `"LOWER_IS_BETTER"`} {
		var d Direction
		if err := json.Unmarshal([]byte(raw), &d); err == nil {
			t.Errorf("Unmarshal(%s) = %v, want error", raw, d)
		}
	}
}

func TestOptionalFloatJSON(t *testing.T) {
	t.Parallel()

	for _, f := range []OptionalFloat{Undefined(), Defined(math.NaN()), Defined(math.Inf(1))} {
		data, err := json.Marshal(f)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(data) != "null" {
			t.Errorf("got %s, want null", data)
		}
	}

	data, err := json.Marshal(Defined(1.5))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "1.5" {
		t.Errorf("got %s, want 1.5", data)
	}
}

func TestCorrelationMatrixJSON(t *testing.T) {
	t.Parallel()

	m := CorrelationMatrix{
		Columns: []Metric{MetricRecencyScaled, MetricFrequencyScaled},
		Values:  [][]float64{{1, math.NaN()}, {math.NaN(), 1}},
		Rows:    4,
	}
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"columns":["Recency_Scaled","Frequency_Scaled"],"values":[[1,null],[null,1]],"rows":4}`
	if string(data) != want {
		t.Errorf("got %s\nwant %s", data, want)
	}
}
