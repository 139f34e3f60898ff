// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	gorillaws "github.com/gorilla/websocket"

	"github.com/tomtom215/rfmboard/internal/cache"
	"github.com/tomtom215/rfmboard/internal/config"
	"github.com/tomtom215/rfmboard/internal/database"
	"github.com/tomtom215/rfmboard/internal/dataset"
	"github.com/tomtom215/rfmboard/internal/logging"
	"github.com/tomtom215/rfmboard/internal/models"
	ws "github.com/tomtom215/rfmboard/internal/websocket"
)

//nolint:gochecknoinits // quiet logs for every test in the package
func init() {
	logging.Init(logging.Config{Level: "error", Output: io.Discard})
}

// fakeSource serves fixed tables, or err for every read once set.
type fakeSource struct {
	mu  sync.Mutex
	err error
}

func (f *fakeSource) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeSource) loadErr() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *fakeSource) ReadRFM(context.Context, string) (database.RFMTable, error) {
	if err := f.loadErr(); err != nil {
		return database.RFMTable{}, err
	}
	return database.RFMTable{Rows: []models.RFMRecord{
		{Company: "PT Alpha", Recency: 10, Frequency: 2, Monetary: 100},
		{Company: "PT Beta", Recency: 1, Frequency: 20, Monetary: 1000},
		{Company: "CV Gamma", Recency: 30, Frequency: 1, Monetary: 50},
		{Company: "PT Delta", Recency: 5, Frequency: 8, Monetary: 400},
		{Company: "PT Epsilon", Recency: 7, Frequency: 3, Monetary: 90},
	}}, nil
}

func (f *fakeSource) ReadScaled(context.Context, string) ([]models.ScaledRecord, error) {
	if err := f.loadErr(); err != nil {
		return nil, err
	}
	return []models.ScaledRecord{
		{RecencyScaled: 0.3, FrequencyScaled: 0.05, MonetaryScaled: 0.05},
		{RecencyScaled: 0, FrequencyScaled: 1, MonetaryScaled: 1},
		{RecencyScaled: 1, FrequencyScaled: 0, MonetaryScaled: 0},
		{RecencyScaled: 0.14, FrequencyScaled: 0.37, MonetaryScaled: 0.37},
		{RecencyScaled: 0.2, FrequencyScaled: 0.1, MonetaryScaled: 0.04},
	}, nil
}

func (f *fakeSource) ReadClustered(context.Context, string) (database.ClusteredTable, error) {
	if err := f.loadErr(); err != nil {
		return database.ClusteredTable{}, err
	}
	return database.ClusteredTable{Rows: []models.CustomerRecord{
		{Company: "PT Alpha", Recency: 10, Frequency: 2, Monetary: 100, RecencyScaled: 0.3, FrequencyScaled: 0.05, MonetaryScaled: 0.05, Cluster: models.ClusterLowValue},
		{Company: "PT Beta", Recency: 1, Frequency: 20, Monetary: 1000, RecencyScaled: 0, FrequencyScaled: 1, MonetaryScaled: 1, Cluster: models.ClusterHighValue},
		{Company: "CV Gamma", Recency: 30, Frequency: 1, Monetary: 50, RecencyScaled: 1, FrequencyScaled: 0, MonetaryScaled: 0, Cluster: models.ClusterLowValue},
		{Company: "PT Delta", Recency: 5, Frequency: 8, Monetary: 400, RecencyScaled: 0.14, FrequencyScaled: 0.37, MonetaryScaled: 0.37, Cluster: models.ClusterRegular},
		{Company: "PT Epsilon", Recency: 7, Frequency: 3, Monetary: 90, RecencyScaled: 0.2, FrequencyScaled: 0.1, MonetaryScaled: 0.04, Cluster: models.ClusterID(7)},
	}}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Data: config.DataConfig{
			Dir:           "/data",
			RFMFile:       "rfm_tanpa_outlier.csv",
			ScaledFile:    "rfm_minmax_scaled.csv",
			ClusteredFile: "rfm_clustered.csv",
		},
		Server: config.ServerConfig{Port: 8501, Timeout: 5 * time.Second},
		API:    config.APIConfig{DefaultTopN: 10, MaxTopN: 100},
		Cache:  config.CacheConfig{Enabled: true, TTL: time.Minute, MaxEntries: 100},
		Security: config.SecurityConfig{
			RateLimitReqs:     1000,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: true,
		},
	}
}

type testEnv struct {
	cfg     *config.Config
	source  *fakeSource
	manager *dataset.Manager
	cache   *cache.Cache
	handler *Handler
	router  http.Handler
}

// newTestEnv builds the full router. load controls whether the initial
// reload runs; without it the dataset stays in its not-loaded state.
func newTestEnv(t *testing.T, load bool, hub *ws.Hub) *testEnv {
	t.Helper()
	cfg := testConfig()
	src := &fakeSource{}
	manager := dataset.NewManager(dataset.NewLoader(src, cfg.Data), cfg.Data)
	resultCache := cache.New("results", cfg.Cache.TTL, cfg.Cache.MaxEntries)
	t.Cleanup(resultCache.Close)

	handler := NewHandler(manager, cfg, resultCache, hub, "test")
	manager.OnReload(handler.OnDatasetReload)
	if load {
		if _, err := manager.Reload(context.Background()); err != nil {
			t.Fatalf("initial reload: %v", err)
		}
	}

	router := NewRouter(handler, NewChiMiddlewareFromSecurity(cfg.Security)).SetupChi()
	return &testEnv{cfg: cfg, source: src, manager: manager, cache: resultCache, handler: handler, router: router}
}

func (e *testEnv) do(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// envelope mirrors models.APIResponse with raw data for per-test decoding.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) envelope {
	t.Helper()
	env := decode(t, rec)
	if env.Status != "success" {
		t.Fatalf("status = %q, error = %+v", env.Status, env.Error)
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
	return env
}

func TestHealthBeforeLoad(t *testing.T) {
	env := newTestEnv(t, false, nil)

	rec := env.do(t, http.MethodGet, "/api/v1/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("health code = %d", rec.Code)
	}
	var health models.HealthStatus
	decodeData(t, rec, &health)
	if health.Status != "degraded" || health.DataLoaded {
		t.Errorf("health = %+v, want degraded", health)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/health/ready")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready code = %d, want 503", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/health/live")
	if rec.Code != http.StatusOK {
		t.Errorf("live code = %d, want 200", rec.Code)
	}
}

func TestDataEndpointsUnavailableWhileDegraded(t *testing.T) {
	env := newTestEnv(t, false, nil)

	paths := []string{
		"/api/v1/clusters",
		"/api/v1/descriptive/overview",
		"/api/v1/descriptive/rfm-table?format=csv",
		"/api/v1/clustering/view",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, path)
			if rec.Code != http.StatusServiceUnavailable {
				t.Fatalf("code = %d, want 503", rec.Code)
			}
			e := decode(t, rec)
			if e.Error == nil || e.Error.Code != ErrCodeDataUnavailable {
				t.Fatalf("error = %+v", e.Error)
			}
			if e.Error.Message != "Data belum dimuat." {
				t.Errorf("message = %q", e.Error.Message)
			}
		})
	}
}

func TestClusters(t *testing.T) {
	env := newTestEnv(t, true, nil)

	var opts models.ClusterOptions
	decodeData(t, env.do(t, http.MethodGet, "/api/v1/clusters"), &opts)

	want := []string{"Semua", "Low Value Customer", "High Value Customer", "Regular Customer"}
	if strings.Join(opts.Options, "|") != strings.Join(want, "|") {
		t.Errorf("options = %v, want %v", opts.Options, want)
	}
	if opts.Colors["Regular Customer"] == "" {
		t.Error("missing color for Regular Customer")
	}
}

func TestClusteringSummaryFilters(t *testing.T) {
	env := newTestEnv(t, true, nil)

	tests := []struct {
		name       string
		query      string
		wantLabels []string
		wantTotal  int
		wantNoData bool
	}{
		{"all rows", "", []string{"High Value Customer", "Low Value Customer", "Regular Customer", ""}, 5, false},
		{"localized all", "?cluster=Semua", []string{"High Value Customer", "Low Value Customer", "Regular Customer", ""}, 5, false},
		{"one cluster", "?cluster=Low+Value+Customer", []string{"Low Value Customer"}, 2, false},
		{"search ignores case", "?search=BETA", []string{"High Value Customer"}, 1, false},
		{"cluster and search", "?cluster=Low+Value+Customer&search=gamma", []string{"Low Value Customer"}, 1, false},
		{"no match", "?search=zzz", nil, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s struct {
				Rows []struct {
					Label      *string `json:"Cluster_Label"`
					Members    int     `json:"Jumlah Anggota"`
					Percentage float64 `json:"Persentase (%)"`
				} `json:"rows"`
				Total  int  `json:"total"`
				NoData bool `json:"no_data"`
			}
			decodeData(t, env.do(t, http.MethodGet, "/api/v1/clustering/summary"+tt.query), &s)

			if s.Total != tt.wantTotal || s.NoData != tt.wantNoData {
				t.Errorf("total = %d no_data = %v, want %d %v", s.Total, s.NoData, tt.wantTotal, tt.wantNoData)
			}
			if len(s.Rows) != len(tt.wantLabels) {
				t.Fatalf("rows = %d, want %d", len(s.Rows), len(tt.wantLabels))
			}
			sum := 0.0
			for i, row := range s.Rows {
				label := ""
				if row.Label != nil {
					label = *row.Label
				}
				if label != tt.wantLabels[i] {
					t.Errorf("row %d label = %q, want %q", i, label, tt.wantLabels[i])
				}
				sum += row.Percentage
			}
			if len(s.Rows) > 0 && (sum < 99.999 || sum > 100.001) {
				t.Errorf("percentages sum to %v", sum)
			}
		})
	}
}

func TestValidationErrors(t *testing.T) {
	env := newTestEnv(t, true, nil)

	tests := []struct {
		name    string
		path    string
		message string
	}{
		{"unknown cluster", "/api/v1/clustering/summary?cluster=Gold", "cluster"},
		{"n not an integer", "/api/v1/clustering/top?n=abc", "n must be an integer"},
		{"n below one", "/api/v1/descriptive/rankings?n=0", "n must be at least 1"},
		{"n above maximum", "/api/v1/clustering/top?n=101", "n must be at most 100"},
		{"bad format", "/api/v1/clustering/summary?format=xlsx", "format"},
		{"missing metric", "/api/v1/clustering/rankings", "metric"},
		{"unknown metric", "/api/v1/clustering/rankings?metric=Cluster", "metric"},
		{"bad order", "/api/v1/clustering/rankings?metric=Recency&order=up", "order"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, tt.path)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("code = %d, want 400: %s", rec.Code, rec.Body.String())
			}
			e := decode(t, rec)
			if e.Error == nil || e.Error.Code != ErrCodeValidation {
				t.Fatalf("error = %+v", e.Error)
			}
			if !strings.Contains(e.Error.Message, tt.message) {
				t.Errorf("message = %q, want it to contain %q", e.Error.Message, tt.message)
			}
		})
	}
}

func TestDescriptiveEndpoints(t *testing.T) {
	env := newTestEnv(t, true, nil)

	t.Run("overview", func(t *testing.T) {
		var o struct {
			Description models.Description `json:"description"`
		}
		decodeData(t, env.do(t, http.MethodGet, "/api/v1/descriptive/overview"), &o)
		if o.Description.Count != 5 {
			t.Errorf("count = %d, want 5", o.Description.Count)
		}
		if !o.Description.MeanRecency.Valid || o.Description.MeanRecency.Value != 10.6 {
			t.Errorf("mean recency = %+v, want 10.6", o.Description.MeanRecency)
		}
	})

	t.Run("distribution", func(t *testing.T) {
		var d struct {
			Distribution models.Distribution `json:"distribution"`
		}
		decodeData(t, env.do(t, http.MethodGet, "/api/v1/descriptive/distribution"), &d)
		if d.Distribution.Unmapped != 1 || len(d.Distribution.Slices) != 3 {
			t.Fatalf("distribution = %+v", d.Distribution)
		}
		if d.Distribution.Slices[0].Label != models.LabelHighValue {
			t.Errorf("first slice = %q, want High Value Customer", d.Distribution.Slices[0].Label)
		}
	})

	t.Run("rankings", func(t *testing.T) {
		var rk struct {
			Rankings struct {
				Recency   models.Ranking `json:"recency"`
				Frequency models.Ranking `json:"frequency"`
			} `json:"rankings"`
		}
		decodeData(t, env.do(t, http.MethodGet, "/api/v1/descriptive/rankings?n=2"), &rk)
		if got := rk.Rankings.Recency.Entries; len(got) != 2 || got[0].Company != "PT Beta" || got[1].Company != "PT Delta" {
			t.Errorf("recency entries = %+v", got)
		}
		if got := rk.Rankings.Frequency.Entries; len(got) != 2 || got[0].Company != "PT Beta" {
			t.Errorf("frequency entries = %+v", got)
		}
		if rk.Rankings.Recency.Direction != models.LowerIsBetter || rk.Rankings.Frequency.Direction != models.HigherIsBetter {
			t.Errorf("directions = %v, %v", rk.Rankings.Recency.Direction, rk.Rankings.Frequency.Direction)
		}
	})

	t.Run("cluster table", func(t *testing.T) {
		var ct struct {
			Rows []struct {
				Company string `json:"perusahaan"`
				Cluster *int   `json:"Cluster"`
			} `json:"rows"`
			Count int `json:"count"`
		}
		decodeData(t, env.do(t, http.MethodGet, "/api/v1/descriptive/cluster-table"), &ct)
		if ct.Count != 5 {
			t.Fatalf("count = %d, want 5", ct.Count)
		}
		order := make([]string, len(ct.Rows))
		for i, r := range ct.Rows {
			order[i] = r.Company
		}
		want := "PT Alpha|CV Gamma|PT Delta|PT Beta|PT Epsilon"
		if strings.Join(order, "|") != want {
			t.Errorf("order = %v, want %s", order, want)
		}
	})
}

func TestTableFormats(t *testing.T) {
	env := newTestEnv(t, true, nil)

	tests := []struct {
		path        string
		contentType string
		contains    string
	}{
		{"/api/v1/clustering/summary?format=csv", "text/csv; charset=utf-8", "Cluster_Label,Recency_Scaled,Frequency_Scaled,Monetary_Scaled,Jumlah Anggota,Persentase (%)"},
		{"/api/v1/clustering/summary?format=html", "text/html; charset=utf-8", `class="custom-table"`},
		{"/api/v1/descriptive/rfm-table?format=md", "text/markdown; charset=utf-8", "| perusahaan |"},
		{"/api/v1/clustering/correlation?format=csv", "text/csv; charset=utf-8", "Recency_Scaled"},
		{"/api/v1/clustering/rankings?metric=Monetary&format=csv", "text/csv; charset=utf-8", "1,PT Beta,1000"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, tt.path)
			if rec.Code != http.StatusOK {
				t.Fatalf("code = %d: %s", rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != tt.contentType {
				t.Errorf("content type = %q, want %q", ct, tt.contentType)
			}
			if !strings.Contains(rec.Body.String(), tt.contains) {
				t.Errorf("body does not contain %q:\n%s", tt.contains, rec.Body.String())
			}
		})
	}
}

func TestTableETag(t *testing.T) {
	env := newTestEnv(t, true, nil)

	rec := env.do(t, http.MethodGet, "/api/v1/clustering/summary?format=csv")
	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clustering/summary?format=csv", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotModified {
		t.Errorf("code = %d, want 304", rec.Code)
	}
}

func TestClusteringRankings(t *testing.T) {
	env := newTestEnv(t, true, nil)

	var resp struct {
		Ranking models.Ranking `json:"ranking"`
		Filter  FilterEcho     `json:"filter"`
	}
	decodeData(t, env.do(t, http.MethodGet,
		"/api/v1/clustering/rankings?metric=Monetary&order=asc&n=2&cluster=Low+Value+Customer"), &resp)

	if resp.Filter.Count != 2 {
		t.Errorf("filtered count = %d, want 2", resp.Filter.Count)
	}
	if resp.Ranking.Spec.Aggregate != models.AggregateSum || resp.Ranking.Spec.Order != models.Ascending {
		t.Errorf("spec = %+v", resp.Ranking.Spec)
	}
	if resp.Ranking.Direction != models.HigherIsBetter {
		t.Errorf("direction = %v, want higher_is_better", resp.Ranking.Direction)
	}
	entries := resp.Ranking.Entries
	if len(entries) != 2 || entries[0].Company != "CV Gamma" || entries[0].Value != 50 {
		t.Errorf("entries = %+v", entries)
	}
}

func TestClusteringViewConsistent(t *testing.T) {
	env := newTestEnv(t, true, nil)

	var v struct {
		Filter  FilterEcho `json:"filter"`
		Scatter struct {
			Points []json.RawMessage `json:"points"`
		} `json:"scatter"`
		Summary struct {
			Total int `json:"total"`
		} `json:"summary"`
		Correlation struct {
			Matrix struct {
				Rows int `json:"rows"`
			} `json:"matrix"`
		} `json:"correlation"`
		Top struct {
			Rankings []json.RawMessage `json:"rankings"`
		} `json:"top"`
	}
	decodeData(t, env.do(t, http.MethodGet, "/api/v1/clustering/view?search=pt&n=3"), &v)

	if v.Filter.Count != 4 || len(v.Scatter.Points) != 4 || v.Summary.Total != 4 || v.Correlation.Matrix.Rows != 4 {
		t.Errorf("inconsistent view: filter=%d scatter=%d summary=%d corr=%d",
			v.Filter.Count, len(v.Scatter.Points), v.Summary.Total, v.Correlation.Matrix.Rows)
	}
	// Epsilon has no label, so only three clusters are ranked.
	if len(v.Top.Rankings) != 3 {
		t.Errorf("top rankings = %d, want 3", len(v.Top.Rankings))
	}
}

func TestCacheHitAndReloadInvalidation(t *testing.T) {
	env := newTestEnv(t, true, nil)

	first := env.do(t, http.MethodGet, "/api/v1/clustering/summary")
	if first.Header().Get("X-Cache") != "MISS" {
		t.Errorf("first request X-Cache = %q, want MISS", first.Header().Get("X-Cache"))
	}
	second := env.do(t, http.MethodGet, "/api/v1/clustering/summary")
	if second.Header().Get("X-Cache") != "HIT" {
		t.Errorf("second request X-Cache = %q, want HIT", second.Header().Get("X-Cache"))
	}
	if !decode(t, second).Metadata.Cached {
		t.Error("metadata.cached should be true on a hit")
	}

	rec := env.do(t, http.MethodPost, "/api/v1/dataset/reload")
	if rec.Code != http.StatusOK {
		t.Fatalf("reload code = %d: %s", rec.Code, rec.Body.String())
	}
	if env.cache.Len() != 0 {
		t.Errorf("cache len after reload = %d, want 0", env.cache.Len())
	}

	third := env.do(t, http.MethodGet, "/api/v1/clustering/summary")
	if third.Header().Get("X-Cache") != "MISS" {
		t.Errorf("after reload X-Cache = %q, want MISS", third.Header().Get("X-Cache"))
	}
	if g := decode(t, third).Metadata.Generation; g != 2 {
		t.Errorf("generation = %d, want 2", g)
	}
}

func TestReloadFailure(t *testing.T) {
	env := newTestEnv(t, true, nil)
	env.source.fail(&database.MissingSourceError{
		Table: database.TableRFM,
		Path:  "/data/rfm_tanpa_outlier.csv",
		Err:   errors.New("no such file"),
	})

	rec := env.do(t, http.MethodPost, "/api/v1/dataset/reload")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d, want 500", rec.Code)
	}
	e := decode(t, rec)
	want := "Pastikan file CSV (rfm_tanpa_outlier.csv, rfm_minmax_scaled.csv, rfm_clustered.csv) berada di lokasi yang benar."
	if e.Error == nil || e.Error.Code != ErrCodeReloadFailed || e.Error.Message != want {
		t.Fatalf("error = %+v", e.Error)
	}

	var status models.DatasetStatus
	decodeData(t, env.do(t, http.MethodGet, "/api/v1/dataset"), &status)
	if !status.Degraded || status.Warning != want || status.Rows["rfm"] != 0 {
		t.Errorf("status = %+v", status)
	}

	if rec := env.do(t, http.MethodGet, "/api/v1/clustering/summary"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("summary code = %d, want 503", rec.Code)
	}
}

func TestMethodAndRouteErrors(t *testing.T) {
	env := newTestEnv(t, true, nil)

	tests := []struct {
		method  string
		path    string
		code    int
		errCode string
	}{
		{http.MethodGet, "/api/v1/dataset/reload", http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed},
		{http.MethodPost, "/api/v1/clusters", http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed},
		{http.MethodGet, "/api/v1/nope", http.StatusNotFound, ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := env.do(t, tt.method, tt.path)
			if rec.Code != tt.code {
				t.Fatalf("code = %d, want %d", rec.Code, tt.code)
			}
			if e := decode(t, rec); e.Error == nil || e.Error.Code != tt.errCode {
				t.Errorf("error = %+v, want %s", e.Error, tt.errCode)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, true, nil)
	env.do(t, http.MethodGet, "/api/v1/clusters")

	rec := env.do(t, http.MethodGet, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "api_requests_total") {
		t.Error("metrics output has no api_requests_total series")
	}
}

func startHub(t *testing.T) *ws.Hub {
	t.Helper()
	hub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hub.RunWithContext(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return hub
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/ws"
}

func TestWebSocketReceivesReload(t *testing.T) {
	hub := startHub(t)
	env := newTestEnv(t, true, hub)
	server := httptest.NewServer(env.router)
	defer server.Close()

	header := http.Header{"Origin": []string{server.URL}}
	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL(server), header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.GetClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if hub.GetClientCount() != 1 {
		t.Fatalf("client count = %d, want 1", hub.GetClientCount())
	}

	resp, err := http.Post(server.URL+"/api/v1/dataset/reload", "application/json", nil)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	resp.Body.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Type string              `json:"type"`
		Data ws.DatasetEventData `json:"data"`
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	if msg.Type != ws.MessageTypeDatasetReloaded || msg.Data.Generation != 2 {
		t.Errorf("message = %+v", msg)
	}
}

func TestWebSocketOrigin(t *testing.T) {
	hub := startHub(t)
	env := newTestEnv(t, true, hub)
	server := httptest.NewServer(env.router)
	defer server.Close()

	tests := []struct {
		name   string
		origin string
	}{
		{"no origin", ""},
		{"foreign origin", "https://evil.example"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.origin != "" {
				header.Set("Origin", tt.origin)
			}
			conn, resp, err := gorillaws.DefaultDialer.Dial(wsURL(server), header)
			if err == nil {
				conn.Close()
				t.Fatal("dial should fail")
			}
			if resp == nil || resp.StatusCode != http.StatusForbidden {
				t.Errorf("response = %v, want 403", resp)
			}
		})
	}
}
