package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"macro-wide/internal/config"
	"macro-wide/internal/domain"
	"macro-wide/internal/provider"
	"macro-wide/internal/service"

	"github.com/gin-gonic/gin"
)

type fredStub struct {
	series map[string][]provider.Observation
	err    error
}

func (s fredStub) FetchSeries(ctx context.Context, seriesID, apiKey string) ([]provider.Observation, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.series[seriesID], nil
}

func fredSeriesStub() fredStub {
	obs := func(values ...float64) []provider.Observation {
		out := make([]provider.Observation, 0, len(values))
		for i, v := range values {
			out = append(out, provider.Observation{Date: fmt.Sprintf("2026-01-%02d", i+1), Value: v})
		}
		return out
	}
	return fredStub{series: map[string][]provider.Observation{
		"WALCL":     obs(7000000, 7001000, 7002000),
		"WDTGAL":    obs(700000, 701000, 702000),
		"RRPONTSYD": obs(2.0, 2.1, 2.2),
		"SP500":     obs(5000, 5010, 5020),
	}}
}

func TestGetLiquiditySuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tracer := testTracer()
	h := New(
		tracer,
		nil, nil,
		service.NewLiquidityService(tracer, fredSeriesStub(), "test-key"),
		testConfig(),
	)

	r := gin.New()
	h.RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/liquidity", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Current     domain.LiquiditySnapshot       `json:"current"`
		History     []domain.LiquidityHistoryPoint `json:"history"`
		LastUpdated string                         `json:"last_updated"`
		Cached      bool                           `json:"cached"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(body.History) != 3 {
		t.Fatalf("unexpected history length: %d", len(body.History))
	}
	if body.Current.FedAssetsStr != "$7.00T" {
		t.Fatalf("unexpected fed assets string: %q", body.Current.FedAssetsStr)
	}
	if body.LastUpdated == "" || body.Cached {
		t.Fatalf("unexpected metadata: last_updated=%q cached=%v", body.LastUpdated, body.Cached)
	}
}

func TestGetLiquidityMissingKey(t *testing.T) {
	t.Setenv("FRED_API_KEY", "")
	gin.SetMode(gin.TestMode)
	tracer := testTracer()
	cfg := &config.Config{LiquidityTTL: testConfig().LiquidityTTL}
	h := New(tracer, nil, nil, service.NewLiquidityService(tracer, fredSeriesStub(), ""), cfg)

	r := gin.New()
	h.RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/liquidity", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if body["error"] != domain.ErrMissingFREDKey.Error() {
		t.Fatalf("unexpected error message: %q", body["error"])
	}
}

func TestGetLiquidityUpstreamFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tracer := testTracer()
	h := New(
		tracer,
		nil, nil,
		service.NewLiquidityService(tracer, fredStub{err: errors.New("fred down")}, "test-key"),
		testConfig(),
	)

	r := gin.New()
	h.RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/liquidity", nil))

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
}
