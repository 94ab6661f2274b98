package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"macro-wide/internal/config"
	"macro-wide/internal/domain"
	"macro-wide/internal/provider"
	"macro-wide/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

func testTracer() trace.Tracer {
	return trace.NewNoopTracerProvider().Tracer("handler-test")
}

func testConfig() *config.Config {
	return &config.Config{
		FREDAPIKey:   "test-key",
		IndicatorTTL: time.Minute,
		StockTTL:     time.Minute,
		LiquidityTTL: time.Minute,
	}
}

type batchQuotesStub struct {
	closes map[string]provider.ClosePair
	err    error
}

func (s batchQuotesStub) FetchDailyCloses(ctx context.Context, symbols []string) (map[string]provider.ClosePair, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.closes, nil
}

type policyRatesStub struct {
	rate *provider.PolicyRate
	err  error
}

func (s policyRatesStub) FetchEFFR(ctx context.Context) (*provider.PolicyRate, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.rate, nil
}

func basketStub() batchQuotesStub {
	closes := make(map[string]provider.ClosePair, len(domain.IndicatorBasket))
	for _, b := range domain.IndicatorBasket {
		closes[b.Symbol] = provider.ClosePair{Last: 105, Prev: 100}
	}
	return batchQuotesStub{closes: closes}
}

func TestGetIndicatorsSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tracer := testTracer()
	h := New(
		tracer,
		service.NewIndicatorService(tracer, basketStub(), policyRatesStub{rate: &provider.PolicyRate{Rate: 4.33, EffectiveDate: "2026-08-28"}}),
		nil, nil,
		testConfig(),
	)

	r := gin.New()
	h.RegisterRoutes(r)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/indicators", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Indicators  []domain.Indicator `json:"indicators"`
		LastUpdated string             `json:"last_updated"`
		Cached      bool               `json:"cached"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(body.Indicators) != len(domain.IndicatorBasket)+1 {
		t.Fatalf("unexpected indicator count: %d", len(body.Indicators))
	}
	if body.LastUpdated == "" || body.Cached {
		t.Fatalf("unexpected metadata: %+v", body)
	}
	if body.Indicators[len(body.Indicators)-1].Name != domain.PolicyRateName {
		t.Fatalf("expected the policy rate entry last, got %+v", body.Indicators[len(body.Indicators)-1])
	}

	// second request is served from cache
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/indicators", nil))
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if !body.Cached {
		t.Fatal("expected cached response")
	}
}

func TestGetIndicatorsUpstreamFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tracer := testTracer()
	h := New(
		tracer,
		service.NewIndicatorService(tracer, batchQuotesStub{err: errors.New("yahoo down")}, policyRatesStub{rate: &provider.PolicyRate{Rate: 4.33}}),
		nil, nil,
		testConfig(),
	)

	r := gin.New()
	h.RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/indicators", nil))

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if body["error"] != "market data is temporarily unavailable, try again later" {
		t.Fatalf("unexpected error message: %q", body["error"])
	}
}
