package provider

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func newTestNYFedProvider(rt roundTripFunc) *NYFedProvider {
	p := NewNYFedProvider(trace.NewNoopTracerProvider().Tracer("test"))
	p.baseURL = "http://example"
	p.client = &http.Client{Transport: rt}
	return p
}

func TestFetchEFFR(t *testing.T) {
	t.Parallel()

	p := newTestNYFedProvider(func(req *http.Request) (*http.Response, error) {
		if !strings.Contains(req.URL.Path, "/api/rates/unsecured/effr/last/1.json") {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		return jsonResponse(`{"refRates":[{"effectiveDate":"2026-08-28","percentRate":4.33}]}`), nil
	})

	rate, err := p.FetchEFFR(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate.Rate != 4.33 || rate.EffectiveDate != "2026-08-28" {
		t.Fatalf("unexpected rate: %+v", rate)
	}
}

func TestFetchEFFRNoRows(t *testing.T) {
	t.Parallel()

	p := newTestNYFedProvider(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(`{"refRates":[]}`), nil
	})

	if _, err := p.FetchEFFR(context.Background()); err == nil {
		t.Fatal("expected error for empty refRates")
	}
}

func TestFetchEFFRTransportError(t *testing.T) {
	t.Parallel()

	p := newTestNYFedProvider(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusBadGateway,
			Body:       io.NopCloser(strings.NewReader("upstream down")),
			Header:     make(http.Header),
		}, nil
	})

	if _, err := p.FetchEFFR(context.Background()); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}
