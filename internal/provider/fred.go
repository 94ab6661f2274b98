package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	fredBaseURL = "https://api.stlouisfed.org"

	// All liquidity series are pulled from this date forward.
	fredObservationStart = "2000-01-01"
)

// Observation is one dated value of a FRED series.
type Observation struct {
	Date  string
	Value float64
}

// FREDProvider fetches time series observations from the St. Louis Fed
// FRED API. Every call requires an API key.
type FREDProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
}

func NewFREDProvider(tracer trace.Tracer) *FREDProvider {
	return &FREDProvider{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: fredBaseURL,
		tracer:  tracer,
	}
}

// FetchSeries returns the observations of one series in ascending date
// order. FRED marks missing values with "."; those rows are dropped here so
// callers only see usable numbers.
func (p *FREDProvider) FetchSeries(ctx context.Context, seriesID, apiKey string) ([]Observation, error) {
	_, span := p.tracer.Start(ctx, "fred.fetch-series")
	defer span.End()
	span.SetAttributes(attribute.String("series_id", seriesID))

	q := url.Values{}
	q.Set("series_id", seriesID)
	q.Set("api_key", apiKey)
	q.Set("file_type", "json")
	q.Set("observation_start", fredObservationStart)
	q.Set("sort_order", "asc")
	reqURL := p.baseURL + "/fred/series/observations?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("FRED API error %d for %s: %s", resp.StatusCode, seriesID, string(body))
	}

	var raw struct {
		Observations []struct {
			Date  string `json:"date"`
			Value string `json:"value"`
		} `json:"observations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode FRED series %s: %w", seriesID, err)
	}

	out := make([]Observation, 0, len(raw.Observations))
	for _, obs := range raw.Observations {
		if obs.Value == "" || obs.Value == "." {
			continue
		}
		v, err := strconv.ParseFloat(obs.Value, 64)
		if err != nil {
			continue
		}
		out = append(out, Observation{Date: obs.Date, Value: v})
	}
	return out, nil
}
