package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"
)

const nyFedBaseURL = "https://markets.newyorkfed.org"

// PolicyRate is the latest effective federal funds rate.
type PolicyRate struct {
	Rate          float64
	EffectiveDate string
}

// NYFedProvider fetches the effective federal funds rate (EFFR) from the
// NY Fed markets API.
type NYFedProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
}

func NewNYFedProvider(tracer trace.Tracer) *NYFedProvider {
	return &NYFedProvider{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: nyFedBaseURL,
		tracer:  tracer,
	}
}

// FetchEFFR returns the most recent EFFR and its effective date.
func (p *NYFedProvider) FetchEFFR(ctx context.Context) (*PolicyRate, error) {
	_, span := p.tracer.Start(ctx, "nyfed.fetch-effr")
	defer span.End()

	reqURL := p.baseURL + "/api/rates/unsecured/effr/last/1.json"
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
		return nil, fmt.Errorf("nyfed API error %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		RefRates []struct {
			EffectiveDate string  `json:"effectiveDate"`
			PercentRate   float64 `json:"percentRate"`
		} `json:"refRates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode EFFR response: %w", err)
	}
	if len(payload.RefRates) == 0 {
		return nil, fmt.Errorf("EFFR response has no rows")
	}

	row := payload.RefRates[0]
	return &PolicyRate{
		Rate:          row.PercentRate,
		EffectiveDate: row.EffectiveDate,
	}, nil
}
