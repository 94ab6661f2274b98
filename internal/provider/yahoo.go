package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// ClosePair holds the two most recent daily closes observed for a symbol.
type ClosePair struct {
	Last float64
	Prev float64
}

// QuoteFields is the raw field set returned by either quote endpoint,
// flattened to one level. quoteSummary {raw, fmt} wrappers are reduced to
// their raw value so both shapes probe the same way.
type QuoteFields map[string]any

// YahooProvider fetches batch close history and single-symbol quote
// metadata from the Yahoo Finance free endpoints.
type YahooProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewYahooProvider creates a provider with built-in rate limiting. The free
// endpoints throttle aggressively, so calls are spaced out.
func NewYahooProvider(tracer trace.Tracer) *YahooProvider {
	return &YahooProvider{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: yahooBaseURL,
		tracer:  tracer,
		limiter: NewRateLimiter(10, 2*time.Second),
	}
}

// FetchDailyCloses fetches ~10 days of daily closes for all symbols in a
// single spark call and keeps the last two usable observations per symbol.
// Symbols with fewer than two closes (outage, short trading history) are
// left out of the result; the whole call fails only on transport or parse
// errors.
func (p *YahooProvider) FetchDailyCloses(ctx context.Context, symbols []string) (map[string]ClosePair, error) {
	_, span := p.tracer.Start(ctx, "yahoo.fetch-daily-closes")
	defer span.End()

	if len(symbols) == 0 {
		return map[string]ClosePair{}, nil
	}

	reqURL := fmt.Sprintf("%s/v8/finance/spark?symbols=%s&range=10d&interval=1d",
		p.baseURL, url.QueryEscape(strings.Join(symbols, ",")))

	body, err := p.doRequest(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("fetch daily closes: %w", err)
	}

	var raw struct {
		Spark struct {
			Result []struct {
				Symbol   string `json:"symbol"`
				Response []struct {
					Indicators struct {
						Quote []struct {
							Close []*float64 `json:"close"`
						} `json:"quote"`
					} `json:"indicators"`
				} `json:"response"`
			} `json:"result"`
		} `json:"spark"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse daily closes: %w", err)
	}

	out := make(map[string]ClosePair, len(raw.Spark.Result))
	for _, res := range raw.Spark.Result {
		if len(res.Response) == 0 || len(res.Response[0].Indicators.Quote) == 0 {
			continue
		}
		closes := res.Response[0].Indicators.Quote[0].Close
		vals := make([]float64, 0, len(closes))
		for _, c := range closes {
			// nulls mark days without a close (holidays, partial sessions)
			if c != nil {
				vals = append(vals, *c)
			}
		}
		if len(vals) < 2 {
			continue
		}
		out[res.Symbol] = ClosePair{Last: vals[len(vals)-1], Prev: vals[len(vals)-2]}
	}

	return out, nil
}

// FetchQuote fetches quote metadata for one symbol, preferring the
// lightweight quote endpoint and falling back to the richer quoteSummary.
// Upstream failures degrade to an empty field set rather than an error; the
// caller renders placeholders for whatever is missing.
func (p *YahooProvider) FetchQuote(ctx context.Context, symbol string) (QuoteFields, string) {
	_, span := p.tracer.Start(ctx, "yahoo.fetch-quote")
	defer span.End()

	fields, err := p.fetchFastQuote(ctx, symbol)
	if err != nil {
		log.Printf("yahoo quote fetch for %s failed: %v", symbol, err)
	}
	if len(fields) > 0 {
		return fields, "yahoo.quote"
	}

	fields, err = p.fetchQuoteSummary(ctx, symbol)
	if err != nil {
		log.Printf("yahoo quoteSummary fetch for %s failed: %v", symbol, err)
	}
	if len(fields) > 0 {
		return fields, "yahoo.quoteSummary"
	}

	return QuoteFields{}, "yahoo"
}

func (p *YahooProvider) fetchFastQuote(ctx context.Context, symbol string) (QuoteFields, error) {
	reqURL := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", p.baseURL, url.QueryEscape(symbol))

	body, err := p.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var raw struct {
		QuoteResponse struct {
			Result []map[string]any `json:"result"`
		} `json:"quoteResponse"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse quote for %s: %w", symbol, err)
	}
	if len(raw.QuoteResponse.Result) == 0 {
		return nil, nil
	}
	return QuoteFields(raw.QuoteResponse.Result[0]), nil
}

func (p *YahooProvider) fetchQuoteSummary(ctx context.Context, symbol string) (QuoteFields, error) {
	reqURL := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=price,summaryDetail",
		p.baseURL, url.PathEscape(symbol))

	body, err := p.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var raw struct {
		QuoteSummary struct {
			Result []map[string]map[string]any `json:"result"`
		} `json:"quoteSummary"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse quoteSummary for %s: %w", symbol, err)
	}
	if len(raw.QuoteSummary.Result) == 0 {
		return nil, nil
	}

	fields := QuoteFields{}
	for _, module := range raw.QuoteSummary.Result[0] {
		for name, value := range module {
			fields[name] = unwrapRaw(value)
		}
	}
	return fields, nil
}

// unwrapRaw reduces quoteSummary's {"raw": 123.4, "fmt": "123.40"} wrappers
// to the raw value; plain values pass through.
func unwrapRaw(v any) any {
	wrapped, ok := v.(map[string]any)
	if !ok {
		return v
	}
	if raw, ok := wrapped["raw"]; ok {
		return raw
	}
	return v
}

func (p *YahooProvider) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; macro-wide/1.0)")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("yahoo API error %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
