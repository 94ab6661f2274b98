package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"macro-wide/internal/cache"
	"macro-wide/internal/domain"
	"macro-wide/internal/format"
	"macro-wide/internal/provider"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// StockQuoteProvider fetches quote metadata for one symbol. Upstream
// failures degrade to an empty field set, never an error.
type StockQuoteProvider interface {
	FetchQuote(ctx context.Context, symbol string) (provider.QuoteFields, string)
}

// quoteFieldAliases maps each normalized concept to the upstream field
// names that may carry it, in probe order. The two quote endpoints (and
// historical shape drift within them) disagree on naming, so every concept
// is looked up through this table instead of ad hoc conditionals.
var quoteFieldAliases = map[string][]string{
	"last":       {"last_price", "lastPrice", "regularMarketPrice", "currentPrice"},
	"prev":       {"previous_close", "previousClose", "regularMarketPreviousClose"},
	"volume":     {"last_volume", "lastVolume", "regularMarketVolume", "volume"},
	"market_cap": {"market_cap", "marketCap"},
	"currency":   {"currency"},
}

// StockService serves a normalized quote for one symbol at a time behind a
// symbol-keyed single-slot cache. Requesting a different symbol evicts the
// previous entry.
type StockService struct {
	tracer trace.Tracer
	quotes StockQuoteProvider
	cache  *cache.Slot[domain.StockQuote]
}

func NewStockService(tracer trace.Tracer, quotes StockQuoteProvider) *StockService {
	return &StockService{
		tracer: tracer,
		quotes: quotes,
		cache:  cache.NewSlot[domain.StockQuote](),
	}
}

// GetStockQuote returns the quote for symbol, serving from cache when the
// cached symbol matches and the entry is younger than ttl. Missing upstream
// data degrades to placeholder fields; the degenerate result is still
// cached, so a broken symbol does not hammer the upstream either.
func (s *StockService) GetStockQuote(ctx context.Context, symbol string, ttl time.Duration) (domain.StockQuote, string, bool) {
	_, span := s.tracer.Start(ctx, "stock-service.get-stock-quote")
	defer span.End()

	normalized := strings.ToUpper(strings.TrimSpace(symbol))
	span.SetAttributes(attribute.String("symbol", normalized))

	if e, ok := s.cache.Get(normalized, ttl); ok {
		return e.Payload, e.LastUpdated, true
	}

	fields, source := s.quotes.FetchQuote(ctx, normalized)
	quote := buildQuote(fields, source)

	now := time.Now()
	lastUpdated := displayTime(now)
	s.cache.Put(&cache.Entry[domain.StockQuote]{
		FetchedAt:   now,
		Key:         normalized,
		Payload:     quote,
		LastUpdated: lastUpdated,
	})
	return quote, lastUpdated, false
}

func buildQuote(fields provider.QuoteFields, source string) domain.StockQuote {
	last, okLast := probeFloat(fields, quoteFieldAliases["last"])
	prev, okPrev := probeFloat(fields, quoteFieldAliases["prev"])

	if !okLast || !okPrev {
		return domain.StockQuote{
			Price:       domain.Placeholder,
			Change:      domain.Placeholder,
			ChangeValue: domain.Placeholder,
			ChangePct:   "",
			IsPositive:  true,
			Volume:      domain.Placeholder,
			MarketCap:   domain.Placeholder,
			Source:      source,
		}
	}

	chg := last - prev
	pct := changePct(last, prev)

	currency, _ := probeString(fields, quoteFieldAliases["currency"])
	moneyPrefix := ""
	if strings.EqualFold(currency, "USD") {
		moneyPrefix = "$"
	}

	changeValue := format.Number(chg, 2)
	if chg >= 0 {
		changeValue = "+" + changeValue
	}
	changePctStr := "(" + format.Pct(pct, 2) + ")"

	volumeStr := domain.Placeholder
	if volume, ok := probeFloat(fields, quoteFieldAliases["volume"]); ok {
		volumeStr = format.Comma(int64(volume))
	}

	marketCapStr := domain.Placeholder
	if marketCap, ok := probeFloat(fields, quoteFieldAliases["market_cap"]); ok {
		marketCapStr = format.CompactMoney(marketCap, currency)
	}

	return domain.StockQuote{
		Price:       moneyPrefix + format.Number(last, 2),
		Change:      changeValue + " " + changePctStr,
		ChangeValue: changeValue,
		ChangePct:   changePctStr,
		IsPositive:  pct >= 0,
		Volume:      volumeStr,
		MarketCap:   marketCapStr,
		Source:      source,
	}
}

// probeFloat tries each candidate field name in order and returns the first
// numeric value present.
func probeFloat(fields provider.QuoteFields, names []string) (float64, bool) {
	for _, name := range names {
		v, ok := fields[name]
		if !ok || v == nil {
			continue
		}
		switch x := v.(type) {
		case float64:
			return x, true
		case string:
			if f, err := strconv.ParseFloat(x, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func probeString(fields provider.QuoteFields, names []string) (string, bool) {
	for _, name := range names {
		if v, ok := fields[name].(string); ok && v != "" {
			return v, true
		}
	}
	return "", false
}
