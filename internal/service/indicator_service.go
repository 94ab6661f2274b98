package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"macro-wide/internal/cache"
	"macro-wide/internal/domain"
	"macro-wide/internal/format"
	"macro-wide/internal/provider"

	"go.opentelemetry.io/otel/trace"
)

const basketSource = "yahoo"

// BatchQuoteProvider fetches last and previous daily closes for a list of
// symbols in one call.
type BatchQuoteProvider interface {
	FetchDailyCloses(ctx context.Context, symbols []string) (map[string]provider.ClosePair, error)
}

// PolicyRateProvider fetches the latest effective overnight policy rate.
type PolicyRateProvider interface {
	FetchEFFR(ctx context.Context) (*provider.PolicyRate, error)
}

// IndicatorService assembles the market indicator basket behind a
// single-slot TTL cache.
type IndicatorService struct {
	tracer trace.Tracer
	quotes BatchQuoteProvider
	rates  PolicyRateProvider
	cache  *cache.Slot[[]domain.Indicator]
}

func NewIndicatorService(tracer trace.Tracer, quotes BatchQuoteProvider, rates PolicyRateProvider) *IndicatorService {
	return &IndicatorService{
		tracer: tracer,
		quotes: quotes,
		rates:  rates,
		cache:  cache.NewSlot[[]domain.Indicator](),
	}
}

// GetIndicators returns the basket plus the policy-rate entry, serving from
// cache when the previous fetch is younger than ttl. A transport failure on
// either upstream fails the whole call and leaves the cache untouched;
// individual symbols missing from the batch degrade to placeholders.
func (s *IndicatorService) GetIndicators(ctx context.Context, ttl time.Duration) ([]domain.Indicator, string, bool, error) {
	_, span := s.tracer.Start(ctx, "indicator-service.get-indicators")
	defer span.End()

	if e, ok := s.cache.Get("", ttl); ok {
		return e.Payload, e.LastUpdated, true, nil
	}

	symbols := make([]string, 0, len(domain.IndicatorBasket))
	for _, b := range domain.IndicatorBasket {
		symbols = append(symbols, b.Symbol)
	}

	// the two upstreams are independent, fetch them concurrently
	var (
		wg        sync.WaitGroup
		closes    map[string]provider.ClosePair
		closesErr error
		rate      *provider.PolicyRate
		rateErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		closes, closesErr = s.quotes.FetchDailyCloses(ctx, symbols)
	}()
	go func() {
		defer wg.Done()
		rate, rateErr = s.rates.FetchEFFR(ctx)
	}()
	wg.Wait()

	if closesErr != nil {
		return nil, "", false, fmt.Errorf("fetch basket quotes: %w", closesErr)
	}
	if rateErr != nil {
		return nil, "", false, fmt.Errorf("fetch policy rate: %w", rateErr)
	}

	indicators := make([]domain.Indicator, 0, len(domain.IndicatorBasket)+1)
	for _, b := range domain.IndicatorBasket {
		indicators = append(indicators, indicatorFromCloses(b, closes))
	}
	indicators = append(indicators, domain.Indicator{
		Name:       domain.PolicyRateName,
		Value:      fmt.Sprintf("%.2f%%", rate.Rate),
		Change:     rate.EffectiveDate,
		IsPositive: true,
		Source:     "nyfed",
	})

	now := time.Now()
	lastUpdated := displayTime(now)
	s.cache.Put(&cache.Entry[[]domain.Indicator]{
		FetchedAt:   now,
		Payload:     indicators,
		LastUpdated: lastUpdated,
	})
	return indicators, lastUpdated, false, nil
}

func indicatorFromCloses(b domain.BasketEntry, closes map[string]provider.ClosePair) domain.Indicator {
	pair, ok := closes[b.Symbol]
	if !ok {
		return domain.Indicator{
			Name:       b.Name,
			Value:      domain.Placeholder,
			Change:     domain.Placeholder,
			IsPositive: true,
			Source:     basketSource,
		}
	}

	pct := changePct(pair.Last, pair.Prev)
	return domain.Indicator{
		Name:       b.Name,
		Value:      b.Prefix + format.Number(pair.Last, b.Decimals),
		Change:     format.Pct(pct, 2),
		IsPositive: pct >= 0,
		Source:     basketSource,
	}
}
