package service

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"macro-wide/internal/cache"
	"macro-wide/internal/domain"
	"macro-wide/internal/format"
	"macro-wide/internal/provider"

	"go.opentelemetry.io/otel/trace"
)

// FRED series feeding the net-liquidity formula.
// WALCL and WDTGAL are reported in millions of dollars, RRPONTSYD in
// billions.
const (
	seriesFedAssets = "WALCL"     // Federal Reserve total assets
	seriesTGA       = "WDTGAL"    // Treasury General Account balance
	seriesRRP       = "RRPONTSYD" // overnight reverse repo volume
	seriesSP500     = "SP500"     // S&P 500 index level
)

// MacroSeriesProvider fetches one FRED series.
type MacroSeriesProvider interface {
	FetchSeries(ctx context.Context, seriesID, apiKey string) ([]provider.Observation, error)
}

// LiquidityService derives net liquidity (fed assets minus treasury cash
// minus reverse repo) from four FRED series behind a single-slot cache.
type LiquidityService struct {
	tracer trace.Tracer
	fred   MacroSeriesProvider
	apiKey string
	cache  *cache.Slot[liquidityResult]
}

type liquidityResult struct {
	Snapshot domain.LiquiditySnapshot
	History  []domain.LiquidityHistoryPoint
}

// NewLiquidityService creates the service. apiKey is the configured FRED
// credential; an explicit per-call key takes precedence over it.
func NewLiquidityService(tracer trace.Tracer, fred MacroSeriesProvider, apiKey string) *LiquidityService {
	return &LiquidityService{
		tracer: tracer,
		fred:   fred,
		apiKey: apiKey,
		cache:  cache.NewSlot[liquidityResult](),
	}
}

// GetLiquidityData returns the latest liquidity snapshot and the full
// aligned history, serving from cache when the previous fetch is younger
// than ttl. The credential resolves from apiKey, then the configured key,
// then the FRED_API_KEY environment variable; if none is set the call fails
// with domain.ErrMissingFREDKey before any network traffic.
func (s *LiquidityService) GetLiquidityData(ctx context.Context, ttl time.Duration, apiKey string) (domain.LiquiditySnapshot, []domain.LiquidityHistoryPoint, string, bool, error) {
	_, span := s.tracer.Start(ctx, "liquidity-service.get-liquidity-data")
	defer span.End()

	if e, ok := s.cache.Get("", ttl); ok {
		return e.Payload.Snapshot, e.Payload.History, e.LastUpdated, true, nil
	}

	key := apiKey
	if key == "" {
		key = s.apiKey
	}
	if key == "" {
		key = os.Getenv("FRED_API_KEY")
	}
	if key == "" {
		return domain.LiquiditySnapshot{}, nil, "", false, domain.ErrMissingFREDKey
	}

	ids := []string{seriesFedAssets, seriesTGA, seriesRRP, seriesSP500}
	series := make([][]provider.Observation, len(ids))
	errs := make([]error, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			series[i], errs[i] = s.fred.FetchSeries(ctx, id, key)
		}(i, id)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return domain.LiquiditySnapshot{}, nil, "", false, fmt.Errorf("fetch FRED series %s: %w", ids[i], err)
		}
	}

	rows := mergeSeries(series[0], series[1], series[2], series[3])
	if len(rows) == 0 {
		return domain.LiquiditySnapshot{}, nil, "", false, domain.ErrEmptySeriesMerge
	}

	latest := rows[len(rows)-1]
	// week-over-week: 5 rows back on the daily-cadence aligned table
	prev := rows[0]
	if len(rows) > 5 {
		prev = rows[len(rows)-6]
	}

	snapshot := buildSnapshot(latest, prev)

	history := make([]domain.LiquidityHistoryPoint, 0, len(rows))
	for _, r := range rows {
		history = append(history, domain.LiquidityHistoryPoint{
			Date:         r.date,
			FedAssets:    r.fedAssets * 1e6,
			TGABalance:   r.tga * 1e6,
			RRPBalance:   r.rrp * 1e9,
			NetLiquidity: r.netLiquidity * 1e6,
			SP500:        r.sp500,
		})
	}

	now := time.Now()
	lastUpdated := displayTime(now)
	s.cache.Put(&cache.Entry[liquidityResult]{
		FetchedAt:   now,
		Payload:     liquidityResult{Snapshot: snapshot, History: history},
		LastUpdated: lastUpdated,
	})
	return snapshot, history, lastUpdated, false, nil
}

// liquidityRow is one aligned date across all four series, in the units
// each series reports (millions except rrp, which is billions).
type liquidityRow struct {
	date         string
	fedAssets    float64
	tga          float64
	rrp          float64
	netLiquidity float64
	sp500        float64
}

// mergeSeries outer-joins the four series on date, forward-fills so weekly
// and daily series line up, and drops dates where any series has not yet
// reported a value. RRP is rescaled from billions to millions before the
// net-liquidity subtraction.
func mergeSeries(fedAssets, tga, rrp, sp500 []provider.Observation) []liquidityRow {
	series := [][]provider.Observation{fedAssets, tga, rrp, sp500}

	valuesAt := make([]map[string]float64, len(series))
	dateSet := make(map[string]struct{})
	for i, obs := range series {
		valuesAt[i] = make(map[string]float64, len(obs))
		for _, o := range obs {
			valuesAt[i][o.Date] = o.Value
			dateSet[o.Date] = struct{}{}
		}
	}

	// ISO dates sort chronologically as strings
	dates := make([]string, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	var (
		last [4]float64
		seen [4]bool
		rows []liquidityRow
	)
	for _, d := range dates {
		for i := range series {
			if v, ok := valuesAt[i][d]; ok {
				last[i] = v
				seen[i] = true
			}
		}
		if !seen[0] || !seen[1] || !seen[2] || !seen[3] {
			continue
		}
		rrpMillions := last[2] * 1000
		rows = append(rows, liquidityRow{
			date:         d,
			fedAssets:    last[0],
			tga:          last[1],
			rrp:          last[2],
			netLiquidity: last[0] - last[1] - rrpMillions,
			sp500:        last[3],
		})
	}
	return rows
}

func buildSnapshot(latest, prev liquidityRow) domain.LiquiditySnapshot {
	fed := latest.fedAssets * 1e6
	tga := latest.tga * 1e6
	rrp := latest.rrp * 1e9
	net := latest.netLiquidity * 1e6

	prevFed := prev.fedAssets * 1e6
	prevTGA := prev.tga * 1e6
	prevRRP := prev.rrp * 1e9
	prevNet := prev.netLiquidity * 1e6

	return domain.LiquiditySnapshot{
		FedAssets:          fed,
		FedAssetsStr:       format.CompactUSD(fed),
		TGABalance:         tga,
		TGABalanceStr:      format.CompactUSD(tga),
		RRPBalance:         rrp,
		RRPBalanceStr:      format.CompactUSD(rrp),
		NetLiquidity:       net,
		NetLiquidityStr:    format.CompactUSD(net),
		SP500:              latest.sp500,
		SP500Str:           format.Number(latest.sp500, 2),
		FedAssetsChange:    changePctAbs(fed, prevFed),
		TGAChange:          changePctAbs(tga, prevTGA),
		RRPChange:          changePctAbs(rrp, prevRRP),
		NetLiquidityChange: changePctAbs(net, prevNet),
		SP500Change:        changePctAbs(latest.sp500, prev.sp500),
	}
}
