package domain

import "errors"

// Placeholder marks a value the upstream could not supply.
const Placeholder = "—"

// Indicator is one market quantity on the dashboard, pre-formatted for
// display.
type Indicator struct {
	Name       string `json:"name"`
	Value      string `json:"value"`
	Change     string `json:"change"`
	IsPositive bool   `json:"is_positive"`
	Source     string `json:"source"`
}

// StockQuote is a normalized single-symbol snapshot. Fields fall back to
// Placeholder when the upstream payload lacks the underlying value.
type StockQuote struct {
	Price       string `json:"price"`
	Change      string `json:"change"`
	ChangeValue string `json:"change_value"`
	ChangePct   string `json:"change_pct"`
	IsPositive  bool   `json:"is_positive"`
	Volume      string `json:"volume"`
	MarketCap   string `json:"market_cap"`
	Source      string `json:"source"`
}

// LiquiditySnapshot is the derived macro state at the latest aligned date.
// Raw values are in absolute dollars; *_str fields are display-formatted and
// *_change fields are week-over-week percent changes.
type LiquiditySnapshot struct {
	FedAssets          float64 `json:"fed_assets"`
	FedAssetsStr       string  `json:"fed_assets_str"`
	TGABalance         float64 `json:"tga_balance"`
	TGABalanceStr      string  `json:"tga_balance_str"`
	RRPBalance         float64 `json:"rrp_balance"`
	RRPBalanceStr      string  `json:"rrp_balance_str"`
	NetLiquidity       float64 `json:"net_liquidity"`
	NetLiquidityStr    string  `json:"net_liquidity_str"`
	SP500              float64 `json:"sp500"`
	SP500Str           string  `json:"sp500_str"`
	FedAssetsChange    float64 `json:"fed_assets_change"`
	TGAChange          float64 `json:"tga_change"`
	RRPChange          float64 `json:"rrp_change"`
	NetLiquidityChange float64 `json:"net_liquidity_change"`
	SP500Change        float64 `json:"sp500_change"`
}

// LiquidityHistoryPoint is one aligned row of the liquidity time series,
// unformatted, for charting.
type LiquidityHistoryPoint struct {
	Date         string  `json:"date"`
	FedAssets    float64 `json:"fed_assets"`
	TGABalance   float64 `json:"tga_balance"`
	RRPBalance   float64 `json:"rrp_balance"`
	NetLiquidity float64 `json:"net_liquidity"`
	SP500        float64 `json:"sp500"`
}

// BasketEntry describes one symbol of the fixed indicator basket.
type BasketEntry struct {
	Name     string
	Symbol   string
	Decimals int
	Prefix   string
}

// IndicatorBasket is fetched in one batch call, in display order. The policy
// rate entry is appended separately by the indicator service.
var IndicatorBasket = []BasketEntry{
	{Name: "KOSPI", Symbol: "^KS11", Decimals: 2},
	{Name: "KOSDAQ", Symbol: "^KQ11", Decimals: 2},
	{Name: "S&P 500", Symbol: "^GSPC", Decimals: 2},
	{Name: "NASDAQ", Symbol: "^IXIC", Decimals: 2},
	{Name: "USD/KRW", Symbol: "KRW=X", Decimals: 2},
	{Name: "Bitcoin", Symbol: "BTC-USD", Decimals: 2, Prefix: "$"},
	{Name: "Ethereum", Symbol: "ETH-USD", Decimals: 2, Prefix: "$"},
	{Name: "XRP", Symbol: "XRP-USD", Decimals: 4, Prefix: "$"},
}

// PolicyRateName labels the EFFR entry appended after the basket.
const PolicyRateName = "US Policy Rate (EFFR)"

var (
	// ErrMissingFREDKey is returned before any network call when no FRED
	// credential can be resolved. The message doubles as the remediation
	// hint shown to the user.
	ErrMissingFREDKey = errors.New("FRED_API_KEY is not set; get a free key at https://fred.stlouisfed.org/docs/api/api_key.html and export it or add it to .env")

	// ErrEmptySeriesMerge is returned when the four FRED series produce no
	// aligned rows.
	ErrEmptySeriesMerge = errors.New("FRED series could not be merged: no aligned dates")
)
