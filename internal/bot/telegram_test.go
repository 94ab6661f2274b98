package bot

import (
	"strings"
	"testing"

	"macro-wide/internal/config"
	"macro-wide/internal/domain"
)

func TestStartTelegramBotSkipsWithoutToken(t *testing.T) {
	StartTelegramBot(&config.Config{}, nil, nil, nil)
}

func TestFormatIndicators(t *testing.T) {
	msg := formatIndicators([]domain.Indicator{
		{Name: "S&P 500", Value: "6,400.00", Change: "+0.52%"},
		{Name: "KOSDAQ", Value: domain.Placeholder, Change: domain.Placeholder},
	}, "2026-08-30 09:00 KST")

	if !strings.Contains(msg, "S&P 500: 6,400.00 (+0.52%)") {
		t.Errorf("missing indicator line: %q", msg)
	}
	if !strings.Contains(msg, "KOSDAQ: — (—)") {
		t.Errorf("placeholders should render as-is: %q", msg)
	}
	if !strings.HasSuffix(msg, "Updated: 2026-08-30 09:00 KST") {
		t.Errorf("missing update line: %q", msg)
	}
}

func TestFormatQuote(t *testing.T) {
	msg := formatQuote("NVDA", domain.StockQuote{
		Price:     "$105.00",
		Change:    "+5.00 (+5.00%)",
		Volume:    "1,234,567",
		MarketCap: "$2.50T",
	}, "2026-08-30 09:00 KST")

	for _, want := range []string{"NVDA", "Price: $105.00", "Change: +5.00 (+5.00%)", "Volume: 1,234,567", "Market Cap: $2.50T"} {
		if !strings.Contains(msg, want) {
			t.Errorf("missing %q in %q", want, msg)
		}
	}
}

func TestFormatLiquidity(t *testing.T) {
	msg := formatLiquidity(domain.LiquiditySnapshot{
		NetLiquidityStr:    "$6.30T",
		NetLiquidityChange: -0.04,
		FedAssetsStr:       "$7.01T",
		FedAssetsChange:    0.04,
		TGABalanceStr:      "$709.00B",
		TGAChange:          0.71,
		RRPBalanceStr:      "$2.90B",
		RRPChange:          16,
		SP500Str:           "5,090.00",
		SP500Change:        0.59,
	}, "2026-08-30 09:00 KST")

	if !strings.Contains(msg, "Net Liquidity: $6.30T (-0.04%)") {
		t.Errorf("missing net liquidity line: %q", msg)
	}
	if !strings.Contains(msg, "Fed Assets: $7.01T (+0.04%)") {
		t.Errorf("missing fed assets line: %q", msg)
	}
	if !strings.Contains(msg, "RRP: $2.90B (+16.00%)") {
		t.Errorf("missing rrp line: %q", msg)
	}
}
