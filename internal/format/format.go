// Package format renders numbers the way the dashboard displays them:
// grouped thousands, signed percents, and compact money strings.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// Number renders v with thousands separators and a fixed number of decimals.
func Number(v float64, decimals int) string {
	return humanize.FormatFloat("#,###."+strings.Repeat("#", decimals), v)
}

// Pct renders a percent change with an explicit leading + for non-negative
// values.
func Pct(v float64, decimals int) string {
	sign := ""
	if v >= 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.*f%%", sign, decimals, v)
}

// Comma renders an integer with thousands separators.
func Comma(v int64) string {
	return humanize.Comma(v)
}

// CompactMoney folds large values into K/M/B/T form. The $ prefix is applied
// only for USD-denominated values.
func CompactMoney(v float64, currency string) string {
	prefix := ""
	if strings.EqualFold(strings.TrimSpace(currency), "USD") {
		prefix = "$"
	}
	abs := math.Abs(v)
	switch {
	case abs >= 1e12:
		return fmt.Sprintf("%s%.2fT", prefix, v/1e12)
	case abs >= 1e9:
		return fmt.Sprintf("%s%.2fB", prefix, v/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%s%.2fM", prefix, v/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%s%.2fK", prefix, v/1e3)
	}
	return prefix + Number(v, 0)
}

// CompactUSD folds dollar amounts into M/B/T form. Liquidity figures are
// always dollars, so the prefix is unconditional and there is no K tier.
func CompactUSD(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e12:
		return fmt.Sprintf("$%.2fT", v/1e12)
	case abs >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	}
	return "$" + Number(v, 0)
}
