// Package service holds the three dashboard data providers: the indicator
// basket, the single-stock quote, and the net-liquidity series. Each owns an
// independent single-slot cache and an upstream provider; none depends on
// the others.
package service

import (
	"math"
	"time"
)

// Updated timestamps are pinned to KST regardless of server timezone, since
// that is what the dashboard displays.
var displayZone = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		return time.FixedZone("KST", 9*60*60)
	}
	return loc
}()

func displayTime(t time.Time) string {
	return t.In(displayZone).Format("2006-01-02 15:04") + " KST"
}

// changePct is (curr-prev)/prev*100, defined as 0 when prev is 0.
func changePct(curr, prev float64) float64 {
	if prev == 0 {
		return 0
	}
	return (curr - prev) / prev * 100
}

// changePctAbs divides by |prev| so the sign always matches the direction
// of movement. Used for liquidity components, which can go negative.
func changePctAbs(curr, prev float64) float64 {
	if prev == 0 {
		return 0
	}
	return (curr - prev) / math.Abs(prev) * 100
}
