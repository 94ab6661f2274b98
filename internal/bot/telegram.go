package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"macro-wide/internal/config"
	"macro-wide/internal/domain"
	"macro-wide/internal/service"

	tele "gopkg.in/telebot.v3"
)

func StartTelegramBot(cfg *config.Config, indicatorService *service.IndicatorService, stockService *service.StockService, liquidityService *service.LiquidityService) {
	if cfg.TelegramBotToken == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  cfg.TelegramBotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/indicators", func(c tele.Context) error {
		indicators, lastUpdated, _, err := indicatorService.GetIndicators(context.Background(), cfg.IndicatorTTL)
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching indicators: %v", err))
		}
		return c.Send(formatIndicators(indicators, lastUpdated))
	})

	b.Handle("/quote", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send("Usage: /quote NVDA")
		}
		symbol := strings.ToUpper(args[0])
		quote, lastUpdated, _ := stockService.GetStockQuote(context.Background(), symbol, cfg.StockTTL)
		return c.Send(formatQuote(symbol, quote, lastUpdated))
	})

	b.Handle("/liquidity", func(c tele.Context) error {
		snapshot, _, lastUpdated, _, err := liquidityService.GetLiquidityData(context.Background(), cfg.LiquidityTTL, cfg.FREDAPIKey)
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching liquidity data: %v", err))
		}
		return c.Send(formatLiquidity(snapshot, lastUpdated))
	})

	log.Println("Telegram bot started")
	go b.Start()
}

func formatIndicators(indicators []domain.Indicator, lastUpdated string) string {
	var sb strings.Builder
	sb.WriteString("Market Indicators\n")
	for _, ind := range indicators {
		fmt.Fprintf(&sb, "%s: %s (%s)\n", ind.Name, ind.Value, ind.Change)
	}
	fmt.Fprintf(&sb, "Updated: %s", lastUpdated)
	return sb.String()
}

func formatQuote(symbol string, quote domain.StockQuote, lastUpdated string) string {
	return fmt.Sprintf(
		"%s\nPrice: %s\nChange: %s\nVolume: %s\nMarket Cap: %s\nUpdated: %s",
		symbol, quote.Price, quote.Change, quote.Volume, quote.MarketCap, lastUpdated,
	)
}

func formatLiquidity(s domain.LiquiditySnapshot, lastUpdated string) string {
	return fmt.Sprintf(
		"Net Liquidity: %s (%+.2f%%)\nFed Assets: %s (%+.2f%%)\nTGA: %s (%+.2f%%)\nRRP: %s (%+.2f%%)\nS&P 500: %s (%+.2f%%)\nUpdated: %s",
		s.NetLiquidityStr, s.NetLiquidityChange,
		s.FedAssetsStr, s.FedAssetsChange,
		s.TGABalanceStr, s.TGAChange,
		s.RRPBalanceStr, s.RRPChange,
		s.SP500Str, s.SP500Change,
		lastUpdated,
	)
}
