package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	FREDAPIKey       string
	TelegramBotToken string
	Port             string

	IndicatorTTL time.Duration
	StockTTL     time.Duration
	LiquidityTTL time.Duration
}

func Load() *Config {
	cfg := &Config{
		FREDAPIKey:       strings.TrimSpace(os.Getenv("FRED_API_KEY")),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
	}

	if cfg.FREDAPIKey == "" {
		log.Println("Warning: FRED_API_KEY not set, liquidity data will be unavailable")
	}
	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set")
	}

	cfg.Port = strings.TrimSpace(os.Getenv("PORT"))
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	cfg.IndicatorTTL = ttlFromEnv("INDICATOR_TTL_SECS", 300)
	cfg.StockTTL = ttlFromEnv("STOCK_TTL_SECS", 300)
	cfg.LiquidityTTL = ttlFromEnv("LIQUIDITY_TTL_SECS", 3600)

	return cfg
}

func ttlFromEnv(name string, defaultSecs int) time.Duration {
	secs := defaultSecs
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			secs = n
		}
	}
	return time.Duration(secs) * time.Second
}
