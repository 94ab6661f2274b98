package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"macro-wide/internal/bot"
	"macro-wide/internal/config"
	"macro-wide/internal/handler"
	"macro-wide/internal/provider"
	"macro-wide/internal/service"
	"macro-wide/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "macro-wide/docs"
)

var (
	loadEnvFunc          = godotenv.Load
	loadConfigFunc       = config.Load
	initTracerFunc       = tracing.InitTracer
	newYahooProviderFunc = func(tracer trace.Tracer) *provider.YahooProvider {
		return provider.NewYahooProvider(tracer)
	}
	newNYFedProviderFunc = func(tracer trace.Tracer) *provider.NYFedProvider {
		return provider.NewNYFedProvider(tracer)
	}
	newFREDProviderFunc = func(tracer trace.Tracer) *provider.FREDProvider {
		return provider.NewFREDProvider(tracer)
	}
	startTelegramBotFunc   = bot.StartTelegramBot
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           MacroWide API
// @version         1.0
// @description     Market dashboard data layer: indicator basket, stock quotes, and net liquidity.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Create providers and services
	yahoo := newYahooProviderFunc(tracer)
	nyfed := newNYFedProviderFunc(tracer)
	fred := newFREDProviderFunc(tracer)

	indicatorService := service.NewIndicatorService(tracer, yahoo, nyfed)
	stockService := service.NewStockService(tracer, yahoo)
	liquidityService := service.NewLiquidityService(tracer, fred, cfg.FREDAPIKey)

	// Start Telegram bot
	startTelegramBotFunc(cfg, indicatorService, stockService, liquidityService)

	// Create handlers and routes
	h := newHandlerFunc(tracer, indicatorService, stockService, liquidityService, cfg)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("macro-wide"))

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
