package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inverse-cramer/internal/app"
	"inverse-cramer/internal/bot"
	"inverse-cramer/internal/cache"
	"inverse-cramer/internal/config"
	"inverse-cramer/internal/db"
	"inverse-cramer/internal/handler"
	"inverse-cramer/internal/job"
	"inverse-cramer/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "inverse-cramer/docs"
)

var (
	loadEnvFunc            = godotenv.Load
	loadConfigFunc         = config.Load
	initPostgresFunc       = db.InitPostgres
	initRedisFunc          = cache.InitRedis
	initTracerFunc         = tracing.InitTracer
	newAppFunc             = app.New
	newRefreshJobFunc      = job.NewRefreshJob
	startJobFunc           = func(j *job.RefreshJob, ctx context.Context) { go j.Start(ctx) }
	startTelegramBotFunc   = bot.StartTelegramBot
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Inverse Cramer API
// @version         1.0
// @description     Cramer recommendation posts joined with Yahoo price history, with OpenTelemetry tracing.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
func main() {
	if err := loadEnvFunc(); err != nil {
		log.Println("No .env file loaded")
	}

	cfg, err := loadConfigFunc()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Postgres and Redis
	if err := initPostgresFunc(ctx, cfg.DatabaseURL); err != nil {
		log.Printf("Warning: %v, continuing without Postgres", err)
	}
	defer db.Close()
	if err := initRedisFunc(ctx, cfg.RedisURL); err != nil {
		log.Printf("Warning: %v, continuing without the series cache", err)
	}
	defer cache.Close()

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx, tracing.Options{
		Enabled:  cfg.TracingEnabled,
		Endpoint: cfg.OTLPEndpoint,
	})
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Stores and services
	var deps app.Deps
	if db.Pool != nil {
		deps.Pool = db.Pool
	}
	if cache.Client != nil {
		deps.Redis = cache.Client
	}
	a, err := newAppFunc(ctx, cfg, tracer, deps)
	if err != nil {
		log.Fatalf("failed to build services: %v", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Printf("error closing stores: %v", err)
		}
	}()

	// Scheduled refresh (stopped by ctx cancel)
	refresh, err := newRefreshJobFunc(tracer, a.Search, a.Stocks, cfg.RefreshCron)
	if err != nil {
		log.Fatalf("failed to schedule refresh: %v", err)
	}
	startJobFunc(refresh, ctx)

	startTelegramBotFunc(cfg.TelegramBotToken, a.Stocks, cfg.Symbols)

	// Handlers and routes
	h := newHandlerFunc(tracer, a.Stocks, a.Search)
	h.SetRefresher(refresh)
	h.SetMetricsHandler(a.Metrics.Handler())
	h.SetAPIKey(cfg.APIKey)
	if db.Pool != nil {
		h.AddCheck("postgres", db.Pool.Ping)
	}
	if cache.Client != nil {
		h.AddCheck("redis", func(ctx context.Context) error { return cache.Client.Ping(ctx).Err() })
	}

	r := newRouterFunc()
	r.Use(otelgin.Middleware(tracing.DefaultServiceName))

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
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
