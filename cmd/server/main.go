package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"

	"github.com/grindhq/grindd/internal/blocking"
	"github.com/grindhq/grindd/internal/browser"
	"github.com/grindhq/grindd/internal/config"
	"github.com/grindhq/grindd/internal/gamify"
	"github.com/grindhq/grindd/internal/handlers"
	"github.com/grindhq/grindd/internal/kv"
	"github.com/grindhq/grindd/internal/limits"
	"github.com/grindhq/grindd/internal/logger"
	"github.com/grindhq/grindd/internal/middleware"
	"github.com/grindhq/grindd/internal/models"
	"github.com/grindhq/grindd/internal/queue"
	"github.com/grindhq/grindd/internal/sites"
	"github.com/grindhq/grindd/internal/store"
	"github.com/grindhq/grindd/internal/telemetry"
	"github.com/grindhq/grindd/internal/tracker"
)

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = logger.Sync(zapLogger)
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("bridge_url", cfg.BridgeURL),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), "grindd", cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("otel_tracer_init_failed", zap.Error(err))
			} else {
				zapLogger.Info("otel_tracer_initialized", zap.String("endpoint", cfg.OTELEndpoint))
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := telemetry.Shutdown(shutdownCtx, tp); err != nil {
						zapLogger.Error("otel_tracer_shutdown_failed", zap.Error(err))
					}
				}()
			}
		}
	}

	// Local partition: Postgres behind the KV interface
	localKV, err := kv.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("database_connect_failed", zap.Error(err))
	}
	defer func() {
		if err := localKV.Close(); err != nil {
			zapLogger.Warn("database_close_failed", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_database")

	// Synced partition: Redis, also serves the rate limiter
	syncKV, err := kv.NewRedis(cfg.RedisURL, "grindd")
	if err != nil {
		zapLogger.Fatal("redis_connect_failed", zap.Error(err))
	}
	defer func() {
		if err := syncKV.Close(); err != nil {
			zapLogger.Warn("redis_close_failed", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_redis")

	jobQueue, err := connectRabbitMQ(cfg.RabbitMQURL, zapLogger)
	if err != nil {
		zapLogger.Fatal("rabbitmq_connect_failed_after_retries", zap.Error(err))
	}
	defer func() {
		if err := jobQueue.Close(); err != nil {
			zapLogger.Warn("rabbitmq_close_failed", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_rabbitmq")

	sitesCfg, err := config.LoadSitesConfig(cfg.SitesConfigPath)
	if err != nil {
		zapLogger.Fatal("sites_config_load_failed", zap.Error(err))
	}

	st := store.New(syncKV, localKV, zapLogger)
	st.SetCategorizer(func(ctx context.Context, domain string) models.Category {
		productive := append([]string{}, sites.DefaultProductiveSites...)
		productive = append(productive, sitesCfg.ProductiveSites...)
		productive = append(productive, st.ProductiveSites(ctx)...)
		unproductive := append([]string{}, sites.DefaultUnproductiveSites...)
		unproductive = append(unproductive, sitesCfg.UnproductiveSites...)
		return sites.Categorize(domain, productive, unproductive)
	})

	seedStore(context.Background(), st, sitesCfg, zapLogger)

	bridge := browser.NewBridge(cfg.BridgeURL)
	awarder := gamify.NewAwarder(st, rand.New(rand.NewSource(time.Now().UnixNano())), zapLogger)
	evaluator := limits.NewEvaluator(st, bridge, bridge, zapLogger)
	engine := blocking.NewEngine(st, bridge, bridge, bridge, awarder, jobQueue, zapLogger)
	track := tracker.New(st, bridge, evaluator, engine, awarder, bridge, zapLogger)

	daemonCtx, daemonCancel := context.WithCancel(context.Background())
	defer daemonCancel()

	track.Init(daemonCtx)
	go track.Start(daemonCtx)
	zapLogger.Info("tracker_started")

	dlqGC := queue.NewGarbageCollector(jobQueue, 1*time.Hour, 24*time.Hour, zapLogger)
	go func() {
		if err := dlqGC.Start(daemonCtx); err != nil && err != context.Canceled {
			zapLogger.Error("dlq_garbage_collector_stopped", zap.Error(err))
		}
	}()

	healthChecker := handlers.NewHealthChecker(localKV, syncKV, jobQueue)

	r := mux.NewRouter()

	if cfg.OTELEnabled {
		r.Use(otelmux.Middleware("grindd"))
	}
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORSFromEnv(cfg.AllowedOrigins))
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(middleware.DefaultRequestTimeout))
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(middleware.Logging(zapLogger))

	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")
	r.HandleFunc("/version", versionInfo).Methods("GET")

	rateLimitMW, err := middleware.RateLimit(syncKV.Client(), cfg.RateLimit)
	if err != nil {
		zapLogger.Fatal("rate_limiter_init_failed", zap.Error(err))
	}

	apiRouter := r.PathPrefix("/api/v1").Subrouter()
	apiRouter.Use(rateLimitMW)

	handlers.NewTrackingHandler(track, st).RegisterRoutes(apiRouter)
	handlers.NewBlockingHandler(engine, st, awarder).RegisterRoutes(apiRouter)
	handlers.NewLimitsHandler(st).RegisterRoutes(apiRouter)
	handlers.NewFocusHandler(st, awarder).RegisterRoutes(apiRouter)
	handlers.NewSettingsHandler(st, bridge).RegisterRoutes(apiRouter)

	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		zapLogger.Info("server_starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")
	daemonCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}

// connectRabbitMQ retries with exponential backoff to ride out broker
// startup delays.
func connectRabbitMQ(amqpURL string, zapLogger *zap.Logger) (*queue.RabbitMQQueue, error) {
	const maxRetries = 10
	const initialDelay = 2 * time.Second

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		jobQueue, err := queue.NewRabbitMQQueue(amqpURL)
		if err == nil {
			return jobQueue, nil
		}

		lastErr = err
		delay := initialDelay * time.Duration(1<<uint(attempt))
		if delay > 30*time.Second {
			delay = 30 * time.Second
		}
		zapLogger.Warn("rabbitmq_connect_retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries),
			zap.Error(err),
			zap.Duration("retry_delay", delay),
		)
		time.Sleep(delay)
	}
	return nil, lastErr
}

// seedStore applies first-run presets: built-in and configured default
// limits, plus any blocklist entries from the sites file.
func seedStore(ctx context.Context, st *store.Store, sitesCfg *config.SitesConfig, zapLogger *zap.Logger) {
	extraLimits := make(map[string]int, len(sitesCfg.DefaultLimits))
	for domain, minutes := range sitesCfg.DefaultLimits {
		extraLimits[domain] = minutes * 60
	}
	st.EnsureDefaultLimits(ctx, extraLimits)

	for _, entry := range sitesCfg.BlockedSites {
		if st.AddBlockedSite(ctx, entry) {
			zapLogger.Info("blocklist_seeded", zap.String("entry", entry))
		}
	}
}

func versionInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, `{"version":"1.0.0","timestamp":"%s"}`, time.Now().UTC().Format(time.RFC3339))
}
