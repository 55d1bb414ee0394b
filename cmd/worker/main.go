package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/grindhq/grindd/internal/blocking"
	"github.com/grindhq/grindd/internal/browser"
	"github.com/grindhq/grindd/internal/config"
	"github.com/grindhq/grindd/internal/gamify"
	"github.com/grindhq/grindd/internal/kv"
	"github.com/grindhq/grindd/internal/logger"
	"github.com/grindhq/grindd/internal/queue"
	"github.com/grindhq/grindd/internal/store"
	"github.com/grindhq/grindd/internal/workers"
)

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	debugMode := cfg.WorkerDebugMode || *debugFlag

	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = logger.Sync(zapLogger)
	}()

	zapLogger.Info("starting_worker",
		zap.Bool("debug_mode", debugMode),
		zap.Int("prefetch", cfg.RabbitMQPrefetch),
	)

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

	jobQueue, err := queue.NewRabbitMQQueue(cfg.RabbitMQURL)
	if err != nil {
		zapLogger.Fatal("rabbitmq_connect_failed", zap.Error(err))
	}
	defer func() {
		if err := jobQueue.Close(); err != nil {
			zapLogger.Warn("rabbitmq_close_failed", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_rabbitmq")

	st := store.New(syncKV, localKV, zapLogger)
	bridge := browser.NewBridge(cfg.BridgeURL)
	awarder := gamify.NewAwarder(st, rand.New(rand.NewSource(time.Now().UnixNano())), zapLogger)
	engine := blocking.NewEngine(st, bridge, bridge, bridge, awarder, jobQueue, zapLogger)
	reblocker := workers.NewReblocker(engine, jobQueue, zapLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	msgChan, errChan, err := jobQueue.Consume(ctx, cfg.RabbitMQPrefetch)
	if err != nil {
		zapLogger.Fatal("consume_start_failed", zap.Error(err))
	}

	zapLogger.Info("worker_started")

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgChan:
				if !ok {
					zapLogger.Info("message_channel_closed")
					return
				}
				if err := reblocker.ProcessJob(ctx, msg); err != nil {
					zapLogger.Error("job_processing_failed",
						zap.Error(err),
						zap.String("job_id", msg.GetJob().ID.String()),
						zap.String("job_type", string(msg.GetJob().Type)),
					)
				}
			}
		}
	}()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-errChan:
				if !ok {
					return
				}
				zapLogger.Error("queue_error", zap.Error(err))
			}
		}
	}()

	<-sigChan
	zapLogger.Info("worker_shutting_down")
	cancel()

	zapLogger.Info("worker_stopped")
}
