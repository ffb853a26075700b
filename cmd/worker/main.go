// Command worker drains the Redis email queue and delivers messages over
// SMTP.
package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/marketplace/backend/internal/domain/notification"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/infrastructure/mailer"
	"github.com/marketplace/backend/internal/infrastructure/queue"
	"github.com/marketplace/backend/internal/infrastructure/telemetry"
	"github.com/marketplace/backend/internal/infrastructure/worker"
	"go.uber.org/zap"
)

const (
	meterName     = "github.com/marketplace/backend/worker"
	statsInterval = time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Service:    cfg.App.Name + "-worker",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	if cfg.Queue.Driver != "redis" {
		log.Fatal("The worker needs queue.driver=redis; the memory queue is drained inside the server",
			zap.String("driver", cfg.Queue.Driver))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() { _ = tracerProvider.Shutdown(context.Background()) }()

	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }()

	metrics, err := telemetry.NewMarketMetrics(meterProvider.Meter(meterName))
	if err != nil {
		log.Fatal("Failed to create delivery metrics", zap.Error(err))
	}

	redisClient, err := queue.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()

	taskQueue := queue.NewRedisTaskQueue(redisClient, cfg.Queue, log)

	// Tasks left in processing by a crashed worker go back to pending.
	// Redelivered mail may be sent twice.
	recovered, err := taskQueue.Recover(ctx)
	if err != nil {
		log.Fatal("Failed to recover in-flight tasks", zap.Error(err))
	}
	if recovered > 0 {
		log.Warn("Requeued tasks from a previous run", zap.Int("count", recovered))
	}

	pool := worker.NewPool(worker.ConfigFrom(cfg.Worker), taskQueue, newSender(cfg.Mail, log), metrics, log)
	if err := pool.Start(ctx); err != nil {
		log.Fatal("Failed to start worker pool", zap.Error(err))
	}
	log.Info("Email worker started",
		zap.Int("concurrency", cfg.Worker.Concurrency),
		zap.String("queue_prefix", cfg.Queue.Prefix),
	)

	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()
	for running := true; running; {
		select {
		case <-ctx.Done():
			running = false
		case <-ticker.C:
			if stats, err := taskQueue.Stats(ctx); err == nil {
				log.Info("Queue depth",
					zap.Int64("pending", stats.Pending),
					zap.Int64("processing", stats.Processing),
					zap.Int64("dead", stats.Dead))
			}
		}
	}

	log.Info("Stopping email worker...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Worker.SendTimeout+5*time.Second)
	defer cancel()
	if err := pool.Stop(shutdownCtx); err != nil {
		log.Error("Worker pool did not stop cleanly", zap.Error(err))
	}
	log.Info("Email worker exited")
}

func newSender(cfg config.MailConfig, log *zap.Logger) notification.Sender {
	if cfg.Username == "" {
		log.Warn("Mail credentials not set; emails will only be logged")
		return mailer.NewLogSender(log)
	}
	sender, err := mailer.NewSMTPSender(cfg, log)
	if err != nil {
		log.Fatal("Failed to create SMTP sender", zap.Error(err))
	}
	return sender
}
