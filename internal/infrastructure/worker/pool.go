// Package worker runs the goroutines that drain the email task queue.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/marketplace/backend/internal/domain/notification"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/marketplace/backend/internal/infrastructure/worker"

// DeliveryMetrics records the outcome of each send attempt
type DeliveryMetrics interface {
	RecordEmail(ctx context.Context, kind string, err error)
}

// Config holds pool settings. A failed send is held for RetryBackoff,
// doubled per previous attempt and capped at MaxRetryBackoff, before it
// goes back to the queue.
type Config struct {
	Concurrency     int
	SendTimeout     time.Duration
	ErrorBackoff    time.Duration
	RetryBackoff    time.Duration
	MaxRetryBackoff time.Duration
}

// DefaultConfig returns default pool settings
func DefaultConfig() Config {
	return Config{
		Concurrency:     4,
		SendTimeout:     time.Minute,
		ErrorBackoff:    time.Second,
		RetryBackoff:    10 * time.Second,
		MaxRetryBackoff: 5 * time.Minute,
	}
}

// ConfigFrom builds pool settings from the worker section of the config
func ConfigFrom(cfg config.WorkerConfig) Config {
	c := DefaultConfig()
	if cfg.Concurrency > 0 {
		c.Concurrency = cfg.Concurrency
	}
	if cfg.SendTimeout > 0 {
		c.SendTimeout = cfg.SendTimeout
	}
	if cfg.RetryBackoff > 0 {
		c.RetryBackoff = cfg.RetryBackoff
	}
	if cfg.MaxRetryBackoff > 0 {
		c.MaxRetryBackoff = cfg.MaxRetryBackoff
	}
	return c
}

// Pool receives deliveries and hands them to the sender. A successful send
// is acknowledged, a failed one is returned to the queue with Nack after
// the retry delay.
type Pool struct {
	config  Config
	queue   notification.TaskQueue
	sender  notification.Sender
	metrics DeliveryMetrics
	logger  *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewPool creates a pool. metrics may be nil.
func NewPool(cfg Config, queue notification.TaskQueue, sender notification.Sender, metrics DeliveryMetrics, logger *zap.Logger) *Pool {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Pool{
		config:  cfg,
		queue:   queue,
		sender:  sender,
		metrics: metrics,
		logger:  logger.Named("worker_pool"),
	}
}

// Start launches the workers. Calling Start on a running pool is a no-op.
func (p *Pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.isRunning {
		return nil
	}
	p.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.config.Concurrency; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}

	p.logger.Info("Email worker pool started",
		zap.Int("workers", p.config.Concurrency),
		zap.Duration("send_timeout", p.config.SendTimeout),
	)
	return nil
}

// Stop cancels the workers and waits for in-flight sends until ctx expires
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return nil
	}
	p.isRunning = false
	p.mu.Unlock()

	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("Email worker pool stopped gracefully")
		return nil
	case <-ctx.Done():
		p.logger.Warn("Email worker pool stop timed out")
		return ctx.Err()
	}
}

func (p *Pool) worker(ctx context.Context, workerID int) {
	defer p.wg.Done()

	log := p.logger.With(zap.Int("worker_id", workerID))
	log.Debug("Worker started")

	for ctx.Err() == nil {
		d, err := p.queue.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, notification.ErrQueueClosed) {
				log.Debug("Worker stopping")
				return
			}
			log.Error("Failed to receive task", zap.Error(err))
			if !sleep(ctx, p.config.ErrorBackoff) {
				return
			}
			continue
		}
		p.process(ctx, log, d)
	}
	log.Debug("Worker stopping")
}

// process sends one delivery. The ack or nack uses a context that
// survives pool shutdown so a finished send is never redelivered.
func (p *Pool) process(ctx context.Context, log *zap.Logger, d *notification.Delivery) {
	log = log.With(
		zap.String("task_id", d.Task.ID.String()),
		zap.String("kind", string(d.Task.Kind)),
		zap.Int("attempt", d.Task.Attempt),
	)

	spanCtx, span := otel.Tracer(tracerName).Start(ctx, "email.send",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("task.id", d.Task.ID.String()),
			attribute.String("task.kind", string(d.Task.Kind)),
			attribute.Int("task.attempt", d.Task.Attempt),
		))
	defer span.End()

	sendCtx, cancel := context.WithTimeout(spanCtx, p.config.SendTimeout)
	err := p.sender.Send(sendCtx, d.Task)
	cancel()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	if p.metrics != nil {
		p.metrics.RecordEmail(ctx, string(d.Task.Kind), err)
	}

	if err != nil {
		delay := p.retryDelay(d.Task.Attempt)
		log.Warn("Failed to send email", zap.Error(err), zap.Duration("retry_in", delay))
		// on shutdown the task goes back at once
		sleep(ctx, delay)

		settleCtx, settleCancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer settleCancel()
		if nackErr := p.queue.Nack(settleCtx, d); nackErr != nil {
			log.Error("Failed to return task to queue", zap.Error(nackErr))
		}
		return
	}

	settleCtx, settleCancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer settleCancel()
	if ackErr := p.queue.Ack(settleCtx, d); ackErr != nil {
		log.Error("Failed to acknowledge task", zap.Error(ackErr))
		return
	}
	log.Info("Email sent")
}

// retryDelay returns how long a task that failed on the given attempt
// waits before redelivery
func (p *Pool) retryDelay(attempt int) time.Duration {
	delay := p.config.RetryBackoff
	if delay <= 0 {
		return 0
	}
	for i := 0; i < attempt; i++ {
		delay *= 2
		if p.config.MaxRetryBackoff > 0 && delay >= p.config.MaxRetryBackoff {
			return p.config.MaxRetryBackoff
		}
	}
	if p.config.MaxRetryBackoff > 0 && delay > p.config.MaxRetryBackoff {
		return p.config.MaxRetryBackoff
	}
	return delay
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
