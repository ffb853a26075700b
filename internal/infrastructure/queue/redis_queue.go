// Package queue implements the email task queue on Redis lists, plus an
// in-process variant for tests and single-binary development.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/marketplace/backend/internal/domain/notification"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultPrefix      = "market:mail"
	defaultMaxAttempts = 5
	defaultBlockTime   = 5 * time.Second
)

// RedisTaskQueue is a reliable queue built from three lists:
// <prefix>:pending, <prefix>:processing and <prefix>:dead.
// Receive atomically moves a payload from pending to processing, Ack
// removes it, Nack puts it back with a higher attempt counter or parks it
// in the dead list. A crash between Receive and Ack leaves the payload in
// processing until Recover runs, so a task can be delivered twice.
type RedisTaskQueue struct {
	client      redis.UniversalClient
	pending     string
	processing  string
	dead        string
	maxAttempts int
	blockTime   time.Duration
	logger      *zap.Logger
}

// NewRedisClient opens and pings a client for the configured server
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewRedisTaskQueue creates a queue on an existing client
func NewRedisTaskQueue(client redis.UniversalClient, cfg config.QueueConfig, logger *zap.Logger) *RedisTaskQueue {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	blockTime := cfg.BlockTime
	if blockTime <= 0 {
		blockTime = defaultBlockTime
	}

	return &RedisTaskQueue{
		client:      client,
		pending:     prefix + ":pending",
		processing:  prefix + ":processing",
		dead:        prefix + ":dead",
		maxAttempts: maxAttempts,
		blockTime:   blockTime,
		logger:      logger.Named("task_queue"),
	}
}

// Submit appends a task to the pending list
func (q *RedisTaskQueue) Submit(ctx context.Context, task notification.Task) (notification.TaskHandle, error) {
	payload, err := json.Marshal(task)
	if err != nil {
		return notification.TaskHandle{}, fmt.Errorf("failed to encode task: %w", err)
	}
	if err := q.client.LPush(ctx, q.pending, payload).Err(); err != nil {
		return notification.TaskHandle{}, fmt.Errorf("failed to submit task: %w", err)
	}
	return notification.TaskHandle{ID: task.ID}, nil
}

// Receive blocks until a task is moved to the processing list or ctx
// is done. Payloads that cannot be decoded go straight to the dead list.
func (q *RedisTaskQueue) Receive(ctx context.Context) (*notification.Delivery, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		payload, err := q.client.BLMove(ctx, q.pending, q.processing, "RIGHT", "LEFT", q.blockTime).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if errors.Is(err, redis.ErrClosed) {
				return nil, notification.ErrQueueClosed
			}
			return nil, fmt.Errorf("failed to receive task: %w", err)
		}

		var task notification.Task
		if err := json.Unmarshal([]byte(payload), &task); err != nil {
			q.logger.Error("dropping undecodable task payload", zap.String("payload", payload), zap.Error(err))
			if moveErr := q.move(ctx, payload, q.dead, payload); moveErr != nil {
				return nil, moveErr
			}
			continue
		}
		return &notification.Delivery{Task: task, Receipt: payload}, nil
	}
}

// Ack removes a delivered task from the processing list
func (q *RedisTaskQueue) Ack(ctx context.Context, d *notification.Delivery) error {
	if err := q.client.LRem(ctx, q.processing, 1, d.Receipt).Err(); err != nil {
		return fmt.Errorf("failed to ack task %s: %w", d.Task.ID, err)
	}
	return nil
}

// Nack re-queues a failed task with its attempt counter increased, or
// moves it to the dead list once max attempts are used up.
func (q *RedisTaskQueue) Nack(ctx context.Context, d *notification.Delivery) error {
	task := d.Task
	task.Attempt++

	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to encode task: %w", err)
	}

	target := q.pending
	if task.Attempt >= q.maxAttempts {
		target = q.dead
		q.logger.Warn("task moved to dead letter list",
			zap.String("task_id", task.ID.String()),
			zap.String("kind", string(task.Kind)),
			zap.Int("attempt", task.Attempt))
	}
	return q.move(ctx, d.Receipt, target, string(payload))
}

// move replaces receipt in the processing list with payload in target
func (q *RedisTaskQueue) move(ctx context.Context, receipt, target, payload string) error {
	_, err := q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, q.processing, 1, receipt)
		pipe.LPush(ctx, target, payload)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to move task to %s: %w", target, err)
	}
	return nil
}

// Recover returns everything left in the processing list to pending.
// Run it before any worker of the deployment starts receiving.
func (q *RedisTaskQueue) Recover(ctx context.Context) (int, error) {
	moved := 0
	for {
		err := q.client.LMove(ctx, q.processing, q.pending, "LEFT", "RIGHT").Err()
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			return moved, fmt.Errorf("failed to recover tasks: %w", err)
		}
		moved++
	}
	if moved > 0 {
		q.logger.Info("recovered unacknowledged tasks", zap.Int("count", moved))
	}
	return moved, nil
}

// Stats reports list lengths
func (q *RedisTaskQueue) Stats(ctx context.Context) (Stats, error) {
	pipe := q.client.Pipeline()
	pending := pipe.LLen(ctx, q.pending)
	processing := pipe.LLen(ctx, q.processing)
	dead := pipe.LLen(ctx, q.dead)
	if _, err := pipe.Exec(ctx); err != nil {
		return Stats{}, fmt.Errorf("failed to read queue stats: %w", err)
	}
	return Stats{
		Pending:    pending.Val(),
		Processing: processing.Val(),
		Dead:       dead.Val(),
	}, nil
}

// Stats holds queue list lengths
type Stats struct {
	Pending    int64
	Processing int64
	Dead       int64
}

var _ notification.TaskQueue = (*RedisTaskQueue)(nil)
