//go:build integration

package queue

import (
	"context"
	"testing"
	"time"

	"github.com/marketplace/backend/internal/domain/notification"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func newRedisQueue(t *testing.T, maxAttempts int) (*RedisTaskQueue, *redis.Client) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start Redis container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate container: %v", err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })

	q := NewRedisTaskQueue(client, config.QueueConfig{
		Prefix:      "test:mail",
		MaxAttempts: maxAttempts,
		BlockTime:   100 * time.Millisecond,
	}, zap.NewNop())
	return q, client
}

func TestRedisTaskQueue_SubmitReceiveAck(t *testing.T) {
	q, _ := newRedisQueue(t, 3)
	ctx := context.Background()

	task := newTask(t, "buyer@example.com")
	handle, err := q.Submit(ctx, task)
	require.NoError(t, err)
	assert.Equal(t, task.ID, handle.ID)

	d, err := q.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, task.ID, d.Task.ID)
	assert.Equal(t, task.Subject, d.Task.Subject)

	stats, err := q.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Processing: 1}, stats)

	require.NoError(t, q.Ack(ctx, d))
	stats, err = q.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
}

func TestRedisTaskQueue_NackRequeuesThenDeadLetters(t *testing.T) {
	q, _ := newRedisQueue(t, 2)
	ctx := context.Background()

	task := newTask(t, "buyer@example.com")
	_, err := q.Submit(ctx, task)
	require.NoError(t, err)

	d, err := q.Receive(ctx)
	require.NoError(t, err)
	require.NoError(t, q.Nack(ctx, d))

	d, err = q.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Task.Attempt)
	require.NoError(t, q.Nack(ctx, d))

	stats, err := q.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Dead: 1}, stats)
}

func TestRedisTaskQueue_Recover(t *testing.T) {
	q, _ := newRedisQueue(t, 3)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := q.Submit(ctx, newTask(t, "buyer@example.com"))
		require.NoError(t, err)
	}
	_, err := q.Receive(ctx)
	require.NoError(t, err)
	_, err = q.Receive(ctx)
	require.NoError(t, err)

	moved, err := q.Recover(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, moved)

	stats, err := q.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Pending: 2}, stats)
}

func TestRedisTaskQueue_UndecodablePayloadIsParked(t *testing.T) {
	q, client := newRedisQueue(t, 3)
	ctx := context.Background()

	require.NoError(t, client.LPush(ctx, "test:mail:pending", "{not json").Err())
	task := newTask(t, "buyer@example.com")
	_, err := q.Submit(ctx, task)
	require.NoError(t, err)

	d, err := q.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, task.ID, d.Task.ID)

	stats, err := q.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Dead)
}

func TestRedisTaskQueue_ReceiveHonorsContext(t *testing.T) {
	q, _ := newRedisQueue(t, 3)
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	_, err := q.Receive(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

var _ notification.TaskQueue = (*RedisTaskQueue)(nil)
