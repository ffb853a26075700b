package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/notification"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/trade"
	"github.com/marketplace/backend/internal/infrastructure/queue"
	"github.com/marketplace/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type userMap map[shared.ID]*identity.User

func (m userMap) FindByID(_ context.Context, id shared.ID) (*identity.User, error) {
	u, ok := m[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

type failingQueue struct{ notification.TaskQueue }

func (failingQueue) Submit(context.Context, notification.Task) (notification.TaskHandle, error) {
	return notification.TaskHandle{}, errors.New("redis: connection refused")
}

func receive(t *testing.T, q *queue.MemoryTaskQueue) notification.Task {
	t.Helper()
	d, err := q.Receive(testutil.ContextWithTimeout(t, time.Second))
	require.NoError(t, err)
	return d.Task
}

func TestDispatcher_Handle(t *testing.T) {
	users := userMap{7: {Email: "anna@example.com"}}

	user := &identity.User{Email: "anna@example.com"}
	user.ID = 7
	order := trade.NewBasket(7)
	order.ID = 12
	order.State = trade.OrderStateConfirmed

	tests := []struct {
		name        string
		event       shared.DomainEvent
		wantKind    notification.TaskKind
		wantSubject string
		wantBody    string
	}{
		{
			name:        "registration",
			event:       identity.NewUserRegisteredEvent(user, &identity.ConfirmEmailToken{Key: "abc"}),
			wantKind:    notification.TaskKindConfirmEmail,
			wantSubject: confirmEmailSubject,
			wantBody:    "Ваш токен для подтверждения email: abc",
		},
		{
			name:        "password reset",
			event:       identity.NewPasswordResetRequestedEvent(user, &identity.PasswordResetToken{Key: "reset-key"}),
			wantKind:    notification.TaskKindPasswordReset,
			wantSubject: passwordResetSubj,
			wantBody:    "reset-key",
		},
		{
			name:        "order state",
			event:       trade.NewOrderStateChangedEvent(order, trade.OrderStateNew),
			wantKind:    notification.TaskKindOrderStatus,
			wantSubject: "Обновление статуса заказа №12",
			wantBody:    "Статус вашего заказа изменен на: Подтвержден",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := queue.NewMemoryTaskQueue(3)
			d := NewDispatcher(users, q, zap.NewNop())

			require.NoError(t, d.Handle(context.Background(), tt.event))

			task := receive(t, q)
			assert.Equal(t, tt.wantKind, task.Kind)
			assert.Equal(t, "anna@example.com", task.To)
			assert.Equal(t, tt.wantSubject, task.Subject)
			assert.Equal(t, tt.wantBody, task.Body)
		})
	}
}

func TestDispatcher_SwallowsFailures(t *testing.T) {
	ctx := context.Background()
	ghost := &identity.User{}
	ghost.ID = 99

	t.Run("unknown recipient", func(t *testing.T) {
		q := queue.NewMemoryTaskQueue(3)
		d := NewDispatcher(userMap{}, q, zap.NewNop())

		assert.NoError(t, d.Handle(ctx, identity.NewUserRegisteredEvent(ghost, &identity.ConfirmEmailToken{Key: "k"})))
		assert.Equal(t, int64(0), q.Stats().Pending)
	})

	t.Run("queue down", func(t *testing.T) {
		users := userMap{99: {Email: "ghost@example.com"}}
		d := NewDispatcher(users, failingQueue{}, zap.NewNop())

		assert.NoError(t, d.Handle(ctx, identity.NewUserRegisteredEvent(ghost, &identity.ConfirmEmailToken{Key: "k"})))
	})

	t.Run("unrelated event", func(t *testing.T) {
		q := queue.NewMemoryTaskQueue(3)
		d := NewDispatcher(userMap{}, q, zap.NewNop())

		assert.NoError(t, d.Handle(ctx, testutil.NewTestEvent("Other", 1)))
		assert.Equal(t, int64(0), q.Stats().Pending)
	})
}

func TestDispatcher_EventTypes(t *testing.T) {
	d := NewDispatcher(userMap{}, queue.NewMemoryTaskQueue(1), zap.NewNop())
	assert.ElementsMatch(t, []string{
		identity.EventTypeUserRegistered,
		identity.EventTypePasswordResetRequested,
		trade.EventTypeOrderStateChanged,
	}, d.EventTypes())
}
