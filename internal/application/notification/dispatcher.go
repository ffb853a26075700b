// Package notification turns domain events into outbound email tasks.
package notification

import (
	"context"
	"fmt"

	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/notification"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// Email subjects and bodies
const (
	confirmEmailSubject = "Подтверждение регистрации"
	confirmEmailBody    = "Ваш токен для подтверждения email: %s"
	passwordResetSubj   = "Восстановление пароля"
	orderStatusSubject  = "Обновление статуса заказа №%d"
	orderStatusBody     = "Статус вашего заказа изменен на: %s"
)

// UserFinder resolves the recipient of a notification
type UserFinder interface {
	FindByID(ctx context.Context, id shared.ID) (*identity.User, error)
}

// Dispatcher subscribes to account and order events and submits one
// email task per event. Failures are logged and never returned, so a
// publisher is not affected by mail problems.
type Dispatcher struct {
	users  UserFinder
	queue  notification.TaskQueue
	logger *zap.Logger
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(users UserFinder, queue notification.TaskQueue, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{users: users, queue: queue, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (d *Dispatcher) EventTypes() []string {
	return []string{
		identity.EventTypeUserRegistered,
		identity.EventTypePasswordResetRequested,
		trade.EventTypeOrderStateChanged,
	}
}

// Handle composes and submits the email for an event
func (d *Dispatcher) Handle(ctx context.Context, event shared.DomainEvent) error {
	task, err := d.compose(ctx, event)
	if err != nil {
		d.logger.Warn("notification skipped",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
			zap.Error(err))
		return nil
	}
	if task == nil {
		return nil
	}

	handle, err := d.queue.Submit(ctx, *task)
	if err != nil {
		d.logger.Error("failed to submit notification",
			zap.String("event_type", event.EventType()),
			zap.String("kind", string(task.Kind)),
			zap.Error(err))
		return nil
	}
	d.logger.Debug("notification queued",
		zap.String("task_id", handle.ID.String()),
		zap.String("kind", string(task.Kind)))
	return nil
}

func (d *Dispatcher) compose(ctx context.Context, event shared.DomainEvent) (*notification.Task, error) {
	var (
		userID  shared.ID
		kind    notification.TaskKind
		subject string
		body    string
	)
	switch e := event.(type) {
	case *identity.UserRegisteredEvent:
		userID, kind = e.UserID, notification.TaskKindConfirmEmail
		subject, body = confirmEmailSubject, fmt.Sprintf(confirmEmailBody, e.Token)
	case *identity.PasswordResetRequestedEvent:
		userID, kind = e.UserID, notification.TaskKindPasswordReset
		subject, body = passwordResetSubj, e.Token
	case *trade.OrderStateChangedEvent:
		userID, kind = e.UserID, notification.TaskKindOrderStatus
		subject, body = fmt.Sprintf(orderStatusSubject, e.OrderID), fmt.Sprintf(orderStatusBody, e.State.Label())
	default:
		return nil, nil
	}

	user, err := d.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load recipient %d: %w", userID, err)
	}
	task, err := notification.NewTask(kind, user.Email, subject, body)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Ensure Dispatcher implements shared.EventHandler
var _ shared.EventHandler = (*Dispatcher)(nil)
