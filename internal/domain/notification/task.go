// Package notification defines outbound email tasks and the queue
// contract that carries them from request handlers to the mail worker.
package notification

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskKind tells the worker what produced a task
type TaskKind string

const (
	TaskKindConfirmEmail  TaskKind = "confirm_email"
	TaskKindPasswordReset TaskKind = "password_reset"
	TaskKindOrderStatus   TaskKind = "order_status"
)

// Task is an email message waiting to be sent
type Task struct {
	ID        uuid.UUID `json:"id"`
	Kind      TaskKind  `json:"kind"`
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Attempt   int       `json:"attempt"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTask creates a task on its first attempt
func NewTask(kind TaskKind, to, subject, body string) (Task, error) {
	if strings.TrimSpace(to) == "" {
		return Task{}, errors.New("notification: recipient is required")
	}
	return Task{
		ID:        uuid.New(),
		Kind:      kind,
		To:        to,
		Subject:   subject,
		Body:      body,
		CreatedAt: time.Now(),
	}, nil
}

// TaskHandle identifies a submitted task
type TaskHandle struct {
	ID uuid.UUID
}

// Delivery is a task handed to a worker. Receipt is opaque to callers
// and lets the queue acknowledge exactly this delivery.
type Delivery struct {
	Task    Task
	Receipt string
}

// ErrQueueClosed is returned by Receive once the queue is shut down
var ErrQueueClosed = errors.New("notification: queue closed")

// TaskQueue is a durable work queue with at-least-once delivery. A task
// may be delivered more than once; consumers do not deduplicate.
type TaskQueue interface {
	Submit(ctx context.Context, task Task) (TaskHandle, error)

	// Receive blocks until a task is available or ctx is done
	Receive(ctx context.Context) (*Delivery, error)

	// Ack removes a delivered task permanently
	Ack(ctx context.Context, d *Delivery) error

	// Nack returns a failed task for another attempt, or parks it when
	// attempts are exhausted
	Nack(ctx context.Context, d *Delivery) error
}

// Sender transmits a task over the mail transport
type Sender interface {
	Send(ctx context.Context, task Task) error
}
