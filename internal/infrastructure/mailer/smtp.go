// Package mailer delivers notification tasks over SMTP.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/marketplace/backend/internal/domain/notification"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

const headerTaskID mail.Header = "X-Task-ID"

// dialer sends composed messages. *mail.Client satisfies it.
type dialer interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// SMTPSender sends one message per task, opening a connection per send
type SMTPSender struct {
	client dialer
	from   string
	logger *zap.Logger
}

// NewSMTPSender creates a sender from mail configuration. Port 465 with
// UseSSL is implicit TLS, any other port upgrades with STARTTLS when the
// server offers it.
func NewSMTPSender(cfg config.MailConfig, logger *zap.Logger) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, errors.New("mail host is required")
	}
	if cfg.From == "" {
		return nil, errors.New("mail sender address is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(timeout),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	if cfg.UseSSL {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}
	return newSender(client, cfg.From, logger), nil
}

func newSender(client dialer, from string, logger *zap.Logger) *SMTPSender {
	return &SMTPSender{client: client, from: from, logger: logger.Named("mailer")}
}

// Send composes and transmits a plain-text message for the task
func (s *SMTPSender) Send(ctx context.Context, task notification.Task) error {
	msg, err := s.compose(task)
	if err != nil {
		return err
	}
	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send %s email to %s: %w", task.Kind, task.To, err)
	}

	s.logger.Debug("email sent",
		zap.String("task_id", task.ID.String()),
		zap.String("kind", string(task.Kind)),
		zap.Int("attempt", task.Attempt))
	return nil
}

func (s *SMTPSender) compose(task notification.Task) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(task.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address %q: %w", task.To, err)
	}
	msg.Subject(task.Subject)
	msg.SetGenHeader(headerTaskID, task.ID.String())
	msg.SetMessageID()
	msg.SetDate()
	msg.SetBodyString(mail.TypeTextPlain, task.Body)
	return msg, nil
}

// LogSender writes tasks to the log instead of sending them. It serves
// development setups without an SMTP server.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a LogSender
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger.Named("mailer")}
}

// Send logs the task
func (s *LogSender) Send(ctx context.Context, task notification.Task) error {
	s.logger.Info("email not sent, no SMTP host configured",
		zap.String("task_id", task.ID.String()),
		zap.String("to", task.To),
		zap.String("subject", task.Subject),
		zap.String("body", task.Body))
	return nil
}

var (
	_ notification.Sender = (*SMTPSender)(nil)
	_ notification.Sender = (*LogSender)(nil)
)
