package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"opsmanual/internal/models"
	"opsmanual/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const (
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
	prefetchCount  = 20
)

var errDeliveriesClosed = errors.New("deliveries channel closed")

// Mailer delivers a password reset link to its recipient.
type Mailer interface {
	SendPasswordReset(ctx context.Context, msg *models.PasswordResetMessage) error
}

// LogMailer writes reset mail to the application log instead of an SMTP relay.
type LogMailer struct{}

func (LogMailer) SendPasswordReset(_ context.Context, msg *models.PasswordResetMessage) error {
	entry := logger.Log.WithFields(logrus.Fields{
		"event":      "password_reset.mail",
		"user_id":    msg.UserID,
		"to":         msg.Email,
		"expires_at": msg.ExpiresAt,
	})
	entry.Info("password reset mail delivered")
	entry.WithField("reset_url", msg.ResetURL).Debug("password reset link")
	return nil
}

// ResetMailConsumer drains the password reset queue and hands each message
// to a Mailer.
type ResetMailConsumer struct {
	url    string
	queue  string
	mailer Mailer
	now    func() time.Time
}

func NewResetMailConsumer(url, queue string, mailer Mailer) *ResetMailConsumer {
	return &ResetMailConsumer{url: url, queue: queue, mailer: mailer, now: time.Now}
}

// Run consumes until ctx is cancelled, reconnecting with exponential backoff
// whenever the broker connection drops.
func (c *ResetMailConsumer) Run(ctx context.Context) error {
	backoff := initialBackoff
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			logger.Log.WithError(err).WithField("retry_in", backoff.String()).Warn("reset-mail consumer: failed to dial broker")
			if !sleepContext(ctx, backoff) {
				return ctx.Err()
			}
			backoff = nextBackoff(backoff)
			continue
		}
		backoff = initialBackoff

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Log.WithError(err).Warn("reset-mail consumer: consume loop ended, reconnecting")
		if !sleepContext(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *ResetMailConsumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(prefetchCount, 0, false); err != nil {
		logger.Log.WithError(err).Warn("reset-mail consumer: set QoS failed")
	}
	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	logger.Log.WithField("queue", c.queue).Info("reset-mail consumer started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errDeliveriesClosed
			}
			if err := c.handleMessage(ctx, d.Body); err != nil {
				logger.Log.WithError(err).Error("reset-mail consumer: handle message failed")
				// rejected without requeue so a poison message cannot loop
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *ResetMailConsumer) handleMessage(ctx context.Context, body []byte) error {
	var msg models.PasswordResetMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if msg.Email == "" || msg.ResetURL == "" {
		return errors.New("reset message without recipient or link")
	}
	if !msg.ExpiresAt.IsZero() && !c.now().Before(msg.ExpiresAt) {
		logger.Log.WithField("user_id", msg.UserID).Info("reset-mail consumer: dropping expired reset link")
		return nil
	}
	return c.mailer.SendPasswordReset(ctx, &msg)
}

func nextBackoff(current time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
