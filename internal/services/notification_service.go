package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"opsmanual/internal/models"
	"opsmanual/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// NotificationService hands password-reset mail off to a side channel.
// Delivery failures are reported to the caller, which is expected to log
// and carry on.
type NotificationService interface {
	SendPasswordReset(ctx context.Context, msg *models.PasswordResetMessage) error
	Close() error
}

// BuildResetURL appends the reset token to base as the token query parameter.
func BuildResetURL(base, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid reset url base: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// defaultDialTimeout bounds the TCP connect and the AMQP handshake.
const defaultDialTimeout = 5 * time.Second

// amqpNotifier keeps one broker connection and reopens it after it drops.
type amqpNotifier struct {
	url         string
	queue       string
	dialTimeout time.Duration

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewNotificationService publishes to queue on the broker at amqpURL. With an
// empty amqpURL messages are only logged.
func NewNotificationService(amqpURL, queue string) NotificationService {
	if amqpURL == "" {
		return &logNotifier{}
	}
	return &amqpNotifier{url: amqpURL, queue: queue, dialTimeout: defaultDialTimeout}
}

// channel returns an open channel with the queue declared. Callers hold n.mu.
func (n *amqpNotifier) channel() (*amqp.Channel, error) {
	if n.ch != nil && !n.ch.IsClosed() {
		return n.ch, nil
	}
	if n.conn == nil || n.conn.IsClosed() {
		conn, err := amqp.DialConfig(n.url, amqp.Config{
			Heartbeat: 10 * time.Second,
			Locale:    "en_US",
			Dial:      amqp.DefaultDial(n.dialTimeout),
		})
		if err != nil {
			return nil, fmt.Errorf("rabbitmq dial: %w", err)
		}
		n.conn = conn
	}

	ch, err := n.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	if _, err := ch.QueueDeclare(n.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("rabbitmq queue declare: %w", err)
	}
	n.ch = ch
	return ch, nil
}

func (n *amqpNotifier) SendPasswordReset(ctx context.Context, msg *models.PasswordResetMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal reset message: %w", err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	ch, err := n.channel()
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", n.queue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"event":   "password_reset.queued",
		"user_id": msg.UserID,
		"queue":   n.queue,
	}).Debug("password reset message published")
	return nil
}

func (n *amqpNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.ch != nil {
		_ = n.ch.Close()
		n.ch = nil
	}
	if n.conn == nil {
		return nil
	}
	err := n.conn.Close()
	n.conn = nil
	if errors.Is(err, amqp.ErrClosed) {
		return nil
	}
	return err
}

type logNotifier struct{}

func (logNotifier) SendPasswordReset(_ context.Context, msg *models.PasswordResetMessage) error {
	logger.Log.WithFields(logrus.Fields{
		"event":      "password_reset.requested",
		"user_id":    msg.UserID,
		"expires_at": msg.ExpiresAt,
	}).Info("no message broker configured; password reset mail not sent")
	return nil
}

func (logNotifier) Close() error { return nil }
