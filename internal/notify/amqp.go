package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/ridemarket/marketplace/internal/marketplace"
	"github.com/ridemarket/marketplace/internal/metrics"
)

const amqpMaxRetries = 10

// AMQPNotifier publishes envelopes to a topic exchange. The routing key is
// the target key, e.g. "user.a@b.c" or "group.Admins".
type AMQPNotifier struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	service  string
	log      *zap.Logger

	mu     sync.Mutex
	closed bool
}

var _ marketplace.Notifier = (*AMQPNotifier)(nil)

// DialAMQP connects with backoff and declares the exchange.
func DialAMQP(ctx context.Context, url, exchange, service string, log *zap.Logger) (*AMQPNotifier, error) {
	if log == nil {
		log = zap.NewNop()
	}
	delay := time.Second
	for attempt := 1; ; attempt++ {
		conn, ch, err := openChannel(url, exchange)
		if err == nil {
			log.Info("rabbitmq connected", zap.Int("attempt", attempt), zap.String("exchange", exchange))
			return &AMQPNotifier{conn: conn, ch: ch, exchange: exchange, service: service, log: log}, nil
		}
		log.Warn("rabbitmq connect failed",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", amqpMaxRetries),
			zap.Duration("retry_in", delay),
			zap.Error(err),
		)
		if attempt == amqpMaxRetries {
			return nil, fmt.Errorf("rabbitmq: connect after %d attempts: %w", amqpMaxRetries, err)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay = min(time.Duration(float64(delay)*1.5), 30*time.Second)
	}
}

func openChannel(url, exchange string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return conn, ch, nil
}

func (a *AMQPNotifier) NotifyUser(ctx context.Context, identity, event string, payload any) error {
	return a.publish(ctx, userTarget(identity), event, payload)
}

func (a *AMQPNotifier) NotifyGroup(ctx context.Context, group, event string, payload any) error {
	return a.publish(ctx, groupTarget(group), event, payload)
}

func (a *AMQPNotifier) publish(ctx context.Context, target marketplace.Target, event string, payload any) error {
	n, err := envelope(a.service, target, event, payload)
	if err != nil {
		return err
	}
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return errors.New("rabbitmq: notifier closed")
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err = a.ch.PublishWithContext(pubCtx, a.exchange, target.Key(), false, false, amqp.Publishing{
		ContentType:  "application/json",
		MessageId:    n.ID,
		Type:         event,
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    n.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", target.Key(), err)
	}
	metrics.NotificationsPublished.WithLabelValues("amqp", string(target.Kind)).Inc()
	return nil
}

// Consume binds queue to every target on the exchange and feeds deliveries
// to fn until ctx is done. Deliveries are acked when fn returns nil.
func (a *AMQPNotifier) Consume(ctx context.Context, queue string, fn func(context.Context, marketplace.Notification) error) error {
	a.mu.Lock()
	ch := a.ch
	a.mu.Unlock()

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", queue, err)
	}
	if err := ch.QueueBind(queue, "#", a.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", queue, err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	msgs, err := ch.Consume(queue, a.service, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("rabbitmq: delivery channel closed")
			}
			var n marketplace.Notification
			if err := json.Unmarshal(d.Body, &n); err != nil {
				a.log.Warn("drop malformed notification", zap.Error(err))
				_ = d.Nack(false, false)
				continue
			}
			if err := fn(ctx, n); err != nil {
				a.log.Warn("notification handler failed", zap.String("id", n.ID), zap.Error(err))
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (a *AMQPNotifier) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	_ = a.ch.Close()
	return a.conn.Close()
}
