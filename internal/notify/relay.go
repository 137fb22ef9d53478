package notify

import (
	"context"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ridemarket/marketplace/internal/kafka"
	"github.com/ridemarket/marketplace/internal/marketplace"
	"github.com/ridemarket/marketplace/internal/redisx"
)

type deliverer interface {
	Deliver(n marketplace.Notification) (int, error)
}

// Relay moves consumed notifications onto the websocket hub. When RDB is
// set each notification id is delivered at most once per service.
type Relay struct {
	Hub     deliverer
	RDB     redis.Cmdable
	Service string
	Log     *zap.Logger
}

// HandleKafka is a kafka.Handler. Malformed messages are dropped so the
// offset still advances.
func (r *Relay) HandleKafka(ctx context.Context, m kafkago.Message) error {
	n, err := kafka.DecodeNotification(m.Value)
	if err != nil {
		r.logger().Warn("drop malformed notification",
			zap.Int64("offset", m.Offset),
			zap.Int("partition", m.Partition),
			zap.Error(err),
		)
		return nil
	}
	return r.Handle(ctx, n)
}

func (r *Relay) Handle(ctx context.Context, n marketplace.Notification) error {
	if r.RDB != nil {
		first, err := redisx.MarkOnce(ctx, r.RDB, fmt.Sprintf(redisx.KeyDedup, r.Service, n.ID), redisx.TTLDedup)
		if err != nil {
			return fmt.Errorf("dedup %s: %w", n.ID, err)
		}
		if !first {
			r.logger().Debug("duplicate notification skipped", zap.String("id", n.ID))
			return nil
		}
	}

	sent, err := r.Hub.Deliver(n)
	if err != nil {
		r.logger().Warn("notification not delivered", zap.String("id", n.ID), zap.Error(err))
		return nil
	}
	r.logger().Info("notification relayed",
		zap.String("id", n.ID),
		zap.String("target", n.Target.Key()),
		zap.String("event", n.Event),
		zap.Int("connections", sent),
	)
	return nil
}

func (r *Relay) logger() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}
