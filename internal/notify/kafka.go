package notify

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/ridemarket/marketplace/internal/kafka"
	"github.com/ridemarket/marketplace/internal/marketplace"
	"github.com/ridemarket/marketplace/internal/metrics"
)

type publisher interface {
	Publish(ctx context.Context, key, value []byte, headers ...kafkago.Header) error
}

// KafkaNotifier writes notification envelopes to the notifications topic.
type KafkaNotifier struct {
	Producer publisher
	Service  string
	Log      *zap.Logger
}

var _ marketplace.Notifier = (*KafkaNotifier)(nil)

func (k *KafkaNotifier) NotifyUser(ctx context.Context, identity, event string, payload any) error {
	return k.publish(ctx, userTarget(identity), event, payload)
}

func (k *KafkaNotifier) NotifyGroup(ctx context.Context, group, event string, payload any) error {
	return k.publish(ctx, groupTarget(group), event, payload)
}

func (k *KafkaNotifier) publish(ctx context.Context, target marketplace.Target, event string, payload any) error {
	n, err := envelope(k.Service, target, event, payload)
	if err != nil {
		return err
	}
	key, value, headers, err := kafka.EncodeNotification(n)
	if err != nil {
		return err
	}
	if err := k.Producer.Publish(ctx, key, value, headers...); err != nil {
		return err
	}
	metrics.NotificationsPublished.WithLabelValues("kafka", string(target.Kind)).Inc()
	if k.Log != nil {
		k.Log.Debug("notification queued",
			zap.String("id", n.ID),
			zap.String("target", target.Key()),
			zap.String("event", event),
		)
	}
	return nil
}
