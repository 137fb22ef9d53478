// Package notify delivers post-commit notifications to users and groups.
// The API publishes to Kafka or RabbitMQ; the notifier binary relays them
// to websocket clients.
package notify

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ridemarket/marketplace/internal/marketplace"
)

func envelope(producer string, target marketplace.Target, event string, payload any) (marketplace.Notification, error) {
	n := marketplace.Notification{
		ID:         uuid.NewString(),
		Target:     target,
		Event:      event,
		OccurredAt: time.Now().UTC(),
		Producer:   producer,
	}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return n, fmt.Errorf("encode %s payload: %w", event, err)
		}
		n.Payload = b
	}
	return n, nil
}

func userTarget(identity string) marketplace.Target {
	return marketplace.Target{Kind: marketplace.TargetUser, Name: identity}
}

func groupTarget(group string) marketplace.Target {
	return marketplace.Target{Kind: marketplace.TargetGroup, Name: group}
}
