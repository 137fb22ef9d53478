package kafka

import (
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/ridemarket/marketplace/internal/marketplace"
)

const (
	HeaderEvent  = "event"
	HeaderTarget = "target"
)

// EncodeNotification returns the partition key, value and headers for n.
// Keying by target keeps one recipient's notifications in order.
func EncodeNotification(n marketplace.Notification) (key, value []byte, headers []kafka.Header, err error) {
	value, err = json.Marshal(n)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("encode notification: %w", err)
	}
	key = []byte(n.Target.Key())
	headers = []kafka.Header{
		{Key: HeaderEvent, Value: []byte(n.Event)},
		{Key: HeaderTarget, Value: key},
	}
	return key, value, headers, nil
}

func DecodeNotification(b []byte) (marketplace.Notification, error) {
	var n marketplace.Notification
	if err := json.Unmarshal(b, &n); err != nil {
		return n, fmt.Errorf("decode notification: %w", err)
	}
	if n.ID == "" || n.Target.Name == "" || n.Event == "" {
		return n, fmt.Errorf("decode notification: incomplete envelope")
	}
	return n, nil
}

// UnwrapPayload decodes a specific payload type.
func UnwrapPayload[T any](payload json.RawMessage) (T, error) {
	var t T
	if err := json.Unmarshal(payload, &t); err != nil {
		return t, fmt.Errorf("decode payload: %w", err)
	}
	return t, nil
}

func Header(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
