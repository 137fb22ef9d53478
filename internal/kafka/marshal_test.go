package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridemarket/marketplace/internal/marketplace"
)

func TestNotificationEnvelope(t *testing.T) {
	n := marketplace.Notification{
		ID:         "n-1",
		Target:     marketplace.Target{Kind: marketplace.TargetUser, Name: "drv@example.com"},
		Event:      marketplace.EventNewTrip,
		Payload:    json.RawMessage(`{"trip_id":7,"reference_id":3}`),
		OccurredAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Producer:   "api",
	}

	key, value, headers, err := EncodeNotification(n)
	require.NoError(t, err)
	assert.Equal(t, "user.drv@example.com", string(key))

	msg := kafka.Message{Key: key, Value: value, Headers: headers}
	assert.Equal(t, marketplace.EventNewTrip, Header(msg, HeaderEvent))
	assert.Equal(t, "", Header(msg, "missing"))

	got, err := DecodeNotification(value)
	require.NoError(t, err)
	assert.Equal(t, n.Target, got.Target)
	assert.True(t, n.OccurredAt.Equal(got.OccurredAt))

	p, err := UnwrapPayload[struct {
		TripID int64 `json:"trip_id"`
	}](got.Payload)
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.TripID)
}

func TestDecodeNotificationRejectsIncompleteEnvelope(t *testing.T) {
	_, err := DecodeNotification([]byte(`{"id":"x","event":"E"}`))
	assert.Error(t, err)

	_, err = DecodeNotification([]byte(`not json`))
	assert.Error(t, err)
}

func TestPublishAfterCloseFails(t *testing.T) {
	p := NewProducer([]string{"127.0.0.1:1"}, "notifications", 1, nil)
	p.Close()
	p.Close()
	err := p.Publish(t.Context(), []byte("k"), []byte("v"))
	assert.ErrorIs(t, err, ErrProducerClosed)
}
