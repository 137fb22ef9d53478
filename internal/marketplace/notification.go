package marketplace

import (
	"encoding/json"
	"time"
)

type TargetKind string

const (
	TargetUser  TargetKind = "user"
	TargetGroup TargetKind = "group"
)

type Target struct {
	Kind TargetKind `json:"kind"`
	Name string     `json:"name"`
}

// Key is the partition/routing key for the target, e.g. "user.a@b.c".
func (t Target) Key() string { return string(t.Kind) + "." + t.Name }

// Notification is the envelope carried by every push backend.
type Notification struct {
	ID         string          `json:"id"`
	Target     Target          `json:"target"`
	Event      string          `json:"event"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
	Producer   string          `json:"producer"`
}
