// Package effectstest records cache evictions and notifications for tests.
package effectstest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ridemarket/marketplace/internal/effects"
)

// Call is one recorded notification.
type Call struct {
	Group   bool
	Target  string
	Event   string
	Payload any
}

// Recorder is an in-memory Notifier and Cache. Get always misses.
type Recorder struct {
	mu      sync.Mutex
	Calls   []Call
	Evicted []string
	Fail    bool
}

var errRecorder = errors.New("recorder: forced failure")

func (r *Recorder) NotifyUser(_ context.Context, identity, event string, payload any) error {
	return r.record(Call{Target: identity, Event: event, Payload: payload})
}

func (r *Recorder) NotifyGroup(_ context.Context, group, event string, payload any) error {
	return r.record(Call{Group: true, Target: group, Event: event, Payload: payload})
}

func (r *Recorder) record(c Call) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return errRecorder
	}
	r.Calls = append(r.Calls, c)
	return nil
}

func (r *Recorder) Get(context.Context, string, any) (bool, error) { return false, nil }

func (r *Recorder) Set(context.Context, string, any, time.Duration) error { return nil }

func (r *Recorder) Remove(_ context.Context, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Evicted = append(r.Evicted, keys...)
	return nil
}

// Events returns the recorded event names in order.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.Calls))
	for _, c := range r.Calls {
		out = append(out, c.Event)
	}
	return out
}

// Effects wires the recorder as both cache and notifier.
func (r *Recorder) Effects() effects.Effects {
	return effects.Effects{Cache: r, Notifier: r}
}
