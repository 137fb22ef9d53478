package effects_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ridemarket/marketplace/internal/effects"
	"github.com/ridemarket/marketplace/internal/effects/effectstest"
)

func TestEffectsSwallowFailures(t *testing.T) {
	rec := &effectstest.Recorder{Fail: true}
	fx := rec.Effects()
	fx.NotifyUser(context.Background(), "a@x.io", "Ping", nil)
	fx.NotifyGroup(context.Background(), "Admins", "Ping", nil)
	assert.Empty(t, rec.Calls)
}

func TestEffectsNilCollaborators(t *testing.T) {
	var fx effects.Effects
	fx.Evict(context.Background(), "k")
	fx.NotifyUser(context.Background(), "a@x.io", "Ping", nil)
	fx.NotifyGroup(context.Background(), "Admins", "Ping", nil)
}

func TestEvictRecords(t *testing.T) {
	rec := &effectstest.Recorder{}
	rec.Effects().Evict(context.Background(), "a", "b")
	assert.Equal(t, []string{"a", "b"}, rec.Evicted)
}
