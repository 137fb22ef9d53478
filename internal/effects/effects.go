// Package effects runs the work that follows a committed transaction:
// evicting cache keys and pushing notifications. Neither can fail the
// operation that triggered it; errors are logged and dropped.
package effects

import (
	"context"

	"github.com/ridemarket/marketplace/internal/marketplace"
	"go.uber.org/zap"
)

type Effects struct {
	Cache    marketplace.Cache
	Notifier marketplace.Notifier
	Log      *zap.Logger
}

func (e Effects) Logger() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}

func (e Effects) Evict(ctx context.Context, keys ...string) {
	if e.Cache == nil || len(keys) == 0 {
		return
	}
	if err := e.Cache.Remove(ctx, keys...); err != nil {
		e.Logger().Warn("cache evict failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func (e Effects) NotifyUser(ctx context.Context, identity, event string, payload any) {
	if e.Notifier == nil || identity == "" {
		return
	}
	if err := e.Notifier.NotifyUser(ctx, identity, event, payload); err != nil {
		e.Logger().Warn("notify user failed",
			zap.String("identity", identity),
			zap.String("event", event),
			zap.Error(err),
		)
	}
}

func (e Effects) NotifyGroup(ctx context.Context, group, event string, payload any) {
	if e.Notifier == nil {
		return
	}
	if err := e.Notifier.NotifyGroup(ctx, group, event, payload); err != nil {
		e.Logger().Warn("notify group failed",
			zap.String("group", group),
			zap.String("event", event),
			zap.Error(err),
		)
	}
}
