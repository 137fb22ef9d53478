package httpx

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// cached serves key from the cache or fills it from load. Cache failures
// fall through to load.
func cached[T any](ctx context.Context, a *API, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if a.Cache != nil {
		var v T
		ok, err := a.Cache.Get(ctx, key, &v)
		if err != nil {
			a.Log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			return v, nil
		}
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if a.Cache != nil {
		if err := a.Cache.Set(ctx, key, v, ttl); err != nil {
			a.Log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		}
	}
	return v, nil
}
