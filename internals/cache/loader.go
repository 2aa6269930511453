package cache

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"golang.org/x/sync/singleflight"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/logger"
)

// Loader fronts a Store with read-through semantics. Concurrent misses for
// the same key share one load. Cache failures degrade to a direct load.
type Loader struct {
	Store Store
	TTL   time.Duration

	group singleflight.Group
}

func NewLoader(store Store, ttl time.Duration) *Loader {
	if store == nil {
		store = Nop{}
	}
	return &Loader{Store: store, TTL: ttl}
}

// Fetch returns the cached value for key or computes, stores and returns it.
// Values are stored as JSON. The namespace generation is read before the
// load, so a fill that races a write is stored under the old generation and
// never served after Invalidate returns.
func Fetch[T any](ctx context.Context, l *Loader, key Key, load func(context.Context) (T, error)) (T, error) {
	var zero T
	gen, err := l.Store.Generation(ctx, key.Namespace)
	if err != nil {
		logger.Logger.Warnw("cache generation failed", "namespace", string(key.Namespace), "error", err)
		return load(ctx)
	}
	key = key.at(gen)

	if raw, err := l.Store.Get(ctx, key); err == nil {
		var v T
		if err := sonic.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
		logger.Logger.Warnw("cache decode failed", "key", key.String())
	} else if !errors.Is(err, ErrMiss) {
		logger.Logger.Warnw("cache get failed", "key", key.String(), "error", err)
	}

	v, err, _ := l.group.Do(key.String(), func() (any, error) {
		v, err := load(ctx)
		if err != nil {
			return v, err
		}
		if raw, mErr := sonic.Marshal(v); mErr == nil {
			if sErr := l.Store.Set(ctx, key, raw, l.TTL); sErr != nil {
				logger.Logger.Warnw("cache set failed", "key", key.String(), "error", sErr)
			}
		}
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

// Invalidate retires every key in ns by bumping its generation. Failures are
// only logged; entries then expire by TTL.
func (l *Loader) Invalidate(ctx context.Context, ns Namespace) {
	if err := l.Store.Invalidate(ctx, ns); err != nil {
		logger.Logger.Warnw("cache invalidate failed", "namespace", string(ns), "error", err)
	}
}
