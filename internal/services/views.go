package services

import (
	"context"

	"txboard/internal/cache"
	"txboard/internal/core"
	applog "txboard/internal/log"
)

// View names used for cache metrics and logs.
const (
	ViewStatistics = "statistics"
	ViewHistogram  = "histogram"
	ViewCategories = "categories"
)

// CacheObserver is notified of every view cache lookup.
type CacheObserver interface {
	ObserveCache(view string, hit bool)
}

// monthView memoises one month-keyed aggregate. A nil cache disables it.
type monthView[T any] struct {
	name     string
	cache    cache.Cache[T]
	observer CacheObserver
}

func (v monthView[T]) load(ctx context.Context, m core.Month, compute func(context.Context, core.DateRange) (T, error)) (T, error) {
	key := m.String()
	var gen uint64
	if v.cache != nil {
		gen = v.cache.Generation()
		data, found := v.cache.Get(key)
		if v.observer != nil {
			v.observer.ObserveCache(v.name, found)
		}
		if found {
			applog.FromContext(ctx).WithComponent(applog.ComponentQuery).
				DebugContext(ctx, "View cache hit", "view", v.name, applog.FieldMonth, key)
			return data, nil
		}
	}

	data, err := compute(ctx, m.Range())
	if err != nil {
		return data, err
	}

	// A purge while computing means data may predate the latest seed.
	if v.cache != nil && !v.cache.Set(key, data, gen) {
		applog.FromContext(ctx).WithComponent(applog.ComponentQuery).
			DebugContext(ctx, "View cache invalidated during compute, result not cached", "view", v.name, applog.FieldMonth, key)
	}
	return data, nil
}
