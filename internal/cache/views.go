package cache

import (
	"time"

	"txboard/internal/core"
)

// Views groups the per-month aggregate caches. Keys are Month.String().
// Cached slices are shared and must not be modified by callers.
type Views struct {
	Statistics *LRUCache[core.Statistics]
	Histogram  *LRUCache[[]core.PriceBucket]
	Categories *LRUCache[[]core.CategoryCount]
}

// NewViews creates the aggregate caches and registers them with m.
func NewViews(m *Manager, size int, ttl time.Duration) *Views {
	v := &Views{
		Statistics: NewLRUCache[core.Statistics](size, ttl),
		Histogram:  NewLRUCache[[]core.PriceBucket](size, ttl),
		Categories: NewLRUCache[[]core.CategoryCount](size, ttl),
	}
	if m != nil {
		m.Register(v.Statistics)
		m.Register(v.Histogram)
		m.Register(v.Categories)
	}
	return v
}
