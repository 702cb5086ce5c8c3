// Package cache memoises month-keyed view aggregates.
package cache

import (
	"log/slog"
	"sync"
	"time"
)

// Cache is a keyed cache whose writes are tied to a generation. A caller
// reads Generation before computing a value and passes it to Set, which
// drops the value if the cache was purged in between.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Generation() uint64
	Set(key string, data T, gen uint64) bool
}

// Cleaner is implemented by caches the Manager maintains.
type Cleaner interface {
	CleanExpired() int
	Purge()
	Size() int
	Stats() (hits, misses uint64)
}

// Stats aggregates the registered caches.
type Stats struct {
	Entries int
	Hits    uint64
	Misses  uint64
}

// Manager handles cache lifecycle: periodic expiry and bulk invalidation.
type Manager struct {
	mu          sync.Mutex
	caches      []Cleaner
	logger      *slog.Logger
	stopCleanup chan struct{}
	cleanupDone chan struct{}
	started     bool
}

func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		logger:      logger,
		stopCleanup: make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}
}

// Register adds a cache to the manager
func (m *Manager) Register(cache Cleaner) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.caches = append(m.caches, cache)
}

// InvalidateAll purges every registered cache.
func (m *Manager) InvalidateAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.caches {
		c.Purge()
	}
}

// CleanExpired removes expired entries from every registered cache.
func (m *Manager) CleanExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, c := range m.caches {
		total += c.CleanExpired()
	}
	return total
}

// Stats sums entry counts and lookup counters over the registered caches.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	var st Stats
	for _, c := range m.caches {
		hits, misses := c.Stats()
		st.Entries += c.Size()
		st.Hits += hits
		st.Misses += misses
	}
	return st
}

// StartCleanup begins periodic cleanup of all registered caches
func (m *Manager) StartCleanup(interval time.Duration) {
	m.mu.Lock()
	m.started = true
	m.mu.Unlock()
	go m.cleanup(interval)
}

func (m *Manager) cleanup(interval time.Duration) {
	defer close(m.cleanupDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := m.CleanExpired(); n > 0 {
				m.logger.Debug("Expired cache entries removed", "count", n)
			}
			st := m.Stats()
			m.logger.Debug("Cache stats", "entries", st.Entries, "hits", st.Hits, "misses", st.Misses)
		case <-m.stopCleanup:
			return
		}
	}
}

// Stop gracefully stops the cleanup routine
func (m *Manager) Stop() {
	m.mu.Lock()
	started := m.started
	m.started = false
	m.mu.Unlock()
	if started {
		close(m.stopCleanup)
		<-m.cleanupDone
	}
}
