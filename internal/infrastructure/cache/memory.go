package cache

import (
	"sync"
	"time"
)

// MemoryStore remembers keys for a limited time. The folder watcher uses it
// to ignore repeated filesystem events for a file it already submitted.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]time.Time
	stop  chan struct{}
	once  sync.Once
}

// NewMemoryStore creates a store and starts its cleanup loop
func NewMemoryStore(cleanupEvery time.Duration) *MemoryStore {
	if cleanupEvery <= 0 {
		cleanupEvery = 5 * time.Minute
	}
	store := &MemoryStore{
		items: make(map[string]time.Time),
		stop:  make(chan struct{}),
	}

	go store.cleanupExpired(cleanupEvery)

	return store
}

// Claim records key for ttl and reports whether it was not already held
func (ms *MemoryStore) Claim(key string, ttl time.Duration) bool {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()
	if expires, ok := ms.items[key]; ok && now.Before(expires) {
		return false
	}
	ms.items[key] = now.Add(ttl)
	return true
}

// Release forgets key so it can be claimed again
func (ms *MemoryStore) Release(key string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.items, key)
}

// Len returns the number of keys currently held, expired ones included
func (ms *MemoryStore) Len() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.items)
}

// Close stops the cleanup loop
func (ms *MemoryStore) Close() {
	ms.once.Do(func() { close(ms.stop) })
}

func (ms *MemoryStore) cleanupExpired(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ms.stop:
			return
		case <-ticker.C:
			ms.evict(time.Now())
		}
	}
}

func (ms *MemoryStore) evict(now time.Time) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	for key, expires := range ms.items {
		if now.After(expires) {
			delete(ms.items, key)
		}
	}
}
