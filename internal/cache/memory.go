package cache

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Memory is a process-wide in-memory cache. With a size of 0 it never
// evicts; with a positive size it keeps the most recently used entries.
type Memory struct {
	mu      sync.RWMutex
	entries map[Key]string
	lru     *lru.Cache[Key, string]
}

// NewMemory returns an unbounded cache for size ≤ 0, otherwise an LRU cache
// holding at most size entries.
func NewMemory(size int) *Memory {
	if size <= 0 {
		return &Memory{entries: make(map[Key]string)}
	}
	// lru.New only fails for non-positive sizes.
	l, _ := lru.New[Key, string](size)
	return &Memory{lru: l}
}

func (m *Memory) Get(_ context.Context, key Key) (string, bool, error) {
	if m.lru != nil {
		v, ok := m.lru.Get(key)
		return v, ok, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *Memory) Put(_ context.Context, key Key, translated string) error {
	if m.lru != nil {
		m.lru.Add(key, translated)
		return nil
	}
	m.mu.Lock()
	m.entries[key] = translated
	m.mu.Unlock()
	return nil
}

// Len returns the number of cached entries.
func (m *Memory) Len() int {
	if m.lru != nil {
		return m.lru.Len()
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
