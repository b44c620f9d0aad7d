package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/iwvelando/ratewise/pkg/constants"
)

// Memory is a process-local LRU cache bounded by entry count. Entries expire
// after the TTL and are reclaimed in the background; a zero TTL keeps them
// until they are evicted by size.
type Memory struct {
	lru *expirable.LRU[string, []byte]
}

// NewMemory returns an empty in-memory cache holding at most maxEntries
// results. A non-positive maxEntries uses the default bound.
func NewMemory(maxEntries int, ttl time.Duration) *Memory {
	if maxEntries <= 0 {
		maxEntries = constants.DefaultCacheMaxEntries
	}
	return &Memory{lru: expirable.NewLRU[string, []byte](maxEntries, nil, ttl)}
}

// Get returns a copy of the stored value.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, ok := m.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.lru.Add(key, append([]byte(nil), value...))
	return nil
}

// Len reports the number of stored entries not yet reclaimed.
func (m *Memory) Len() int {
	return m.lru.Len()
}

func (m *Memory) Close() error {
	m.lru.Purge()
	return nil
}
