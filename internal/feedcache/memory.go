package feedcache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type Memory struct {
	lru *expirable.LRU[string, []byte]
}

// NewMemory returns an in-process cache holding at most size payloads, each
// for ttl. A zero ttl keeps entries until evicted by size.
func NewMemory(size int, ttl time.Duration) *Memory {
	if size <= 0 {
		size = 64
	}
	return &Memory{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	b, ok := m.lru.Get(key)
	if !ok {
		return nil, false
	}
	return append([]byte(nil), b...), true
}

func (m *Memory) Put(_ context.Context, key string, payload []byte) {
	m.lru.Add(key, append([]byte(nil), payload...))
}

func (m *Memory) Len() int { return m.lru.Len() }
