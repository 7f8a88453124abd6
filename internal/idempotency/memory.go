package idempotency

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	id        int64
	expiresAt time.Time
}

type MemoryStore struct {
	mu   sync.Mutex
	keys map[string]entry
	ttl  time.Duration
	now  func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		keys: make(map[string]entry),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.keys[key]
	if !ok {
		return 0, ErrNotFound
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.keys, key)
		return 0, ErrNotFound
	}
	return e.id, nil
}

func (s *MemoryStore) Save(_ context.Context, key string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.keys[key]; ok && now.Before(e.expiresAt) {
		return nil
	}
	s.keys[key] = entry{id: id, expiresAt: now.Add(s.ttl)}
	return nil
}
