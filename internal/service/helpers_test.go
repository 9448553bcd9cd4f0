package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/rs/zerolog"
)

var errStorage = errors.New("storage error")

func testContext() context.Context {
	l := zerolog.Nop()
	return l.WithContext(context.Background())
}

// memRevocationStore is an in-memory store with the atomicity guarantees of
// the Redis one.
type memRevocationStore struct {
	mu      sync.Mutex
	entries map[string]memEntry
	now     func() time.Time
	down    bool
}

type memEntry struct {
	value     string
	expiresAt time.Time
}

func newMemRevocationStore(now func() time.Time) *memRevocationStore {
	return &memRevocationStore{entries: make(map[string]memEntry), now: now}
}

func (s *memRevocationStore) lookup(key string) (memEntry, bool) {
	e, ok := s.entries[key]
	if !ok {
		return memEntry{}, false
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return memEntry{}, false
	}
	return e, true
}

func (s *memRevocationStore) Put(_ context.Context, key, value string, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down || ttl <= 0 {
		return false
	}
	s.entries[key] = memEntry{value: value, expiresAt: s.now().Add(ttl)}
	return true
}

func (s *memRevocationStore) Get(_ context.Context, key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return "", false
	}
	e, ok := s.lookup(key)
	return e.value, ok
}

func (s *memRevocationStore) Delete(_ context.Context, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return false
	}
	_, ok := s.lookup(key)
	delete(s.entries, key)
	return ok
}

func (s *memRevocationStore) Exists(ctx context.Context, key string) bool {
	_, ok := s.Get(ctx, key)
	return ok
}

func (s *memRevocationStore) Increment(_ context.Context, key string, ttl time.Duration) (int64, bool) {
	panic("not used")
}

func (s *memRevocationStore) GetAndDelete(_ context.Context, key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return "", false
	}
	e, ok := s.lookup(key)
	delete(s.entries, key)
	return e.value, ok
}

func (s *memRevocationStore) keysWithPrefix(prefix string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for k := range s.entries {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			keys = append(keys, k)
		}
	}
	return keys
}

func nopLogger() *logger.Logger {
	return logger.Nop()
}
