package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const sweepInterval = 5 * time.Minute

// MemoryStore is an in-process TTL store. Expired entries are rejected on
// read and garbage-collected by a background sweep.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]memoryEntry

	done chan struct{}
	once sync.Once
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryStore creates an in-memory store and starts its sweep loop.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		data: make(map[string]memoryEntry),
		done: make(chan struct{}),
	}
	go s.sweep()
	return s
}

// Get returns the value for key, or ErrMiss if absent or expired.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	entry, ok := s.data[key]
	s.mu.RUnlock()

	if !ok || !time.Now().Before(entry.expiresAt) {
		return nil, ErrMiss
	}
	return entry.value, nil
}

// Set stores value under key for ttl.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive, got %v", ttl)
	}
	s.mu.Lock()
	s.data[key] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

// Delete removes key.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

// Clear removes every entry.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.data = make(map[string]memoryEntry)
	s.mu.Unlock()
	return nil
}

// Close stops the sweep loop. Safe to call more than once.
func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}

// Len returns the current number of entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// sweep periodically drops expired entries so an idle process does not hold
// dead values until their keys are looked up again.
func (s *MemoryStore) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for key, entry := range s.data {
				if !now.Before(entry.expiresAt) {
					delete(s.data, key)
				}
			}
			s.mu.Unlock()
		}
	}
}
