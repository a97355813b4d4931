package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/rshade/ecoscore/internal/logging"
)

// Common cache errors.
var (
	ErrCacheNotFound   = errors.New("cache entry not found")
	ErrCacheExpired    = errors.New("cache entry expired")
	ErrInvalidCacheKey = errors.New("cache key cannot be empty")
)

// ComputeFunc produces the value to cache on a miss.
type ComputeFunc func(ctx context.Context) (json.RawMessage, error)

// Store is the cache contract used by the API layer.
type Store interface {
	Get(key string) (*Entry, error)
	Set(key string, data json.RawMessage) error
	Delete(key string) error
	Clear() error

	// GetOrCompute returns the cached value for key, or runs compute,
	// stores its result and returns it. hit reports whether the value came
	// from the cache. Errors from compute are returned and never cached.
	GetOrCompute(ctx context.Context, key string, compute ComputeFunc) (data json.RawMessage, hit bool, err error)
}

// MemoryStore is an in-process TTL cache.
// Thread-safe for concurrent access.
type MemoryStore struct {
	// name labels the store in logs.
	name string

	// ttlSeconds is the TTL applied to new entries.
	ttlSeconds int

	entries map[string]*Entry
	mu      sync.RWMutex
	group   singleflight.Group

	// now is the clock; replaced in tests.
	now func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(name string, ttlSeconds int) *MemoryStore {
	return &MemoryStore{
		name:       name,
		ttlSeconds: ttlSeconds,
		entries:    make(map[string]*Entry),
		now:        time.Now,
	}
}

// Get retrieves a cache entry by key.
// Returns ErrCacheNotFound if the entry doesn't exist.
// Returns ErrCacheExpired if the entry has expired; the entry is removed.
func (s *MemoryStore) Get(key string) (*Entry, error) {
	if key == "" {
		return nil, ErrInvalidCacheKey
	}

	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrCacheNotFound
	}

	if entry.ExpiredAt(s.now()) {
		s.mu.Lock()
		// Re-check: a concurrent Set may have refreshed the entry.
		if current, still := s.entries[key]; still && current == entry {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, ErrCacheExpired
	}

	return entry, nil
}

// Set stores data under key, overwriting any existing entry.
func (s *MemoryStore) Set(key string, data json.RawMessage) error {
	if key == "" {
		return ErrInvalidCacheKey
	}

	entry := NewEntry(key, data, s.ttlSeconds, s.now())

	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()

	return nil
}

// Delete removes a cache entry by key.
// Returns nil if the entry doesn't exist (idempotent).
func (s *MemoryStore) Delete(key string) error {
	if key == "" {
		return ErrInvalidCacheKey
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()

	return nil
}

// Clear removes all cache entries from the store.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.entries = make(map[string]*Entry)
	s.mu.Unlock()
	return nil
}

// CleanupExpired removes all expired entries and returns how many were
// removed.
func (s *MemoryStore) CleanupExpired() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, entry := range s.entries {
		if entry.ExpiredAt(now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Count returns the number of cache entries (including expired ones).
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// GetTTL returns the TTL in seconds.
func (s *MemoryStore) GetTTL() int {
	return s.ttlSeconds
}

// GetOrCompute implements Store.
func (s *MemoryStore) GetOrCompute(
	ctx context.Context,
	key string,
	compute ComputeFunc,
) (json.RawMessage, bool, error) {
	log := logging.FromContext(ctx)

	if entry, err := s.Get(key); err == nil {
		log.Debug().
			Str("component", "cache").
			Str("cache", s.name).
			Str("key", key).
			Msg("cache hit")
		return entry.Data, true, nil
	} else if errors.Is(err, ErrInvalidCacheKey) {
		return nil, false, err
	}

	v, err, shared := s.group.Do(key, func() (any, error) {
		// A flight that finished just before this one may have stored it.
		if entry, getErr := s.Get(key); getErr == nil {
			return entry.Data, nil
		}
		// Followers share this result, so the leader's cancellation must not
		// abort it.
		data, computeErr := compute(context.WithoutCancel(ctx))
		if computeErr != nil {
			return nil, computeErr
		}
		_ = s.Set(key, data)
		return data, nil
	})
	if err != nil {
		return nil, false, err
	}

	log.Debug().
		Str("component", "cache").
		Str("cache", s.name).
		Str("key", key).
		Bool("shared", shared).
		Msg("cache miss")

	data, _ := v.(json.RawMessage)
	return data, false, nil
}

// StartJanitor removes expired entries every interval until ctx is done.
func (s *MemoryStore) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.CleanupExpired(); n > 0 {
					logging.FromContext(ctx).Debug().
						Str("component", "cache").
						Str("cache", s.name).
						Int("removed", n).
						Msg("expired cache entries removed")
				}
			}
		}
	}()
}

// NopStore never stores anything; every GetOrCompute computes.
type NopStore struct{}

// Get always reports ErrCacheNotFound.
func (NopStore) Get(string) (*Entry, error) { return nil, ErrCacheNotFound }

// Set discards data.
func (NopStore) Set(string, json.RawMessage) error { return nil }

// Delete is a no-op.
func (NopStore) Delete(string) error { return nil }

// Clear is a no-op.
func (NopStore) Clear() error { return nil }

// GetOrCompute always runs compute.
func (NopStore) GetOrCompute(ctx context.Context, _ string, compute ComputeFunc) (json.RawMessage, bool, error) {
	data, err := compute(ctx)
	return data, false, err
}
