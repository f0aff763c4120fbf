package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Store is an in-process TTL cache for repository reads. Concurrent misses on
// one key share a single load. Invalidate drops every entry, and a load that
// was already running when Invalidate was called does not repopulate it.
type Store struct {
	ttl time.Duration
	now func() time.Time

	mu         sync.Mutex
	entries    map[string]entry
	generation uint64

	flight singleflight.Group
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

func (s *Store) lookup(key string) (any, uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if ok && s.ttl > 0 && !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		ok = false
	}
	return e.value, s.generation, ok
}

// store keeps value only if no Invalidate happened since generation was read.
func (s *Store) store(key string, value any, generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		return
	}
	e := entry{value: value}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	s.entries[key] = e
}

// Invalidate empties the store.
func (s *Store) Invalidate(context.Context) error {
	s.mu.Lock()
	s.entries = make(map[string]entry)
	s.generation++
	s.mu.Unlock()
	return nil
}

// Len reports the number of entries, expired ones included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) getOrLoad(ctx context.Context, key string, load func(context.Context) (any, error), _ func([]byte) (any, error)) (any, error) {
	if cached, _, ok := s.lookup(key); ok {
		return cached, nil
	}

	// the flight key carries the generation so a load started before an
	// Invalidate is never shared with callers that arrive after it
	_, generation, _ := s.lookup(key)
	flightKey := strconv.FormatUint(generation, 10) + "/" + key
	value, err, _ := s.flight.Do(flightKey, func() (any, error) {
		if cached, _, ok := s.lookup(key); ok {
			return cached, nil
		}
		loaded, err := load(ctx)
		if err != nil {
			return nil, err
		}
		s.store(key, loaded, generation)
		return loaded, nil
	})
	return value, err
}
