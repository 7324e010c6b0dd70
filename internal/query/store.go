// Package query implements the shared read cache between the gateway's
// feature services and the upstream REST backend: stale-while-revalidate
// freshness, bounded retries on server failures, request collapsing, and
// mutation-driven invalidation.
package query

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mercadito-pos/mercadito-pos/internal/backend"
)

// FetchFunc loads the value for a key from the upstream.
type FetchFunc func(ctx context.Context) (any, error)

// Options configure a Store. Zero fields fall back to defaults.
type Options struct {
	// StaleAfter is how long a cached value is served without revalidation.
	StaleAfter time.Duration
	// GCAfter is how long an unobserved entry is retained.
	GCAfter time.Duration
	// MaxAttempts bounds fetch attempts for retryable failures.
	MaxAttempts int
	// Backoff is the base delay between attempts, multiplied linearly.
	Backoff time.Duration
	// Logger receives background revalidation failures.
	Logger *slog.Logger
	// Now overrides the clock, for tests.
	Now func() time.Time
}

const (
	defaultStaleAfter  = 5 * time.Minute
	defaultGCAfter     = 10 * time.Minute
	defaultMaxAttempts = 3
	defaultBackoff     = 500 * time.Millisecond
)

type entry struct {
	key      Key
	value    any
	staleAt  time.Time
	lastSeen time.Time
}

// generation fences one key: a fetch commits only under the generation it
// observed when it started.
type generation struct {
	n      uint64
	bumped time.Time
}

// Store is the process-wide query cache. It is safe for concurrent use;
// construct one per application and share it across services.
type Store struct {
	opts  Options
	now   func() time.Time
	group singleflight.Group

	mu      sync.Mutex
	entries map[string]*entry
	// gens outlives entries so a fetch started before a mutation can never
	// resurrect superseded state. The janitor sweeps a generation once its
	// key has been entry-less for a full GC window.
	gens map[string]*generation
	// listEpochs fences list fetches per entity. Invalidation must beat an
	// in-flight list load even for a filter qualifier that has never been
	// cached, where no per-key generation exists yet.
	listEpochs map[string]uint64

	janitorStop chan struct{}
	janitorOnce sync.Once
}

// NewStore constructs a Store and starts its eviction janitor.
func NewStore(opts Options) *Store {
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = defaultStaleAfter
	}
	if opts.GCAfter <= 0 {
		opts.GCAfter = defaultGCAfter
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.Backoff <= 0 {
		opts.Backoff = defaultBackoff
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	s := &Store{
		opts:        opts,
		now:         now,
		entries:     make(map[string]*entry),
		gens:        make(map[string]*generation),
		listEpochs:  make(map[string]uint64),
		janitorStop: make(chan struct{}),
	}
	go s.janitor()
	return s
}

// Close stops the eviction janitor.
func (s *Store) Close() {
	s.janitorOnce.Do(func() { close(s.janitorStop) })
}

func (s *Store) janitor() {
	interval := s.opts.GCAfter / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.janitorStop:
			return
		case <-ticker.C:
			s.evictExpired()
		}
	}
}

func (s *Store) evictExpired() {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for ck, e := range s.entries {
		if now.After(e.lastSeen.Add(s.opts.GCAfter)) {
			delete(s.entries, ck)
		}
	}
	// A generation without an entry is only still needed by a fetch that is
	// currently in flight, and no fetch lasts a full GC window.
	for ck, g := range s.gens {
		if _, live := s.entries[ck]; !live && now.After(g.bumped.Add(s.opts.GCAfter)) {
			delete(s.gens, ck)
		}
	}
}

// genLocked and bumpLocked require s.mu to be held.

func (s *Store) genLocked(ck string) uint64 {
	if g := s.gens[ck]; g != nil {
		return g.n
	}
	return 0
}

func (s *Store) bumpLocked(ck string) {
	g := s.gens[ck]
	if g == nil {
		g = &generation{}
		s.gens[ck] = g
	}
	g.n++
	g.bumped = s.now()
}

// Get reads a key, delegating to fn on a miss. A fresh entry is returned
// without touching the network. A stale entry is returned immediately and
// revalidated in the background. Concurrent misses for the same key
// collapse into one upstream request.
func (s *Store) Get(ctx context.Context, key Key, fn FetchFunc) (any, error) {
	ck := key.String()

	s.mu.Lock()
	gen := s.genLocked(ck)
	epoch := s.listEpochs[key.Entity]
	if e, ok := s.entries[ck]; ok {
		now := s.now()
		e.lastSeen = now
		value := e.value
		stale := now.After(e.staleAt)
		s.mu.Unlock()
		if stale {
			s.revalidate(key, gen, epoch, fn)
		}
		return value, nil
	}
	s.mu.Unlock()

	return s.fetch(ctx, key, gen, epoch, fn)
}

// fetch loads the key through singleflight and commits the result under
// the generation and list epoch observed before the load started.
func (s *Store) fetch(ctx context.Context, key Key, gen, epoch uint64, fn FetchFunc) (any, error) {
	ck := key.String()
	ch := s.group.DoChan(ck, func() (any, error) {
		value, err := s.fetchWithRetry(context.WithoutCancel(ctx), fn)
		if err != nil {
			return nil, err
		}
		s.commit(key, gen, epoch, value)
		return value, nil
	})
	select {
	case <-ctx.Done():
		// The shared load keeps running and may still fill the cache for a
		// future observer.
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

// revalidate refreshes a stale entry without blocking the reader.
func (s *Store) revalidate(key Key, gen, epoch uint64, fn FetchFunc) {
	ck := key.String()
	go func() {
		_, err, _ := s.group.Do("revalidate:"+ck, func() (any, error) {
			value, err := s.fetchWithRetry(context.Background(), fn)
			if err != nil {
				return nil, err
			}
			s.commit(key, gen, epoch, value)
			return value, nil
		})
		if err != nil && s.opts.Logger != nil {
			s.opts.Logger.Warn("background revalidation failed",
				slog.String("key", ck),
				slog.Any("error", err))
		}
	}()
}

// fetchWithRetry applies the retry policy: upstream 4xx responses are
// terminal, everything else is retried with linear backoff.
func (s *Store) fetchWithRetry(ctx context.Context, fn FetchFunc) (any, error) {
	var lastErr error
	for attempt := 1; attempt <= s.opts.MaxAttempts; attempt++ {
		value, err := fn(ctx)
		if err == nil {
			return value, nil
		}
		lastErr = err

		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.IsClientError() {
			return nil, err
		}
		if attempt == s.opts.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.opts.Backoff * time.Duration(attempt)):
		}
	}
	return nil, lastErr
}

// commit writes a fetched value unless the key moved on while the fetch
// was in flight. Completion order is logical, not network arrival order.
func (s *Store) commit(key Key, gen, epoch uint64, value any) {
	ck := key.String()
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.genLocked(ck) != gen {
		return
	}
	if key.Scope == ScopeList && s.listEpochs[key.Entity] != epoch {
		return
	}
	s.entries[ck] = &entry{
		key:      key,
		value:    value,
		staleAt:  now.Add(s.opts.StaleAfter),
		lastSeen: now,
	}
}

// Set eagerly writes a value, superseding any in-flight fetch for the key.
// Mutation paths use it to seed detail slots from upstream responses.
func (s *Store) Set(key Key, value any) {
	ck := key.String()
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bumpLocked(ck)
	s.entries[ck] = &entry{
		key:      key,
		value:    value,
		staleAt:  now.Add(s.opts.StaleAfter),
		lastSeen: now,
	}
}

// Remove drops a key entirely; the next read refetches.
func (s *Store) Remove(key Key) {
	ck := key.String()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bumpLocked(ck)
	delete(s.entries, ck)
}

// InvalidateLists drops every list entry of an entity, qualified or not.
func (s *Store) InvalidateLists(entity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// The epoch bump fences every list fetch of the entity, including ones
	// in flight for filter qualifiers that were never cached.
	s.listEpochs[entity]++
	for ck, e := range s.entries {
		if e.key.Entity == entity && e.key.Scope == ScopeList {
			delete(s.entries, ck)
		}
	}
}

// Len reports the number of live entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Fetch is the typed read path over Store.Get.
func Fetch[T any](ctx context.Context, s *Store, key Key, fn func(ctx context.Context) (T, error)) (T, error) {
	value, err := s.Get(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		var zero T
		return zero, nil
	}
	return typed, nil
}
