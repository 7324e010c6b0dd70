package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJanitorSweepsOrphanedGenerations(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	s := NewStore(Options{
		StaleAfter: 5 * time.Minute,
		GCAfter:    10 * time.Minute,
		Now:        func() time.Time { return now },
	})
	defer s.Close()

	key := DetailKey("products", 7)
	s.Set(key, "value")
	s.Remove(key)

	hasGen := func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		_, ok := s.gens[key.String()]
		return ok
	}
	require.True(t, hasGen())

	// Inside the GC window the generation survives: a fetch started just
	// before the Remove could still reference it.
	now = now.Add(5 * time.Minute)
	s.evictExpired()
	assert.True(t, hasGen())

	now = now.Add(6 * time.Minute)
	s.evictExpired()
	assert.False(t, hasGen())
}

func TestJanitorKeepsGenerationsWithLiveEntries(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	s := NewStore(Options{
		StaleAfter: 5 * time.Minute,
		GCAfter:    10 * time.Minute,
		Now:        func() time.Time { return now },
	})
	defer s.Close()

	key := DetailKey("products", 3)
	s.Set(key, "old")
	now = now.Add(11 * time.Minute)
	s.Set(key, "new")

	s.evictExpired()

	s.mu.Lock()
	_, entryLive := s.entries[key.String()]
	_, genLive := s.gens[key.String()]
	s.mu.Unlock()
	assert.True(t, entryLive)
	assert.True(t, genLive)
}
