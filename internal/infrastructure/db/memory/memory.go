// Package memory keeps browser storage in process memory. Entries do not
// survive a restart; it is the default driver for development and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/lawyer4u/portal/internal/core/ports"
)

type entry struct {
	value     string
	updatedAt time.Time
}

// Backend holds every browser's entries in one map keyed by browser id.
// With a positive ttl, entries not written for ttl read as missing and are
// dropped by Sweep, matching the postgres driver.
type Backend struct {
	mu       sync.RWMutex
	browsers map[string]map[string]entry
	ttl      time.Duration
	now      func() time.Time
}

// New returns an empty in-memory backend whose entries never expire.
func New() *Backend {
	return NewWithTTL(0)
}

// NewWithTTL returns an empty in-memory backend expiring idle entries.
func NewWithTTL(ttl time.Duration) *Backend {
	return &Backend{
		browsers: make(map[string]map[string]entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Scope returns the storage view of one browser.
func (b *Backend) Scope(browserID string) ports.Storage {
	return &scope{backend: b, browserID: browserID}
}

func (b *Backend) Ping(context.Context) error  { return nil }
func (b *Backend) Close(context.Context) error { return nil }

// Sweep deletes expired entries and reports how many were removed.
func (b *Backend) Sweep(context.Context) (int64, error) {
	if b.ttl <= 0 {
		return 0, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	var removed int64
	for id, items := range b.browsers {
		for key, e := range items {
			if b.expired(e) {
				delete(items, key)
				removed++
			}
		}
		if len(items) == 0 {
			delete(b.browsers, id)
		}
	}
	return removed, nil
}

func (b *Backend) expired(e entry) bool {
	return b.ttl > 0 && b.now().Sub(e.updatedAt) >= b.ttl
}

type scope struct {
	backend   *Backend
	browserID string
}

func (s *scope) GetItem(_ context.Context, key string) (string, bool, error) {
	s.backend.mu.RLock()
	defer s.backend.mu.RUnlock()
	e, ok := s.backend.browsers[s.browserID][key]
	if !ok || s.backend.expired(e) {
		return "", false, nil
	}
	return e.value, true, nil
}

func (s *scope) SetItem(_ context.Context, key, value string) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	items, ok := s.backend.browsers[s.browserID]
	if !ok {
		items = make(map[string]entry)
		s.backend.browsers[s.browserID] = items
	}
	items[key] = entry{value: value, updatedAt: s.backend.now()}
	return nil
}

func (s *scope) RemoveItem(_ context.Context, key string) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	items := s.backend.browsers[s.browserID]
	delete(items, key)
	if len(items) == 0 {
		delete(s.backend.browsers, s.browserID)
	}
	return nil
}
