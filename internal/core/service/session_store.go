package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/lawyer4u/portal/internal/core/domain"
	"github.com/lawyer4u/portal/internal/core/ports"
	"github.com/lawyer4u/portal/internal/metrics"
)

// Storage keys owned by the session store.
const (
	IdentityKey    = "user"
	AccessTokenKey = "authToken"
)

// SessionStore is the single source of truth for who is logged in within one
// browser. It is created per page load, restored once, mutated by the auth
// gateway and disposed when the view goes away.
type SessionStore struct {
	storage ports.Storage
	log     zerolog.Logger

	mu      sync.RWMutex
	session domain.Session
	subs    map[int]func(domain.Session)
	nextSub int
	// written is set when SetIdentity runs before the restore resolves; the
	// written identity then wins over whatever the restore reads.
	written bool

	// writeMu orders identity writes to storage so memory and storage agree
	// on the last write.
	writeMu sync.Mutex

	restoreOnce sync.Once
	ready       chan struct{}
}

// NewSessionStore returns a store in the initializing state.
func NewSessionStore(storage ports.Storage, log zerolog.Logger) *SessionStore {
	return &SessionStore{
		storage: storage,
		log:     log,
		session: domain.Session{Status: domain.StatusInitializing},
		subs:    make(map[int]func(domain.Session)),
		ready:   make(chan struct{}),
	}
}

// Restore loads the persisted identity. It runs at most once and never
// fails: missing, corrupted or unreadable data all resolve to a session
// without identity.
func (s *SessionStore) Restore(ctx context.Context) {
	s.restoreOnce.Do(func() {
		var restored *domain.Identity
		defer func() { s.resolve(restored) }()

		raw, ok, err := s.storage.GetItem(ctx, IdentityKey)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Msg("session restore: storage unavailable, continuing logged out")
			metrics.SessionRestoreTotal.WithLabelValues("storage_error").Inc()
			return
		case !ok:
			metrics.SessionRestoreTotal.WithLabelValues("empty").Inc()
			return
		}

		var id domain.Identity
		if err := json.Unmarshal([]byte(raw), &id); err != nil {
			s.log.Warn().
				Err(errors.Join(domain.ErrStorageCorruption, err)).
				Msg("session restore: discarding corrupted identity")
			metrics.SessionRestoreTotal.WithLabelValues("corrupted").Inc()
			s.discardCorrupted(ctx)
			return
		}

		metrics.SessionRestoreTotal.WithLabelValues("identity").Inc()
		restored = &id
	})
}

// discardCorrupted removes the unreadable record unless an identity was
// written meanwhile.
func (s *SessionStore) discardCorrupted(ctx context.Context) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	written := s.written
	s.mu.RUnlock()
	if written {
		return
	}
	if err := s.storage.RemoveItem(ctx, IdentityKey); err != nil {
		s.log.Warn().Err(err).Msg("session restore: failed to remove corrupted identity")
	}
}

// resolve moves the session to ready. Called exactly once per store.
func (s *SessionStore) resolve(id *domain.Identity) {
	s.mu.Lock()
	if s.written {
		id = s.session.Identity
	}
	s.session = domain.Session{Status: domain.StatusReady, Identity: id}
	snapshot := s.session
	subs := s.subscribersLocked()
	s.mu.Unlock()

	close(s.ready)
	notify(subs, snapshot)
}

// Ready is closed once Restore has resolved.
func (s *SessionStore) Ready() <-chan struct{} { return s.ready }

// Session returns the current snapshot.
func (s *SessionStore) Session() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// SetIdentity replaces the current identity and mirrors it to storage. A nil
// identity logs the browser out and forgets the backend credential. Storage
// failures are logged; the in-memory session is updated regardless. A write
// made while the restore is still running is kept when the restore resolves.
func (s *SessionStore) SetIdentity(ctx context.Context, id *domain.Identity) {
	var stored *domain.Identity
	if id != nil {
		cp := *id
		stored = &cp
	}

	s.writeMu.Lock()
	s.mu.Lock()
	status := s.session.Status
	if status == domain.StatusInitializing {
		s.written = true
	}
	s.session = domain.Session{Status: status, Identity: stored}
	snapshot := s.session
	subs := s.subscribersLocked()
	s.mu.Unlock()

	s.persist(ctx, stored)
	s.writeMu.Unlock()
	notify(subs, snapshot)
}

func (s *SessionStore) persist(ctx context.Context, id *domain.Identity) {
	if id == nil {
		for _, key := range []string{IdentityKey, AccessTokenKey} {
			if err := s.storage.RemoveItem(ctx, key); err != nil {
				s.log.Warn().Err(err).Str("key", key).Msg("session: failed to clear storage")
			}
		}
		return
	}

	raw, err := json.Marshal(id)
	if err != nil {
		s.log.Error().Err(err).Msg("session: failed to encode identity")
		return
	}
	if err := s.storage.SetItem(ctx, IdentityKey, string(raw)); err != nil {
		s.log.Warn().Err(err).Msg("session: failed to persist identity")
	}
}

// SetAccessToken stores the backend credential issued at login.
func (s *SessionStore) SetAccessToken(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := s.storage.SetItem(ctx, AccessTokenKey, token); err != nil {
		s.log.Warn().Err(err).Msg("session: failed to persist access token")
	}
}

// AccessToken returns the stored backend credential, or "" when none.
func (s *SessionStore) AccessToken(ctx context.Context) string {
	token, ok, err := s.storage.GetItem(ctx, AccessTokenKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("session: failed to read access token")
		return ""
	}
	if !ok {
		return ""
	}
	return token
}

// Subscribe registers fn to receive every new snapshot. The returned func
// cancels the subscription.
func (s *SessionStore) Subscribe(fn func(domain.Session)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Dispose drops all subscribers. Writes after Dispose are still applied to
// storage; only view-local listeners go away.
func (s *SessionStore) Dispose() {
	s.mu.Lock()
	s.subs = make(map[int]func(domain.Session))
	s.mu.Unlock()
}

func (s *SessionStore) subscribersLocked() []func(domain.Session) {
	out := make([]func(domain.Session), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

func notify(subs []func(domain.Session), snapshot domain.Session) {
	for _, fn := range subs {
		fn(snapshot)
	}
}
