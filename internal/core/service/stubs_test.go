package service

import (
	"context"
	"errors"
	"sync"

	"github.com/lawyer4u/portal/internal/core/domain"
	"github.com/lawyer4u/portal/internal/core/ports"
)

var errStorageDown = errors.New("storage down")

// mapStorage is an in-memory ports.Storage with switchable failures.
type mapStorage struct {
	mu      sync.Mutex
	items   map[string]string
	failGet bool
	failSet bool
}

func newMapStorage() *mapStorage {
	return &mapStorage{items: make(map[string]string)}
}

func (m *mapStorage) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return "", false, errStorageDown
	}
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *mapStorage) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet {
		return errStorageDown
	}
	m.items[key] = value
	return nil
}

func (m *mapStorage) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

func (m *mapStorage) get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok
}

// stubBackend records calls and answers with the configured functions.
type stubBackend struct {
	registerFn func(ctx context.Context, fields domain.RegistrationFields) (*domain.Identity, error)
	loginFn    func(ctx context.Context, email, password string, role domain.Role) (*ports.LoginResult, error)

	loginCalls int
}

func (b *stubBackend) Register(ctx context.Context, fields domain.RegistrationFields) (*domain.Identity, error) {
	return b.registerFn(ctx, fields)
}

func (b *stubBackend) Login(ctx context.Context, email, password string, role domain.Role) (*ports.LoginResult, error) {
	b.loginCalls++
	return b.loginFn(ctx, email, password, role)
}

func (b *stubBackend) ListLawyers(context.Context) ([]domain.Lawyer, error) { return nil, nil }

func (b *stubBackend) Profile(context.Context, string, string) (*domain.Profile, error) {
	return nil, domain.ErrNotFound
}

func (b *stubBackend) UpdateProfile(context.Context, string, string, domain.ProfileUpdate) (*domain.Profile, error) {
	return nil, domain.ErrNotFound
}

func (b *stubBackend) ListAccounts(context.Context, string) ([]domain.Profile, error) {
	return nil, nil
}

func (b *stubBackend) ListLawyerProfiles(context.Context, string) ([]domain.Profile, error) {
	return nil, nil
}

func (b *stubBackend) VerifyLawyer(context.Context, string, string, string) (*domain.Profile, error) {
	return nil, domain.ErrNotFound
}

func (b *stubBackend) Ping(context.Context) error { return nil }

// blockingStorage parks GetItem until release is closed and then answers
// with value, whatever was written in between. Writes go to the map.
type blockingStorage struct {
	*mapStorage
	value   string
	entered chan struct{}
	release chan struct{}
}

func newBlockingStorage(value string) *blockingStorage {
	return &blockingStorage{
		mapStorage: newMapStorage(),
		value:      value,
		entered:    make(chan struct{}),
		release:    make(chan struct{}),
	}
}

func (b *blockingStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	close(b.entered)
	select {
	case <-b.release:
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
	if b.value == "" {
		return "", false, nil
	}
	return b.value, true, nil
}
