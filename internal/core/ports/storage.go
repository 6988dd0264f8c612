package ports

import "context"

// Storage is the per-browser key-value store the shell keeps session state
// in. GetItem reports ok=false for a missing key; errors are reserved for
// storage failures.
type Storage interface {
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// StorageBackend hands out browser-scoped Storage views over one driver.
type StorageBackend interface {
	Scope(browserID string) Storage
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
