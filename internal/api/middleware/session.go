package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/lawyer4u/portal/internal/core/ports"
	"github.com/lawyer4u/portal/internal/core/service"
)

const (
	storageKey = "browser_storage"
	sessionKey = "session_store"

	// restoreTimeout bounds a restore that outlives its request.
	restoreTimeout = 30 * time.Second
)

// SessionConfig configures the Session middleware.
type SessionConfig struct {
	Storage ports.StorageBackend
	// RestoreWait is how long a GET waits for the restore before the page is
	// rendered in its loading state.
	RestoreWait time.Duration
	Log         zerolog.Logger
}

// Session creates the request's session store and starts restoring it.
// Must run after Browser. Safe methods wait at most RestoreWait; form
// submissions wait for the restore to finish.
func Session(cfg SessionConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			storage := cfg.Storage.Scope(BrowserID(c))
			log := cfg.Log.With().Str("browser_id", BrowserID(c)).Logger()
			store := service.NewSessionStore(storage, log)

			ctx := c.Request().Context()
			go func() {
				restoreCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), restoreTimeout)
				defer cancel()
				store.Restore(restoreCtx)
			}()

			if err := awaitRestore(ctx, store, c.Request().Method, cfg.RestoreWait); err != nil {
				return err
			}

			c.Set(storageKey, storage)
			c.Set(sessionKey, store)
			defer store.Dispose()

			return next(c)
		}
	}
}

func awaitRestore(ctx context.Context, store *service.SessionStore, method string, wait time.Duration) error {
	if method != http.MethodGet && method != http.MethodHead {
		select {
		case <-store.Ready():
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if wait <= 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-store.Ready():
	case <-timer.C:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// SessionStore returns the store created by Session, or nil outside it.
func SessionStore(c echo.Context) *service.SessionStore {
	s, _ := c.Get(sessionKey).(*service.SessionStore)
	return s
}

// BrowserStorage returns the browser-scoped storage, or nil outside Session.
func BrowserStorage(c echo.Context) ports.Storage {
	s, _ := c.Get(storageKey).(ports.Storage)
	return s
}
