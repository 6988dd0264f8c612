package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lawyer4u/portal/internal/core/domain"
	"github.com/lawyer4u/portal/internal/core/ports"
)

// AuthGateway performs the identity-mutating calls against the backend and
// applies successful logins to the session store.
type AuthGateway struct {
	backend ports.Backend
	store   *SessionStore
	log     zerolog.Logger
}

func NewAuthGateway(backend ports.Backend, store *SessionStore, log zerolog.Logger) *AuthGateway {
	return &AuthGateway{backend: backend, store: store, log: log}
}

// Register creates an account. The session is left untouched; callers decide
// whether to log in afterwards.
func (g *AuthGateway) Register(ctx context.Context, fields domain.RegistrationFields) (*domain.Identity, error) {
	fields.Email = strings.TrimSpace(fields.Email)

	id, err := g.backend.Register(ctx, fields)
	if err != nil {
		var regErr *domain.RegistrationError
		if !errors.As(err, &regErr) && !errors.Is(err, domain.ErrNetworkFailure) {
			err = fmt.Errorf("register: %w: %w", domain.ErrNetworkFailure, err)
		}
		g.log.Info().Err(err).Str("role", fields.Role.String()).Msg("registration failed")
		return nil, err
	}

	g.log.Info().Str("user_id", id.ID).Str("role", id.Role.String()).Msg("account registered")
	return id, nil
}

// Login authenticates against the backend and, on success, makes the
// returned identity current. Any rejection surfaces as ErrAuthentication.
func (g *AuthGateway) Login(ctx context.Context, email, password string, role domain.Role) error {
	res, err := g.backend.Login(ctx, strings.TrimSpace(email), password, role)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAuthentication),
			errors.Is(err, domain.ErrNetworkFailure),
			errors.Is(err, domain.ErrUnknownRole):
		default:
			err = fmt.Errorf("login: %w: %w", domain.ErrNetworkFailure, err)
		}
		return err
	}

	id := res.Identity
	g.store.SetIdentity(ctx, &id)
	g.store.SetAccessToken(ctx, res.AccessToken)

	g.log.Info().Str("user_id", id.ID).Str("role", id.Role.String()).Msg("logged in")
	return nil
}

// Logout forgets the identity locally. There is no server session to end.
func (g *AuthGateway) Logout(ctx context.Context) {
	if s := g.store.Session(); s.Identity != nil {
		g.log.Info().Str("user_id", s.Identity.ID).Msg("logged out")
	}
	g.store.SetIdentity(ctx, nil)
}
