package ports

import (
	"context"

	"github.com/lawyer4u/portal/internal/core/domain"
)

// LoginResult is what a successful backend login yields.
type LoginResult struct {
	Identity domain.Identity
	// AccessToken is the credential attached to later authenticated calls.
	// Empty when the backend does not issue one.
	AccessToken string
}

// Backend is the opaque HTTP service behind the portal.
type Backend interface {
	Register(ctx context.Context, fields domain.RegistrationFields) (*domain.Identity, error)
	Login(ctx context.Context, email, password string, role domain.Role) (*LoginResult, error)
	ListLawyers(ctx context.Context) ([]domain.Lawyer, error)
	Profile(ctx context.Context, accessToken, email string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, accessToken, email string, update domain.ProfileUpdate) (*domain.Profile, error)
	// ListAccounts and the calls below it require an admin's access token.
	ListAccounts(ctx context.Context, accessToken string) ([]domain.Profile, error)
	ListLawyerProfiles(ctx context.Context, accessToken string) ([]domain.Profile, error)
	VerifyLawyer(ctx context.Context, accessToken, id, status string) (*domain.Profile, error)
	Ping(ctx context.Context) error
}
