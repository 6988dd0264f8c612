package ports

import (
	"context"

	"github.com/lawyer4u/portal/internal/core/domain"
)

// AccountRepository persists the development backend's accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id int64) (*domain.Account, error)
	// List returns every account, or only those with role when non-empty.
	List(ctx context.Context, role domain.Role) ([]domain.Account, error)
	UpdateVerification(ctx context.Context, id int64, status string) (*domain.Account, error)
	UpdateProfile(ctx context.Context, id int64, update domain.ProfileUpdate) (*domain.Account, error)
	Ping(ctx context.Context) error
}

// AccountService is the development backend's auth and profile surface.
type AccountService interface {
	Register(ctx context.Context, fields domain.RegistrationFields) (*domain.Account, error)
	Login(ctx context.Context, email, password string) (string, *domain.Account, error)
	Profile(ctx context.Context, email string) (*domain.Account, error)
	UpdateProfile(ctx context.Context, email string, update domain.ProfileUpdate) (*domain.Account, error)
	Accounts(ctx context.Context) ([]domain.Account, error)
	Lawyers(ctx context.Context) ([]domain.Account, error)
	Verify(ctx context.Context, id int64, status string) (*domain.Account, error)
}
