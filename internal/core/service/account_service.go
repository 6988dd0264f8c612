package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/lawyer4u/portal/internal/core/domain"
	"github.com/lawyer4u/portal/internal/core/ports"
)

// AccountService implements registration, login and profile lookups for the
// development backend.
type AccountService struct {
	repo      ports.AccountRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAccountService(repo ports.AccountRepository, jwtSecret string, tokenTTL time.Duration) *AccountService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AccountService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Register creates a client or lawyer account. Lawyers start pending
// verification.
func (s *AccountService) Register(ctx context.Context, fields domain.RegistrationFields) (*domain.Account, error) {
	email := strings.ToLower(strings.TrimSpace(fields.Email))
	if strings.TrimSpace(fields.Name) == "" || email == "" || fields.Password == "" {
		return nil, domain.ErrInvalidAccount
	}
	if fields.Role != domain.RoleClient && fields.Role != domain.RoleLawyer {
		return nil, domain.ErrInvalidAccount
	}

	account, err := s.newAccount(fields.Name, email, fields.Phone, fields.Password, fields.Role)
	if err != nil {
		return nil, err
	}
	if fields.Role == domain.RoleLawyer {
		account.VerificationStatus = domain.VerificationPending
	}

	return s.repo.Create(ctx, account)
}

// EnsureAdmin creates the admin account if no account uses email yet.
func (s *AccountService) EnsureAdmin(ctx context.Context, email, password string) (*domain.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}

	account, err := s.newAccount("Administrator", email, "", password, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, account)
}

func (s *AccountService) newAccount(name, email, phone, password string, role domain.Role) (*domain.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &domain.Account{
		Name:         strings.TrimSpace(name),
		Email:        email,
		Phone:        strings.TrimSpace(phone),
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Login checks the password and issues a signed token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, *domain.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, domain.ErrAuthentication
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return "", nil, domain.ErrAuthentication
	}
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrAuthentication
	}

	token, err := s.generateToken(account)
	if err != nil {
		return "", nil, err
	}

	return token, account, nil
}

func (s *AccountService) Profile(ctx context.Context, email string) (*domain.Account, error) {
	return s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// UpdateProfile changes the account's editable fields. Name is required;
// the rest may be cleared.
func (s *AccountService) UpdateProfile(ctx context.Context, email string, update domain.ProfileUpdate) (*domain.Account, error) {
	update = domain.ProfileUpdate{
		Name:     strings.TrimSpace(update.Name),
		Phone:    strings.TrimSpace(update.Phone),
		Location: strings.TrimSpace(update.Location),
		Bio:      strings.TrimSpace(update.Bio),
	}
	if update.Name == "" {
		return nil, domain.ErrInvalidAccount
	}

	account, err := s.Profile(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.repo.UpdateProfile(ctx, account.ID, update)
}

func (s *AccountService) Accounts(ctx context.Context) ([]domain.Account, error) {
	return s.repo.List(ctx, "")
}

func (s *AccountService) Lawyers(ctx context.Context) ([]domain.Account, error) {
	return s.repo.List(ctx, domain.RoleLawyer)
}

// Verify records an admin's verification decision on a lawyer account.
func (s *AccountService) Verify(ctx context.Context, id int64, status string) (*domain.Account, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	switch status {
	case domain.VerificationPending, domain.VerificationApproved, domain.VerificationRejected:
	default:
		return nil, domain.ErrInvalidVerificationStatus
	}

	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account.Role != domain.RoleLawyer {
		return nil, domain.ErrAccountNotFound
	}

	return s.repo.UpdateVerification(ctx, id, status)
}

func (s *AccountService) generateToken(account *domain.Account) (string, error) {
	claims := jwt.MapClaims{
		"sub":  account.Email,
		"uid":  account.ID,
		"role": account.Role.String(),
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
