package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lawyer4u/portal/internal/core/domain"
)

// AccountRepository keeps development backend accounts in memory.
type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[int64]domain.Account
	byEmail  map[string]int64
	nextID   int64
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts: make(map[int64]domain.Account),
		byEmail:  make(map[string]int64),
	}
}

func (r *AccountRepository) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[account.Email]; exists {
		return nil, domain.ErrAccountExists
	}

	r.nextID++
	created := *account
	created.ID = r.nextID
	r.accounts[created.ID] = created
	r.byEmail[created.Email] = created.ID
	return &created, nil
}

func (r *AccountRepository) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	a := r.accounts[id]
	return &a, nil
}

func (r *AccountRepository) FindByID(_ context.Context, id int64) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &a, nil
}

// List returns accounts ordered by id.
func (r *AccountRepository) List(_ context.Context, role domain.Role) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		if role == "" || a.Role == role {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *AccountRepository) UpdateVerification(_ context.Context, id int64, status string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	a.VerificationStatus = status
	a.UpdatedAt = time.Now().UTC()
	r.accounts[id] = a
	return &a, nil
}

func (r *AccountRepository) UpdateProfile(_ context.Context, id int64, update domain.ProfileUpdate) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	a.Name = update.Name
	a.Phone = update.Phone
	a.Location = update.Location
	a.Bio = update.Bio
	a.UpdatedAt = time.Now().UTC()
	r.accounts[id] = a
	return &a, nil
}

func (r *AccountRepository) Ping(context.Context) error { return nil }
