package domain

import (
	"errors"
	"strconv"
	"time"
)

var (
	ErrAccountExists   = errors.New("email already registered")
	ErrAccountNotFound = errors.New("account not found")
	// ErrInvalidAccount covers missing or malformed registration fields.
	ErrInvalidAccount            = errors.New("invalid account details")
	ErrInvalidVerificationStatus = errors.New("invalid verification status")
)

// Lawyer verification states.
const (
	VerificationPending  = "PENDING"
	VerificationApproved = "APPROVED"
	VerificationRejected = "REJECTED"
)

// Account is a registered user as kept by the development backend.
type Account struct {
	ID                 int64
	Name               string
	Email              string
	Phone              string
	PasswordHash       string
	Role               Role
	Location           string
	Bio                string
	VerificationStatus string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Identity is the public projection of the account.
func (a *Account) Identity() Identity {
	return Identity{
		ID:    formatAccountID(a.ID),
		Name:  a.Name,
		Email: a.Email,
		Phone: a.Phone,
		Role:  a.Role,
	}
}

// Lawyer projects a lawyer account into a directory entry.
func (a *Account) Lawyer() Lawyer {
	return Lawyer{
		ID:                 formatAccountID(a.ID),
		Name:               a.Name,
		Email:              a.Email,
		Location:           a.Location,
		Bio:                a.Bio,
		VerificationStatus: a.VerificationStatus,
	}
}

// Profile projects the account into the profile view.
func (a *Account) Profile() Profile {
	return Profile{
		Identity:           a.Identity(),
		Location:           a.Location,
		Bio:                a.Bio,
		VerificationStatus: a.VerificationStatus,
	}
}

func formatAccountID(id int64) string {
	return strconv.FormatInt(id, 10)
}
