package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/lawyer4u/portal/internal/core/domain"
)

// flexibleID accepts both numeric and string ids. The backend issues numeric
// ids; the portal always handles them as strings.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*f = flexibleID(strconv.FormatInt(i, 10))
		return nil
	}
	*f = flexibleID(n.String())
	return nil
}

type wireUser struct {
	ID    flexibleID `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Phone string     `json:"phone"`
	Role  string     `json:"role"`
}

func (u wireUser) identity() (domain.Identity, error) {
	role, err := domain.ParseRole(u.Role)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("backend user %s: %w", u.ID, err)
	}
	return domain.Identity{
		ID:    string(u.ID),
		Name:  u.Name,
		Email: u.Email,
		Phone: u.Phone,
		Role:  role,
	}, nil
}

type wireProfile struct {
	wireUser
	Location           string `json:"location"`
	Bio                string `json:"bio"`
	VerificationStatus string `json:"verificationStatus"`
}

func (p wireProfile) profile() (domain.Profile, error) {
	id, err := p.wireUser.identity()
	if err != nil {
		return domain.Profile{}, err
	}
	return domain.Profile{
		Identity:           id,
		Location:           p.Location,
		Bio:                p.Bio,
		VerificationStatus: p.VerificationStatus,
	}, nil
}

type wireLawyer struct {
	ID                 flexibleID `json:"id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	Location           string     `json:"location"`
	Bio                string     `json:"bio"`
	ConsultationFee    int        `json:"consultationFee"`
	YearsOfExperience  int        `json:"yearsOfExperience"`
	Specializations    []string   `json:"specializations"`
	Languages          []string   `json:"languages"`
	VerificationStatus string     `json:"verificationStatus"`
}

func (l wireLawyer) lawyer() domain.Lawyer {
	return domain.Lawyer{
		ID:                 string(l.ID),
		Name:               l.Name,
		Email:              l.Email,
		Location:           l.Location,
		Bio:                l.Bio,
		ConsultationFee:    l.ConsultationFee,
		YearsOfExperience:  l.YearsOfExperience,
		Specializations:    l.Specializations,
		Languages:          l.Languages,
		VerificationStatus: l.VerificationStatus,
	}
}
