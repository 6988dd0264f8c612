package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lawyer4u/portal/internal/core/domain"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/api/", Timeout: time.Second}, zerolog.Nop())
}

func TestClient_Login_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["email"] != "a@example.com" || body["password"] != "secret" || body["role"] != "client" {
			t.Fatalf("unexpected body: %v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Login successful","token":"tok","user":{"id":42,"name":"A","email":"a@example.com","phone":"5551234567","role":"client"}}`))
	})

	res, err := c.Login(context.Background(), "a@example.com", "secret", domain.RoleClient)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Identity.ID != "42" || res.Identity.Role != domain.RoleClient {
		t.Fatalf("unexpected identity: %+v", res.Identity)
	}
	if res.AccessToken != "tok" {
		t.Fatalf("expected access token, got %q", res.AccessToken)
	}
}

func TestClient_Login_RejectedIsAuthenticationError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Invalid credentials"}`))
	})

	_, err := c.Login(context.Background(), "a@example.com", "bad", domain.RoleClient)
	if !errors.Is(err, domain.ErrAuthentication) {
		t.Fatalf("expected ErrAuthentication, got %v", err)
	}
}

func TestClient_Login_UnknownRole(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"user":{"id":"1","role":"superuser"}}`))
	})

	_, err := c.Login(context.Background(), "a@example.com", "secret", domain.RoleClient)
	if !errors.Is(err, domain.ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestClient_Register_RejectionCarriesReason(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"Email already registered"}`))
	})

	_, err := c.Register(context.Background(), domain.RegistrationFields{Email: "a@example.com", Role: domain.RoleClient})
	var regErr *domain.RegistrationError
	if !errors.As(err, &regErr) {
		t.Fatalf("expected RegistrationError, got %v", err)
	}
	if regErr.Reason != "Email already registered" {
		t.Fatalf("unexpected reason: %q", regErr.Reason)
	}
}

func TestClient_Register_RejectionWithoutBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := c.Register(context.Background(), domain.RegistrationFields{Role: domain.RoleClient})
	var regErr *domain.RegistrationError
	if !errors.As(err, &regErr) || regErr.Reason != "Registration failed" {
		t.Fatalf("expected generic RegistrationError, got %v", err)
	}
}

func TestClient_Register_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/register" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"User registered successfully","user":{"id":7,"name":"L","email":"l@example.com","role":"lawyer"}}`))
	})

	id, err := c.Register(context.Background(), domain.RegistrationFields{Name: "L", Email: "l@example.com", Role: domain.RoleLawyer})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if id.ID != "7" || id.Role != domain.RoleLawyer {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestClient_ConnectionRefusedIsNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(Config{BaseURL: url, Timeout: time.Second}, zerolog.Nop())

	if _, err := c.Login(context.Background(), "a@example.com", "x", domain.RoleClient); !errors.Is(err, domain.ErrNetworkFailure) {
		t.Fatalf("login: expected ErrNetworkFailure, got %v", err)
	}
	if _, err := c.Register(context.Background(), domain.RegistrationFields{Role: domain.RoleClient}); !errors.Is(err, domain.ErrNetworkFailure) {
		t.Fatalf("register: expected ErrNetworkFailure, got %v", err)
	}
	if err := c.Ping(context.Background()); !errors.Is(err, domain.ErrNetworkFailure) {
		t.Fatalf("ping: expected ErrNetworkFailure, got %v", err)
	}
}

func TestClient_Profile_SendsBearer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("email") != "a@example.com" {
			t.Fatalf("missing email query: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"id":3,"name":"A","email":"a@example.com","role":"lawyer","location":"Pune","verificationStatus":"PENDING"}`))
	})

	p, err := c.Profile(context.Background(), "tok", "a@example.com")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if p.Identity.ID != "3" || p.Location != "Pune" || p.VerificationStatus != "PENDING" {
		t.Fatalf("unexpected profile: %+v", p)
	}

	if _, err := c.Profile(context.Background(), "", "a@example.com"); !errors.Is(err, domain.ErrAuthentication) {
		t.Fatalf("expected ErrAuthentication without token, got %v", err)
	}
}

func TestClient_ListLawyers(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"name":"Lee","consultationFee":500,"specializations":["Family"]},{"id":"2","name":"Kim"}]`))
	})

	lawyers, err := c.ListLawyers(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(lawyers) != 2 || lawyers[0].ID != "1" || lawyers[1].ID != "2" {
		t.Fatalf("unexpected lawyers: %+v", lawyers)
	}
	if lawyers[0].ConsultationFee != 500 || lawyers[0].Specializations[0] != "Family" {
		t.Fatalf("unexpected lawyer fields: %+v", lawyers[0])
	}
}

func TestClient_ListAccounts_SkipsUnknownRoles(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/profile/all" || r.Header.Get("Authorization") != "Bearer admin-tok" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(`[{"id":1,"name":"Ada","email":"ada@example.com","role":"admin"},{"id":2,"name":"Odd","role":"superuser"},{"id":3,"name":"Lee","email":"lee@example.com","role":"lawyer","verificationStatus":"PENDING"}]`))
	})

	accounts, err := c.ListAccounts(context.Background(), "admin-tok")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(accounts) != 2 || accounts[1].Identity.Name != "Lee" || accounts[1].VerificationStatus != "PENDING" {
		t.Fatalf("unexpected accounts: %+v", accounts)
	}

	if _, err := c.ListAccounts(context.Background(), "client-tok"); !errors.Is(err, domain.ErrAuthentication) {
		t.Fatalf("expected ErrAuthentication for a non-admin token, got %v", err)
	}
}

func TestClient_ListLawyerProfiles(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/profile/lawyers" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[{"id":7,"name":"Lee","email":"lee@example.com","role":"lawyer","verificationStatus":"APPROVED"}]`))
	})

	lawyers, err := c.ListLawyerProfiles(context.Background(), "admin-tok")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(lawyers) != 1 || lawyers[0].Identity.ID != "7" || lawyers[0].VerificationStatus != "APPROVED" {
		t.Fatalf("unexpected lawyers: %+v", lawyers)
	}
}

func TestClient_VerifyLawyer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Fatalf("expected PATCH, got %s", r.Method)
		}
		switch {
		case r.URL.Path == "/api/profile/verify/404":
			w.WriteHeader(http.StatusNotFound)
		case r.URL.Query().Get("status") != "APPROVED":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"status must be PENDING, APPROVED or REJECTED"}`))
		default:
			_, _ = w.Write([]byte(`{"id":7,"name":"Lee","email":"lee@example.com","role":"lawyer","verificationStatus":"APPROVED"}`))
		}
	})
	ctx := context.Background()

	p, err := c.VerifyLawyer(ctx, "admin-tok", "7", "APPROVED")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if p.VerificationStatus != "APPROVED" {
		t.Fatalf("unexpected profile: %+v", p)
	}

	if _, err := c.VerifyLawyer(ctx, "admin-tok", "7", "MAYBE"); !errors.Is(err, domain.ErrInvalidVerificationStatus) {
		t.Fatalf("expected ErrInvalidVerificationStatus, got %v", err)
	}
	if _, err := c.VerifyLawyer(ctx, "admin-tok", "404", "APPROVED"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_UpdateProfile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/profile" || r.URL.Query().Get("email") != "lee@example.com" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["name"] == "" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"name is required"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":7,"name":"` + body["name"] + `","email":"lee@example.com","role":"lawyer","location":"` + body["location"] + `"}`))
	})
	ctx := context.Background()

	p, err := c.UpdateProfile(ctx, "tok", "lee@example.com", domain.ProfileUpdate{Name: "Lee Counsel", Location: "Pune"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.Identity.Name != "Lee Counsel" || p.Location != "Pune" {
		t.Fatalf("unexpected profile: %+v", p)
	}

	_, err = c.UpdateProfile(ctx, "tok", "lee@example.com", domain.ProfileUpdate{})
	if !errors.Is(err, domain.ErrInvalidAccount) || !strings.Contains(err.Error(), "name is required") {
		t.Fatalf("expected ErrInvalidAccount with reason, got %v", err)
	}
}
