package devbackend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/lawyer4u/portal/internal/api/handler"
	"github.com/lawyer4u/portal/internal/core/domain"
)

type stubAccountService struct {
	registerFn func(ctx context.Context, fields domain.RegistrationFields) (*domain.Account, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.Account, error)
	profileFn  func(ctx context.Context, email string) (*domain.Account, error)
	verifyFn   func(ctx context.Context, id int64, status string) (*domain.Account, error)
	updateFn   func(ctx context.Context, email string, update domain.ProfileUpdate) (*domain.Account, error)
	accounts   []domain.Account
}

func (s *stubAccountService) Register(ctx context.Context, fields domain.RegistrationFields) (*domain.Account, error) {
	return s.registerFn(ctx, fields)
}

func (s *stubAccountService) Login(ctx context.Context, email, password string) (string, *domain.Account, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAccountService) Profile(ctx context.Context, email string) (*domain.Account, error) {
	return s.profileFn(ctx, email)
}

func (s *stubAccountService) UpdateProfile(ctx context.Context, email string, update domain.ProfileUpdate) (*domain.Account, error) {
	return s.updateFn(ctx, email, update)
}

func (s *stubAccountService) Accounts(context.Context) ([]domain.Account, error) {
	return s.accounts, nil
}

func (s *stubAccountService) Lawyers(context.Context) ([]domain.Account, error) {
	var out []domain.Account
	for _, a := range s.accounts {
		if a.Role == domain.RoleLawyer {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *stubAccountService) Verify(ctx context.Context, id int64, status string) (*domain.Account, error) {
	return s.verifyFn(ctx, id, status)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = handler.NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAccountService{
		registerFn: func(_ context.Context, f domain.RegistrationFields) (*domain.Account, error) {
			if f.Email != "ana@example.com" || f.Role != domain.RoleLawyer {
				t.Fatalf("unexpected fields: %+v", f)
			}
			return &domain.Account{ID: 7, Name: f.Name, Email: f.Email, Phone: f.Phone, Role: f.Role}, nil
		},
	}
	h := NewHandler(stub, zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/register",
		`{"name":"Ana Ruiz","email":"ana@example.com","phone":"5512345678","password":"secret1","role":"Lawyer"}`), rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	resp := decodeBody(t, rec)
	if resp["message"] != "User registered successfully" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("user missing in response")
	}
	if user["id"] != float64(7) {
		t.Fatalf("expected numeric id 7, got %#v", user["id"])
	}
	if user["role"] != "lawyer" {
		t.Fatalf("expected role lawyer, got %v", user["role"])
	}
}

func TestHandler_Register_Duplicate(t *testing.T) {
	e := newTestEcho()
	stub := &stubAccountService{
		registerFn: func(context.Context, domain.RegistrationFields) (*domain.Account, error) {
			return nil, domain.ErrAccountExists
		},
	}
	h := NewHandler(stub, zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/register",
		`{"name":"Ana","email":"ana@example.com","password":"secret1","role":"client"}`), rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if resp := decodeBody(t, rec); resp["error"] != "Email already registered" {
		t.Fatalf("unexpected error: %v", resp["error"])
	}
}

func TestHandler_Register_ValidationError(t *testing.T) {
	e := newTestEcho()
	stub := &stubAccountService{
		registerFn: func(context.Context, domain.RegistrationFields) (*domain.Account, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}
	h := NewHandler(stub, zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/register",
		`{"name":"Ana","email":"not-an-email","password":"secret1","role":"client"}`), rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandler_Register_AdminRoleRejected(t *testing.T) {
	e := newTestEcho()
	stub := &stubAccountService{
		registerFn: func(context.Context, domain.RegistrationFields) (*domain.Account, error) {
			return nil, domain.ErrInvalidAccount
		},
	}
	h := NewHandler(stub, zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/register",
		`{"name":"Eve","email":"eve@example.com","password":"secret1","role":"admin"}`), rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAccountService{
		loginFn: func(_ context.Context, email, password string) (string, *domain.Account, error) {
			if email != "ana@example.com" || password != "secret1" {
				t.Fatalf("unexpected credentials: %s %s", email, password)
			}
			return "token123", &domain.Account{ID: 3, Name: "Ana", Email: email, Role: domain.RoleClient}, nil
		},
	}
	h := NewHandler(stub, zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/login",
		`{"email":"ana@example.com","password":"secret1","role":"lawyer"}`), rec)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decodeBody(t, rec)
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
	user := resp["user"].(map[string]any)
	if user["role"] != "client" {
		t.Fatalf("role must come from the account, got %v", user["role"])
	}
}

func TestHandler_Login_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	stub := &stubAccountService{
		loginFn: func(context.Context, string, string) (string, *domain.Account, error) {
			return "", nil, domain.ErrAuthentication
		},
	}
	h := NewHandler(stub, zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/login",
		`{"email":"ana@example.com","password":"wrong"}`), rec)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if resp := decodeBody(t, rec); resp["error"] != "Invalid credentials" {
		t.Fatalf("unexpected error: %v", resp["error"])
	}
}

func TestHandler_Lawyers_NumericIDs(t *testing.T) {
	e := newTestEcho()
	stub := &stubAccountService{accounts: []domain.Account{
		{ID: 1, Name: "Cli", Role: domain.RoleClient},
		{ID: 2, Name: "Law", Email: "law@example.com", Role: domain.RoleLawyer, VerificationStatus: domain.VerificationApproved},
	}}
	h := NewHandler(stub, zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/lawyers", nil), rec)

	if err := h.Lawyers(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 {
		t.Fatalf("expected one lawyer, got %d", len(resp))
	}
	if resp[0]["id"] != float64(2) || resp[0]["verificationStatus"] != "APPROVED" {
		t.Fatalf("unexpected lawyer: %v", resp[0])
	}
}

func TestHandler_Profile(t *testing.T) {
	cases := []struct {
		name       string
		tokenEmail string
		tokenRole  string
		query      string
		wantEmail  string
		wantStatus int
	}{
		{name: "own profile", tokenEmail: "ana@example.com", tokenRole: "client", wantEmail: "ana@example.com", wantStatus: http.StatusOK},
		{name: "own profile by query", tokenEmail: "ana@example.com", tokenRole: "client", query: "ANA@example.com", wantEmail: "ana@example.com", wantStatus: http.StatusOK},
		{name: "other profile forbidden", tokenEmail: "ana@example.com", tokenRole: "lawyer", query: "bob@example.com", wantStatus: http.StatusForbidden},
		{name: "admin reads any", tokenEmail: "root@example.com", tokenRole: "admin", query: "bob@example.com", wantEmail: "bob@example.com", wantStatus: http.StatusOK},
		{name: "unknown email", tokenEmail: "ghost@example.com", tokenRole: "client", wantStatus: http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEcho()
			stub := &stubAccountService{
				profileFn: func(_ context.Context, email string) (*domain.Account, error) {
					if email == "ghost@example.com" {
						return nil, domain.ErrAccountNotFound
					}
					if email != tc.wantEmail {
						t.Fatalf("expected lookup of %q, got %q", tc.wantEmail, email)
					}
					return &domain.Account{ID: 4, Email: email, Role: domain.RoleClient}, nil
				},
			}
			h := NewHandler(stub, zerolog.Nop())

			target := "/api/profile"
			if tc.query != "" {
				target += "?email=" + tc.query
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), rec)
			c.Set(ctxEmail, tc.tokenEmail)
			c.Set(ctxRole, tc.tokenRole)

			if err := h.Profile(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
		})
	}
}

func TestHandler_Verify(t *testing.T) {
	stub := &stubAccountService{
		verifyFn: func(_ context.Context, id int64, status string) (*domain.Account, error) {
			switch {
			case status == "bogus":
				return nil, domain.ErrInvalidVerificationStatus
			case id == 99:
				return nil, domain.ErrAccountNotFound
			}
			return &domain.Account{ID: id, Role: domain.RoleLawyer, VerificationStatus: domain.VerificationApproved}, nil
		},
	}
	h := NewHandler(stub, zerolog.Nop())

	cases := []struct {
		id, status string
		want       int
	}{
		{"5", "approved", http.StatusOK},
		{"abc", "approved", http.StatusBadRequest},
		{"5", "bogus", http.StatusBadRequest},
		{"99", "approved", http.StatusNotFound},
	}

	for _, tc := range cases {
		e := newTestEcho()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodPatch, "/api/profile/verify/"+tc.id+"?status="+tc.status, nil), rec)
		c.SetParamNames("id")
		c.SetParamValues(tc.id)

		if err := h.Verify(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != tc.want {
			t.Fatalf("id=%s status=%s: expected %d, got %d", tc.id, tc.status, tc.want, rec.Code)
		}
	}
}

func TestHandler_UpdateProfile(t *testing.T) {
	cases := []struct {
		name       string
		tokenEmail string
		tokenRole  string
		query      string
		body       string
		wantEmail  string
		wantStatus int
	}{
		{name: "own profile", tokenEmail: "ana@example.com", tokenRole: "lawyer", body: `{"name":"Ana Ruiz","location":"Pune","bio":"Tax"}`, wantEmail: "ana@example.com", wantStatus: http.StatusOK},
		{name: "other profile forbidden", tokenEmail: "ana@example.com", tokenRole: "client", query: "bob@example.com", body: `{"name":"Bob"}`, wantStatus: http.StatusForbidden},
		{name: "admin edits any", tokenEmail: "root@example.com", tokenRole: "admin", query: "bob@example.com", body: `{"name":"Bob"}`, wantEmail: "bob@example.com", wantStatus: http.StatusOK},
		{name: "name required", tokenEmail: "ana@example.com", tokenRole: "client", body: `{"location":"Pune"}`, wantStatus: http.StatusBadRequest},
		{name: "unknown email", tokenEmail: "ghost@example.com", tokenRole: "client", body: `{"name":"Ghost"}`, wantStatus: http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEcho()
			stub := &stubAccountService{
				updateFn: func(_ context.Context, email string, update domain.ProfileUpdate) (*domain.Account, error) {
					if email == "ghost@example.com" {
						return nil, domain.ErrAccountNotFound
					}
					if email != tc.wantEmail {
						t.Fatalf("expected update of %q, got %q", tc.wantEmail, email)
					}
					return &domain.Account{ID: 4, Email: email, Name: update.Name, Location: update.Location, Role: domain.RoleLawyer}, nil
				},
			}
			h := NewHandler(stub, zerolog.Nop())

			target := "/api/profile"
			if tc.query != "" {
				target += "?email=" + tc.query
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(jsonRequest(http.MethodPut, target, tc.body), rec)
			c.Set(ctxEmail, tc.tokenEmail)
			c.Set(ctxRole, tc.tokenRole)

			if err := h.UpdateProfile(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tc.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}
