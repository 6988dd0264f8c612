// Package backend is the HTTP client for the Lawyer4u backend API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lawyer4u/portal/internal/core/domain"
	"github.com/lawyer4u/portal/internal/core/ports"
	"github.com/lawyer4u/portal/internal/metrics"
)

const (
	defaultTimeout = 10 * time.Second
	// maxErrorBody bounds how much of a failed response is read for its message.
	maxErrorBody = 64 << 10
)

// Config captures where the backend lives.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks JSON to the backend. Each call is a single request with no
// retry.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

var _ ports.Backend = (*Client)(nil)

func NewClient(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type authResponse struct {
	Message string   `json:"message"`
	User    wireUser `json:"user"`
	Token   string   `json:"token"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Register creates an account. A refusal carries the backend's reason.
func (c *Client) Register(ctx context.Context, fields domain.RegistrationFields) (*domain.Identity, error) {
	body := registerRequest{
		Name:     fields.Name,
		Email:    fields.Email,
		Phone:    fields.Phone,
		Password: fields.Password,
		Role:     fields.Role.String(),
	}

	var resp authResponse
	status, reason, err := c.do(ctx, "register", http.MethodPost, "/auth/register", "", body, &resp)
	if err != nil {
		return nil, err
	}
	if status >= 300 {
		return nil, domain.NewRegistrationError(reason)
	}

	id, err := resp.User.identity()
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// Login authenticates. Every non-2xx answer is ErrAuthentication; the
// backend's reason is deliberately dropped.
func (c *Client) Login(ctx context.Context, email, password string, role domain.Role) (*ports.LoginResult, error) {
	body := loginRequest{Email: email, Password: password, Role: role.String()}

	var resp authResponse
	status, _, err := c.do(ctx, "login", http.MethodPost, "/auth/login", "", body, &resp)
	if err != nil {
		return nil, err
	}
	if status >= 300 {
		return nil, domain.ErrAuthentication
	}

	id, err := resp.User.identity()
	if err != nil {
		return nil, err
	}
	return &ports.LoginResult{Identity: id, AccessToken: resp.Token}, nil
}

func (c *Client) ListLawyers(ctx context.Context) ([]domain.Lawyer, error) {
	var resp []wireLawyer
	status, reason, err := c.do(ctx, "lawyers", http.MethodGet, "/lawyers", "", nil, &resp)
	if err != nil {
		return nil, err
	}
	if status >= 300 {
		return nil, fmt.Errorf("list lawyers: status %d: %s", status, reason)
	}

	out := make([]domain.Lawyer, 0, len(resp))
	for _, l := range resp {
		out = append(out, l.lawyer())
	}
	return out, nil
}

// Profile fetches the account behind accessToken.
func (c *Client) Profile(ctx context.Context, accessToken, email string) (*domain.Profile, error) {
	path := "/profile?" + url.Values{"email": {email}}.Encode()

	var resp wireProfile
	status, reason, err := c.do(ctx, "profile", http.MethodGet, path, accessToken, nil, &resp)
	if err != nil {
		return nil, err
	}
	if err := profileStatus("profile", status, reason); err != nil {
		return nil, err
	}

	p, err := resp.profile()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile replaces the editable fields of the account at email. A
// refused update is domain.ErrInvalidAccount with the backend's reason.
func (c *Client) UpdateProfile(ctx context.Context, accessToken, email string, update domain.ProfileUpdate) (*domain.Profile, error) {
	path := "/profile?" + url.Values{"email": {email}}.Encode()

	var resp wireProfile
	status, reason, err := c.do(ctx, "update_profile", http.MethodPut, path, accessToken, update, &resp)
	if err != nil {
		return nil, err
	}
	if status == http.StatusBadRequest {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidAccount, reason)
	}
	if err := profileStatus("update profile", status, reason); err != nil {
		return nil, err
	}

	p, err := resp.profile()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListAccounts returns every account. Entries with a role outside the known
// set are skipped.
func (c *Client) ListAccounts(ctx context.Context, accessToken string) ([]domain.Profile, error) {
	return c.listProfiles(ctx, "accounts", "/profile/all", accessToken)
}

// ListLawyerProfiles returns lawyer accounts with their verification state.
func (c *Client) ListLawyerProfiles(ctx context.Context, accessToken string) ([]domain.Profile, error) {
	return c.listProfiles(ctx, "lawyer_profiles", "/profile/lawyers", accessToken)
}

// VerifyLawyer records a verification decision. An unknown status is
// domain.ErrInvalidVerificationStatus; a missing lawyer is domain.ErrNotFound.
func (c *Client) VerifyLawyer(ctx context.Context, accessToken, id, status string) (*domain.Profile, error) {
	path := "/profile/verify/" + url.PathEscape(id) + "?" + url.Values{"status": {status}}.Encode()

	var resp wireProfile
	code, reason, err := c.do(ctx, "verify_lawyer", http.MethodPatch, path, accessToken, nil, &resp)
	if err != nil {
		return nil, err
	}
	if code == http.StatusBadRequest {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidVerificationStatus, reason)
	}
	if err := profileStatus("verify lawyer", code, reason); err != nil {
		return nil, err
	}

	p, err := resp.profile()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) listProfiles(ctx context.Context, op, path, accessToken string) ([]domain.Profile, error) {
	var resp []wireProfile
	status, reason, err := c.do(ctx, op, http.MethodGet, path, accessToken, nil, &resp)
	if err != nil {
		return nil, err
	}
	if err := profileStatus(op, status, reason); err != nil {
		return nil, err
	}

	out := make([]domain.Profile, 0, len(resp))
	for _, w := range resp {
		p, err := w.profile()
		if err != nil {
			c.log.Warn().Err(err).Str("operation", op).Msg("skipping account")
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// profileStatus maps the statuses the authenticated profile endpoints share.
func profileStatus(op string, status int, reason string) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return domain.ErrAuthentication
	case status == http.StatusNotFound:
		return domain.ErrNotFound
	case status >= 300:
		return fmt.Errorf("%s: status %d: %s", op, status, reason)
	}
	return nil
}

// Ping reports whether the backend answers HTTP at all; any status counts.
func (c *Client) Ping(ctx context.Context) error {
	_, _, err := c.do(ctx, "ping", http.MethodGet, "", "", nil, nil)
	return err
}

// do performs one request. err is non-nil only for transport failures and
// undecodable 2xx bodies; non-2xx statuses are returned with the backend's
// reason for the caller to map.
func (c *Client) do(ctx context.Context, op, method, path, bearer string, in, out any) (int, string, error) {
	start := time.Now()
	outcome := "ok"
	defer func() {
		metrics.BackendRequestDuration.WithLabelValues(op, outcome).Observe(time.Since(start).Seconds())
	}()

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			outcome = "unreachable"
			return 0, "", fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		outcome = "unreachable"
		return 0, "", fmt.Errorf("%s: %w: %w", op, domain.ErrNetworkFailure, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	res, err := c.http.Do(req)
	if err != nil {
		outcome = "unreachable"
		c.log.Warn().Err(err).Str("operation", op).Msg("backend request failed")
		return 0, "", fmt.Errorf("%s: %w: %w", op, domain.ErrNetworkFailure, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		outcome = "rejected"
		return res.StatusCode, readReason(res.Body), nil
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return res.StatusCode, "", nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		outcome = "unreachable"
		return res.StatusCode, "", fmt.Errorf("%s: %w: decode response: %w", op, domain.ErrNetworkFailure, err)
	}
	return res.StatusCode, "", nil
}

// readReason extracts {"error": ...} or {"message": ...} from a failed
// response, or "" when the body carries neither.
func readReason(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var e errorResponse
	if json.Unmarshal(raw, &e) != nil {
		return ""
	}
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}
