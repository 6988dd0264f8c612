package devbackend

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/lawyer4u/portal/internal/core/domain"
	"github.com/lawyer4u/portal/internal/core/ports"
)

// Handler serves the backend contract the portal depends on.
type Handler struct {
	accounts ports.AccountService
	log      zerolog.Logger
}

func NewHandler(accounts ports.AccountService, log zerolog.Logger) *Handler {
	return &Handler{accounts: accounts, log: log}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	// Role is accepted for compatibility and ignored; the account decides.
	Role string `json:"role"`
}

// updateProfileRequest carries every editable field; omitted ones are cleared.
type updateProfileRequest struct {
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Bio      string `json:"bio"`
}

type userResponse struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Phone              string `json:"phone,omitempty"`
	Role               string `json:"role"`
	Location           string `json:"location,omitempty"`
	Bio                string `json:"bio,omitempty"`
	VerificationStatus string `json:"verificationStatus,omitempty"`
}

// lawyerResponse shadows the directory entry's id with the numeric one.
type lawyerResponse struct {
	ID int64 `json:"id"`
	domain.Lawyer
}

type authResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
	Token   string       `json:"token,omitempty"`
}

func toUserResponse(a *domain.Account) userResponse {
	return userResponse{
		ID:                 a.ID,
		Name:               a.Name,
		Email:              a.Email,
		Phone:              a.Phone,
		Role:               a.Role.String(),
		Location:           a.Location,
		Bio:                a.Bio,
		VerificationStatus: a.VerificationStatus,
	}
}

func toUserResponses(accounts []domain.Account) []userResponse {
	out := make([]userResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, toUserResponse(&accounts[i]))
	}
	return out
}

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

// Register creates a new account.
func (h *Handler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	account, err := h.accounts.Register(c.Request().Context(), domain.RegistrationFields{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     domain.Role(strings.ToLower(req.Role)),
	})
	switch {
	case errors.Is(err, domain.ErrAccountExists):
		return errorJSON(c, http.StatusConflict, "Email already registered")
	case errors.Is(err, domain.ErrInvalidAccount):
		return errorJSON(c, http.StatusBadRequest, err.Error())
	case err != nil:
		return err
	}

	h.log.Info().Int64("user_id", account.ID).Str("role", account.Role.String()).Msg("account registered")
	return c.JSON(http.StatusCreated, authResponse{Message: "User registered successfully", User: toUserResponse(account)})
}

// Login authenticates a user and returns a JWT.
func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid payload")
	}

	token, account, err := h.accounts.Login(c.Request().Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, domain.ErrAuthentication):
		return errorJSON(c, http.StatusUnauthorized, "Invalid credentials")
	case err != nil:
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Message: "Login successful", User: toUserResponse(account), Token: token})
}

// Lawyers is the public lawyer directory.
func (h *Handler) Lawyers(c echo.Context) error {
	lawyers, err := h.accounts.Lawyers(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]lawyerResponse, 0, len(lawyers))
	for i := range lawyers {
		out = append(out, lawyerResponse{ID: lawyers[i].ID, Lawyer: lawyers[i].Lawyer()})
	}
	return c.JSON(http.StatusOK, out)
}

// targetEmail is the account a profile request addresses: the caller's own,
// or the email query parameter when the caller is an admin.
func targetEmail(c echo.Context) (string, bool) {
	email, _ := c.Get(ctxEmail).(string)
	role, _ := c.Get(ctxRole).(string)

	if q := strings.TrimSpace(c.QueryParam("email")); q != "" && !strings.EqualFold(q, email) {
		if role != domain.RoleAdmin.String() {
			return "", false
		}
		return q, true
	}
	return email, true
}

// Profile returns the caller's account. Admins may look up any email.
func (h *Handler) Profile(c echo.Context) error {
	email, ok := targetEmail(c)
	if !ok {
		return errorJSON(c, http.StatusForbidden, "forbidden")
	}

	account, err := h.accounts.Profile(c.Request().Context(), email)
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return errorJSON(c, http.StatusNotFound, "User not found")
	case err != nil:
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(account))
}

// UpdateProfile replaces the editable fields of the caller's account. Admins
// may edit any email.
func (h *Handler) UpdateProfile(c echo.Context) error {
	email, ok := targetEmail(c)
	if !ok {
		return errorJSON(c, http.StatusForbidden, "forbidden")
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	account, err := h.accounts.UpdateProfile(c.Request().Context(), email, domain.ProfileUpdate{
		Name:     req.Name,
		Phone:    req.Phone,
		Location: req.Location,
		Bio:      req.Bio,
	})
	switch {
	case errors.Is(err, domain.ErrInvalidAccount):
		return errorJSON(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrAccountNotFound):
		return errorJSON(c, http.StatusNotFound, "User not found")
	case err != nil:
		return err
	}

	h.log.Info().Int64("user_id", account.ID).Msg("profile updated")
	return c.JSON(http.StatusOK, toUserResponse(account))
}

// AllProfiles lists every account.
func (h *Handler) AllProfiles(c echo.Context) error {
	accounts, err := h.accounts.Accounts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(accounts))
}

// LawyerProfiles lists lawyer accounts with their verification state.
func (h *Handler) LawyerProfiles(c echo.Context) error {
	accounts, err := h.accounts.Lawyers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(accounts))
}

// Verify records a verification decision on a lawyer.
func (h *Handler) Verify(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}

	account, err := h.accounts.Verify(c.Request().Context(), id, c.QueryParam("status"))
	switch {
	case errors.Is(err, domain.ErrInvalidVerificationStatus):
		return errorJSON(c, http.StatusBadRequest, "status must be PENDING, APPROVED or REJECTED")
	case errors.Is(err, domain.ErrAccountNotFound):
		return errorJSON(c, http.StatusNotFound, "Lawyer not found")
	case err != nil:
		return err
	}

	h.log.Info().Int64("user_id", id).Str("status", account.VerificationStatus).Msg("lawyer verification updated")
	return c.JSON(http.StatusOK, toUserResponse(account))
}
