package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lawyer4u/portal/internal/api/middleware"
	"github.com/lawyer4u/portal/internal/api/view"
	"github.com/lawyer4u/portal/internal/core/domain"
	"github.com/lawyer4u/portal/internal/core/service"
	"github.com/lawyer4u/portal/internal/metrics"
)

const (
	msgTooManyAttempts    = "Too many failed login attempts. Please try again later."
	msgInvalidCredentials = "Invalid credentials. You have %d attempt(s) left."
	msgBackendUnavailable = "Unable to reach the server. Please try again later."
	msgRegistrationFailed = "Registration failed. Please try again."
	msgLoginFailed        = "Login could not be completed. Please contact support."
)

type loginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
	Role     string `form:"role" validate:"required,oneof=client lawyer"`
}

// loginData feeds the login template.
type loginData struct {
	Email     string
	Role      string
	Error     string
	Remaining int
	Blocked   bool
}

type registerForm struct {
	Name            string `form:"name" validate:"required,alphaspace"`
	Email           string `form:"email" validate:"required,email"`
	Phone           string `form:"phone" validate:"required,phone10"`
	Password        string `form:"password" validate:"required,min=6"`
	ConfirmPassword string `form:"confirmPassword" validate:"eqfield=Password"`
	Role            string `form:"role" validate:"required,oneof=client lawyer"`
}

// registerData feeds the register template.
type registerData struct {
	Name   string
	Email  string
	Phone  string
	Role   string
	Errors FieldErrors
}

func (h *Shell) renderLogin(c echo.Context, status int, data loginData) error {
	if data.Role == "" {
		data.Role = domain.RoleClient.String()
	}
	p := NewPage(c, "Login")
	p.Data = data
	return c.Render(status, view.Login, p)
}

func (h *Shell) LoginPage(c echo.Context) error {
	th := h.throttle(c)
	remaining := th.Remaining(c.Request().Context())
	return h.renderLogin(c, http.StatusOK, loginData{Remaining: remaining, Blocked: remaining == 0})
}

// Login handles the login form. The local attempt counter is checked before
// the backend is contacted; only rejected credentials consume an attempt.
func (h *Shell) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	ctx := c.Request().Context()
	th := h.throttle(c)
	data := loginData{Email: form.Email, Role: form.Role, Remaining: th.Remaining(ctx)}

	if th.Blocked(ctx) {
		metrics.LoginAttemptsTotal.WithLabelValues("blocked").Inc()
		data.Error, data.Blocked = msgTooManyAttempts, true
		return h.renderLogin(c, http.StatusTooManyRequests, data)
	}

	if err := c.Validate(&form); err != nil {
		data.Error = err.Error()
		return h.renderLogin(c, http.StatusUnprocessableEntity, data)
	}
	role, err := domain.ParseRole(form.Role)
	if err != nil {
		data.Error = err.Error()
		return h.renderLogin(c, http.StatusUnprocessableEntity, data)
	}

	err = h.gateway(c).Login(ctx, form.Email, form.Password, role)
	switch {
	case err == nil:
		metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
		th.Reset(ctx)
		id := middleware.SessionStore(c).Session().Identity
		return c.Redirect(http.StatusSeeOther, service.LandingAfterLogin(form.Email, role, id))

	case errors.Is(err, domain.ErrAuthentication):
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		remaining := th.RecordFailure(ctx)
		data.Error = fmt.Sprintf(msgInvalidCredentials, remaining)
		data.Remaining, data.Blocked = remaining, remaining == 0
		return h.renderLogin(c, http.StatusUnauthorized, data)

	case errors.Is(err, domain.ErrUnknownRole):
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		h.log.Error().Err(err).Str("email", form.Email).Msg("backend returned an account with an unknown role")
		data.Error = msgLoginFailed
		return h.renderLogin(c, http.StatusBadGateway, data)

	default:
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		h.log.Warn().Err(err).Msg("login could not be completed")
		data.Error = msgBackendUnavailable
		return h.renderLogin(c, http.StatusServiceUnavailable, data)
	}
}

func (h *Shell) renderRegister(c echo.Context, status int, data registerData) error {
	if data.Role == "" {
		data.Role = domain.RoleClient.String()
	}
	p := NewPage(c, "Register")
	p.Data = data
	return c.Render(status, view.Register, p)
}

func (h *Shell) RegisterPage(c echo.Context) error {
	return h.renderRegister(c, http.StatusOK, registerData{})
}

// Register handles the registration form and, once the account exists, logs
// the new user in.
func (h *Shell) Register(c echo.Context) error {
	var form registerForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	data := registerData{Name: form.Name, Email: form.Email, Phone: form.Phone, Role: form.Role}
	if err := c.Validate(&form); err != nil {
		var fe FieldErrors
		if !errors.As(err, &fe) {
			return err
		}
		data.Errors = fe
		return h.renderRegister(c, http.StatusUnprocessableEntity, data)
	}

	role, err := domain.ParseRole(form.Role)
	if err != nil {
		data.Errors = FieldErrors{"form": err.Error()}
		return h.renderRegister(c, http.StatusUnprocessableEntity, data)
	}

	ctx := c.Request().Context()
	gw := h.gateway(c)

	_, err = gw.Register(ctx, domain.RegistrationFields{
		Name:     form.Name,
		Email:    form.Email,
		Phone:    form.Phone,
		Password: form.Password,
		Role:     role,
	})
	if err != nil {
		var regErr *domain.RegistrationError
		if errors.As(err, &regErr) {
			metrics.RegistrationsTotal.WithLabelValues(role.String(), "rejected").Inc()
			data.Errors = FieldErrors{"form": regErr.Reason}
			return h.renderRegister(c, http.StatusBadRequest, data)
		}
		metrics.RegistrationsTotal.WithLabelValues(role.String(), "error").Inc()
		h.log.Warn().Err(err).Msg("registration could not be completed")
		data.Errors = FieldErrors{"form": msgRegistrationFailed}
		return h.renderRegister(c, http.StatusServiceUnavailable, data)
	}
	metrics.RegistrationsTotal.WithLabelValues(role.String(), "success").Inc()

	if err := gw.Login(ctx, form.Email, form.Password, role); err != nil {
		h.log.Warn().Err(err).Msg("login after registration failed")
		return c.Redirect(http.StatusSeeOther, domain.PathLogin)
	}
	return c.Redirect(http.StatusSeeOther, service.LandingAfterRegistration(role))
}

// Logout forgets the identity in this browser and returns to the home page.
func (h *Shell) Logout(c echo.Context) error {
	h.gateway(c).Logout(c.Request().Context())
	return c.Redirect(http.StatusSeeOther, domain.PathHome)
}
