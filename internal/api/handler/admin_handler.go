package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lawyer4u/portal/internal/api/middleware"
	"github.com/lawyer4u/portal/internal/api/view"
	"github.com/lawyer4u/portal/internal/core/domain"
)

const (
	msgServerSessionExpired = "Your session with the server has expired. Log in again to continue."
	msgInvalidVerification  = "Choose approve, reject or pending."
	msgLawyerNotFound       = "That lawyer no longer exists."
	msgVerificationFailed   = "The verification could not be saved. Please try again later."
)

// adminStats feeds the admin dashboard.
type adminStats struct {
	Users   int
	Clients int
	Lawyers int
	Pending int
}

type verificationForm struct {
	Status string `form:"status" validate:"required,oneof=PENDING APPROVED REJECTED"`
}

// AdminDashboard greets the admin with account counts. The counts are left
// out when the backend cannot be asked.
func (h *Shell) AdminDashboard(c echo.Context) error {
	ctx := c.Request().Context()
	p := NewPage(c, "Dashboard")

	accounts, err := h.backend.ListAccounts(ctx, middleware.SessionStore(c).AccessToken(ctx))
	if err != nil {
		p.Flash = h.adminLoadFailed(err, "account statistics")
		return c.Render(http.StatusOK, view.Dashboard, p)
	}

	stats := &adminStats{Users: len(accounts)}
	for _, a := range accounts {
		switch a.Identity.Role {
		case domain.RoleClient:
			stats.Clients++
		case domain.RoleLawyer:
			stats.Lawyers++
			if a.VerificationStatus == domain.VerificationPending {
				stats.Pending++
			}
		}
	}
	p.Data = stats
	return c.Render(http.StatusOK, view.Dashboard, p)
}

// AdminUsers lists every registered account.
func (h *Shell) AdminUsers(c echo.Context) error {
	ctx := c.Request().Context()
	p := NewPage(c, "Users")

	accounts, err := h.backend.ListAccounts(ctx, middleware.SessionStore(c).AccessToken(ctx))
	if err != nil {
		p.Flash = h.adminLoadFailed(err, "users")
	}
	p.Data = accounts
	return c.Render(http.StatusOK, view.AdminUsers, p)
}

// AdminVerification lists lawyers with a form to record a decision on each.
func (h *Shell) AdminVerification(c echo.Context) error {
	return h.renderVerification(c, http.StatusOK, "")
}

// VerifyLawyer records the admin's decision on the lawyer in the path and
// returns to the verification list.
func (h *Shell) VerifyLawyer(c echo.Context) error {
	var form verificationForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.Status = strings.ToUpper(strings.TrimSpace(form.Status))
	if err := c.Validate(&form); err != nil {
		return h.renderVerification(c, http.StatusUnprocessableEntity, msgInvalidVerification)
	}

	ctx := c.Request().Context()
	id := c.Param("id")
	token := middleware.SessionStore(c).AccessToken(ctx)

	_, err := h.backend.VerifyLawyer(ctx, token, id, form.Status)
	switch {
	case err == nil:
		h.log.Info().Str("lawyer_id", id).Str("status", form.Status).Msg("lawyer verification recorded")
		return c.Redirect(http.StatusSeeOther, "/admin/verification")
	case errors.Is(err, domain.ErrAuthentication):
		return h.renderVerification(c, http.StatusUnauthorized, msgServerSessionExpired)
	case errors.Is(err, domain.ErrInvalidVerificationStatus):
		return h.renderVerification(c, http.StatusUnprocessableEntity, msgInvalidVerification)
	case errors.Is(err, domain.ErrNotFound):
		return h.renderVerification(c, http.StatusNotFound, msgLawyerNotFound)
	default:
		h.log.Warn().Err(err).Str("lawyer_id", id).Msg("failed to record lawyer verification")
		return h.renderVerification(c, http.StatusBadGateway, msgVerificationFailed)
	}
}

func (h *Shell) renderVerification(c echo.Context, status int, flash string) error {
	ctx := c.Request().Context()
	p := NewPage(c, "Lawyer Verification")
	p.Path = "/admin/verification"
	p.Flash = flash

	lawyers, err := h.backend.ListLawyerProfiles(ctx, middleware.SessionStore(c).AccessToken(ctx))
	if err != nil && p.Flash == "" {
		p.Flash = h.adminLoadFailed(err, "lawyers")
	}
	p.Data = lawyers
	return c.Render(status, view.AdminVerification, p)
}

func (h *Shell) adminLoadFailed(err error, what string) string {
	if errors.Is(err, domain.ErrAuthentication) {
		return msgServerSessionExpired
	}
	h.log.Warn().Err(err).Str("resource", what).Msg("failed to load admin data")
	return "Unable to load " + what + " right now. Please try again later."
}
