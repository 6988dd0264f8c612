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
	msgProfileInvalid    = "The server refused these profile details."
	msgProfileSaveFailed = "Your profile could not be saved. Please try again later."
)

type profileForm struct {
	Name     string `form:"name" validate:"required,alphaspace"`
	Phone    string `form:"phone" validate:"omitempty,phone10"`
	Location string `form:"location" validate:"max=100"`
	Bio      string `form:"bio" validate:"max=1000"`
}

// profileData feeds the profile template.
type profileData struct {
	Profile domain.Profile
	Form    domain.ProfileUpdate
	// Editable is false when there is no backend credential to save with.
	Editable bool
	Errors   FieldErrors
}

func newProfileData(p domain.Profile, editable bool) profileData {
	return profileData{
		Profile: p,
		Form: domain.ProfileUpdate{
			Name:     p.Identity.Name,
			Phone:    p.Identity.Phone,
			Location: p.Location,
			Bio:      p.Bio,
		},
		Editable: editable,
	}
}

// Profile shows the backend's profile for the logged-in account, falling back
// to the session identity when the backend cannot be asked.
func (h *Shell) Profile(c echo.Context) error {
	ctx := c.Request().Context()
	p := NewPage(c, "Profile")

	profile := domain.Profile{Identity: *p.Identity}
	editable := false
	if token := middleware.SessionStore(c).AccessToken(ctx); token != "" {
		fetched, err := h.backend.Profile(ctx, token, p.Identity.Email)
		switch {
		case err == nil:
			profile, editable = *fetched, true
		case errors.Is(err, domain.ErrAuthentication):
			p.Flash = "Your session with the server has expired. Log in again to see your full profile."
		default:
			h.log.Warn().Err(err).Msg("failed to load profile")
			p.Flash = "Some profile details could not be loaded."
		}
	}

	p.Data = newProfileData(profile, editable)
	return c.Render(http.StatusOK, view.Profile, p)
}

// UpdateProfile saves the profile form and refreshes the session's name and
// phone from the backend's answer.
func (h *Shell) UpdateProfile(c echo.Context) error {
	var form profileForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	update := domain.ProfileUpdate{
		Name:     strings.TrimSpace(form.Name),
		Phone:    strings.TrimSpace(form.Phone),
		Location: strings.TrimSpace(form.Location),
		Bio:      strings.TrimSpace(form.Bio),
	}

	ctx := c.Request().Context()
	store := middleware.SessionStore(c)
	p := NewPage(c, "Profile")
	data := profileData{Profile: domain.Profile{Identity: *p.Identity}, Form: update, Editable: true}

	token := store.AccessToken(ctx)
	if token == "" {
		data.Editable = false
		p.Flash, p.Data = msgServerSessionExpired, data
		return c.Render(http.StatusUnauthorized, view.Profile, p)
	}

	if err := c.Validate(&form); err != nil {
		var fe FieldErrors
		if !errors.As(err, &fe) {
			return err
		}
		data.Errors = fe
		p.Data = data
		return c.Render(http.StatusUnprocessableEntity, view.Profile, p)
	}

	saved, err := h.backend.UpdateProfile(ctx, token, p.Identity.Email, update)
	switch {
	case err == nil:
		id := *p.Identity
		id.Name, id.Phone = saved.Identity.Name, saved.Identity.Phone
		store.SetIdentity(ctx, &id)
		h.log.Info().Str("user_id", id.ID).Msg("profile updated")
		return c.Redirect(http.StatusSeeOther, "/profile")
	case errors.Is(err, domain.ErrAuthentication):
		data.Editable = false
		p.Flash, p.Data = msgServerSessionExpired, data
		return c.Render(http.StatusUnauthorized, view.Profile, p)
	case errors.Is(err, domain.ErrInvalidAccount):
		data.Errors = FieldErrors{"form": msgProfileInvalid}
		p.Data = data
		return c.Render(http.StatusUnprocessableEntity, view.Profile, p)
	default:
		h.log.Warn().Err(err).Msg("failed to save profile")
		p.Flash, p.Data = msgProfileSaveFailed, data
		return c.Render(http.StatusBadGateway, view.Profile, p)
	}
}
