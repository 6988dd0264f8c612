package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/lawyer4u/portal/internal/api/middleware"
	"github.com/lawyer4u/portal/internal/api/view"
	"github.com/lawyer4u/portal/internal/core/domain"
	"github.com/lawyer4u/portal/internal/core/ports"
	"github.com/lawyer4u/portal/internal/core/service"
)

// Shell serves the portal's pages and forms.
type Shell struct {
	backend          ports.Backend
	maxLoginAttempts int
	log              zerolog.Logger
}

func NewShell(backend ports.Backend, maxLoginAttempts int, log zerolog.Logger) *Shell {
	return &Shell{backend: backend, maxLoginAttempts: maxLoginAttempts, log: log}
}

func (h *Shell) Home(c echo.Context) error {
	return c.Render(http.StatusOK, view.Home, NewPage(c, "Home"))
}

// Static returns a handler for a page with fixed copy.
func (h *Shell) Static(title, body string) echo.HandlerFunc {
	return func(c echo.Context) error {
		p := NewPage(c, title)
		p.Data = body
		return c.Render(http.StatusOK, view.Static, p)
	}
}

func (h *Shell) Dashboard(c echo.Context) error {
	return c.Render(http.StatusOK, view.Dashboard, NewPage(c, "Dashboard"))
}

// FindLawyers lists the backend's lawyer directory. A backend failure still
// renders the page, with a notice.
func (h *Shell) FindLawyers(c echo.Context) error {
	p := NewPage(c, "Find Lawyers")

	lawyers, err := h.backend.ListLawyers(c.Request().Context())
	if err != nil {
		h.log.Warn().Err(err).Msg("failed to load lawyer directory")
		p.Flash = "Unable to load lawyers right now. Please try again later."
	}
	p.Data = lawyers
	return c.Render(http.StatusOK, view.Lawyers, p)
}

type sessionResponse struct {
	Status                 domain.SessionStatus `json:"status"`
	Identity               *domain.Identity     `json:"identity"`
	Navigation             []service.NavLink    `json:"navigation"`
	LoginAttemptsRemaining int                  `json:"loginAttemptsRemaining"`
}

// Session reports the browser's session.
//
// @Summary      Current session
// @Description  Waits for the session to finish restoring, then returns the identity, its navigation and the remaining login attempts.
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /api/session [get]
func (h *Shell) Session(c echo.Context) error {
	ctx := c.Request().Context()
	store := middleware.SessionStore(c)

	select {
	case <-store.Ready():
	case <-ctx.Done():
		return ctx.Err()
	}

	s := store.Session()
	nav := service.Navigation(s.Identity)
	if nav == nil {
		nav = []service.NavLink{}
	}

	return c.JSON(http.StatusOK, sessionResponse{
		Status:                 s.Status,
		Identity:               s.Identity,
		Navigation:             nav,
		LoginAttemptsRemaining: h.throttle(c).Remaining(ctx),
	})
}
