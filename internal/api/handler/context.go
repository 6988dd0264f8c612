package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/lawyer4u/portal/internal/api/middleware"
	"github.com/lawyer4u/portal/internal/api/view"
	"github.com/lawyer4u/portal/internal/core/domain"
	"github.com/lawyer4u/portal/internal/core/service"
)

// NewPage builds the chrome for the current request: the sidebar for the
// logged-in role, or the visitor header. Requests that bypassed the session
// middleware render as anonymous.
func NewPage(c echo.Context, title string) view.Page {
	p := view.Page{Title: title, Path: c.Request().URL.Path}

	var id *domain.Identity
	if store := middleware.SessionStore(c); store != nil {
		id = store.Session().Identity
	}

	if id == nil {
		p.Header = service.HeaderLinks()
		return p
	}
	p.Identity = id
	p.Nav = service.Navigation(id)
	return p
}

func (h *Shell) gateway(c echo.Context) *service.AuthGateway {
	return service.NewAuthGateway(h.backend, middleware.SessionStore(c), h.log)
}

func (h *Shell) throttle(c echo.Context) *service.LoginThrottle {
	return service.NewLoginThrottle(middleware.BrowserStorage(c), h.maxLoginAttempts, h.log)
}
