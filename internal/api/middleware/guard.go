package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lawyer4u/portal/internal/core/domain"
	"github.com/lawyer4u/portal/internal/core/service"
	"github.com/lawyer4u/portal/internal/metrics"
)

const (
	// LoadingTemplate is rendered while the session is still restoring.
	LoadingTemplate = "loading"
	// loadingRefresh is the retry delay, in seconds, of the loading page.
	loadingRefresh = "1"
)

// Guard enforces req on a route. A pending session renders the loading page
// with an auto-refresh; denials redirect with 303 See Other.
func Guard(req domain.Requirement) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			store := SessionStore(c)
			if store == nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "session middleware not installed")
			}

			decision := service.Decide(store.Session(), req)
			metrics.GuardDecisionsTotal.WithLabelValues(string(decision.State)).Inc()

			switch {
			case decision.State == domain.GuardPending:
				c.Response().Header().Set("Refresh", loadingRefresh)
				c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
				return c.Render(http.StatusOK, LoadingTemplate, c.Request().URL.RequestURI())
			case decision.Redirects():
				return c.Redirect(http.StatusSeeOther, decision.RedirectTo)
			}
			return next(c)
		}
	}
}
