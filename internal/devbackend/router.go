// Package devbackend is a small stand-in for the Lawyer4u backend API. It
// implements the register, login, lawyer directory, profile and verification endpoints the
// portal calls, so the shell can be run end to end without the real service.
package devbackend

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/lawyer4u/portal/internal/api"
	"github.com/lawyer4u/portal/internal/api/handler"
	"github.com/lawyer4u/portal/internal/core/domain"
	"github.com/lawyer4u/portal/internal/core/ports"
)

// Deps are the collaborators the development backend is assembled from.
type Deps struct {
	Accounts   ports.AccountService
	Repository handler.Pinger
	JWTSecret  string
	Log        zerolog.Logger

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds the Echo instance serving the backend API under /api.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = api.NewHTTPErrorHandler(d.Log)

	registerer, gatherer := d.Registerer, d.Gatherer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "devbackend",
		Registerer: registerer,
	}))

	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(map[string]handler.Pinger{
		"accounts": d.Repository,
	})
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))

	h := NewHandler(d.Accounts, d.Log)
	v1 := e.Group("/api")

	v1.POST("/auth/register", h.Register)
	v1.POST("/auth/login", h.Login)
	v1.GET("/lawyers", h.Lawyers)

	profile := v1.Group("/profile", Auth(d.JWTSecret))
	profile.GET("", h.Profile)
	profile.PUT("", h.UpdateProfile)
	profile.GET("/lawyers", h.LawyerProfiles)

	adminOnly := RequireRole(domain.RoleAdmin.String())
	profile.GET("/all", h.AllProfiles, adminOnly)
	profile.PATCH("/verify/:id", h.Verify, adminOnly)

	return e
}
