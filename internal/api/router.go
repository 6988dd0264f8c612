package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/lawyer4u/portal/docs"
	"github.com/lawyer4u/portal/internal/api/handler"
	"github.com/lawyer4u/portal/internal/api/middleware"
	"github.com/lawyer4u/portal/internal/api/view"
	"github.com/lawyer4u/portal/internal/core/domain"
	"github.com/lawyer4u/portal/internal/core/ports"
)

// Deps are the collaborators the portal shell is assembled from.
type Deps struct {
	Storage ports.StorageBackend
	Backend ports.Backend
	Log     zerolog.Logger

	BrowserSecret    string
	SecureCookie     bool
	RestoreWait      time.Duration
	MaxLoginAttempts int

	// Registerer and Gatherer back the request metrics and /metrics.
	// Both default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.Renderer = view.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	registerer, gatherer := d.Registerer, d.Gatherer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "portal",
		Registerer: registerer,
	}))

	// --- Operational endpoints (no browser session) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(map[string]handler.Pinger{
		"storage": d.Storage,
		"backend": d.Backend,
	})

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Portal shell: every request is a page load with its own session ---
	shell := handler.NewShell(d.Backend, d.MaxLoginAttempts, d.Log)
	web := e.Group("",
		middleware.Browser(middleware.BrowserConfig{Secret: d.BrowserSecret, Secure: d.SecureCookie}),
		middleware.Session(middleware.SessionConfig{Storage: d.Storage, RestoreWait: d.RestoreWait, Log: d.Log}),
	)

	open := middleware.Guard(domain.Open())
	publicOnly := middleware.Guard(domain.PublicOnly())
	authenticated := middleware.Guard(domain.AnyAuthenticated())
	admin := middleware.Guard(domain.RoleIn(domain.RoleAdmin))
	lawyer := middleware.Guard(domain.RoleIn(domain.RoleLawyer))

	web.GET("/", shell.Home, open)
	web.GET("/about", shell.Static("About", aboutCopy), open)
	web.GET("/find-lawyers", shell.FindLawyers, open)

	web.GET(domain.PathLogin, shell.LoginPage, publicOnly)
	web.POST(domain.PathLogin, shell.Login, publicOnly)
	web.GET(domain.PathRegister, shell.RegisterPage, publicOnly)
	web.POST(domain.PathRegister, shell.Register, publicOnly)
	web.POST("/logout", shell.Logout)

	web.GET(domain.PathDashboard, shell.Dashboard, authenticated)
	web.GET("/appointments", shell.Static("Appointments", "Your upcoming and past appointments will appear here."), authenticated)
	web.GET("/consultations", shell.Static("Consultations", "Your consultations will appear here."), authenticated)
	web.GET("/payments", shell.Static("Payments", "Your payment history will appear here."), authenticated)
	web.GET("/reviews", shell.Static("Reviews", "Reviews you have given or received will appear here."), authenticated)
	web.GET("/profile", shell.Profile, authenticated)
	web.POST("/profile", shell.UpdateProfile, authenticated)

	web.GET(domain.PathAdminDashboard, shell.AdminDashboard, admin)
	web.GET("/admin/users", shell.AdminUsers, admin)
	web.GET("/admin/verification", shell.AdminVerification, admin)
	web.POST("/admin/verification/:id", shell.VerifyLawyer, admin)

	web.GET(domain.PathLawyerRegistration, shell.Static("Lawyer Registration", "Complete your professional profile to start receiving clients."), lawyer)

	web.GET("/api/session", shell.Session)

	return e
}

const aboutCopy = "Lawyer4u connects clients with verified lawyers for consultations, appointments and reviews."

// requestLogger logs one line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
