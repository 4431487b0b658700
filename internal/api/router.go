package api

import (
	"slices"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/goplay/staff-portal/docs"
	"github.com/goplay/staff-portal/internal/api/handler"
	"github.com/goplay/staff-portal/internal/api/middleware"
	"github.com/goplay/staff-portal/internal/api/view"
	"github.com/goplay/staff-portal/internal/core/domain"
	"github.com/goplay/staff-portal/internal/core/ports"
)

// Dependencies are the services and probes the router wires into handlers.
type Dependencies struct {
	Users     ports.UserService
	Sessions  ports.SessionService
	Employees ports.EmployeeService
	// Readiness lists the dependencies checked by /health/ready.
	Readiness map[string]handler.Pinger
}

// Config holds the HTTP-facing settings.
type Config struct {
	CookieName       string
	SecureCookie     bool
	LoginRedirectURL string
	AllowOrigins     []string
	// Registerer and Gatherer enable /metrics when both are set.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies, cfg Config, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	renderer, err := view.New()
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(log))
	if cfg.Registerer != nil && cfg.Gatherer != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:          "staff_portal",
			Registerer:         cfg.Registerer,
			StatusCodeResolver: responseStatus,
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/metrics"
			},
		}))
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
			Gatherer: cfg.Gatherer,
		}))
	}

	// Registered globally so preflight requests, which match no route, still
	// get an answer.
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		Skipper:      func(c echo.Context) bool { return !isAPIRequest(c) },
		AllowOrigins: cfg.AllowOrigins,
		// Browsers refuse credentials with a literal "*", so a wildcard list
		// only serves bearer-token clients.
		AllowCredentials: !anyOrigin(cfg.AllowOrigins),
	}))

	// --- Dependencies ---
	cookie := handler.SessionCookie{Name: cfg.CookieName, Secure: cfg.SecureCookie}
	auth := middleware.Auth(deps.Sessions, cfg.CookieName)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	authHandler := handler.NewAuthHandler(deps.Users, deps.Sessions, cookie, log)
	userHandler := handler.NewUserHandler(deps.Users)
	employeeHandler := handler.NewEmployeeHandler(deps.Employees)
	pageHandler := handler.NewPageHandler(deps.Users, deps.Sessions, cookie, cfg.LoginRedirectURL, log)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Pages ---
	e.GET("/", pageHandler.Main)
	e.POST("/login", pageHandler.Login)
	e.GET("/register", pageHandler.RegisterForm)
	e.POST("/register", pageHandler.Register)
	e.GET("/check", pageHandler.Check, auth)
	e.GET("/logout", pageHandler.Logout)

	// --- JSON API ---
	apiGroup := e.Group(apiPrefix)

	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/logout", authHandler.Logout)
	authGroup.GET("/validate", authHandler.Validate, auth)
	authGroup.PUT("/password/update", authHandler.UpdatePassword, auth)
	authGroup.POST("/password/reset", authHandler.ResetPassword)

	userGroup := apiGroup.Group("/user")
	userGroup.GET("/me", userHandler.Me, auth)
	userGroup.PUT("/me", userHandler.UpdateMe, auth)
	userGroup.GET("/all", userHandler.List, auth, adminOnly)
	userGroup.GET("/admin_only", userHandler.AdminOnly, auth, adminOnly)
	userGroup.POST("/admin", userHandler.CreateAdmin, auth, adminOnly)
	userGroup.DELETE("/:id", userHandler.Delete, auth, adminOnly)
	userGroup.GET("/:id", userHandler.GetByID)
	userGroup.GET("/email/:email", userHandler.GetByEmail)

	apiGroup.GET("/employee/me", employeeHandler.Me, auth)
	apiGroup.GET("/skill/all", employeeHandler.Skills)

	return e, nil
}

func anyOrigin(origins []string) bool {
	return slices.Contains(origins, "*")
}

// requestLogger emits one zerolog entry per request.
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
			event := log.Info()
			if v.Status >= 500 {
				event = log.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
