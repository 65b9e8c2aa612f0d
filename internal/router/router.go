package router

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"userauth/internal/auth"
	"userauth/internal/config"
	apperrors "userauth/internal/errors"
	"userauth/internal/handler"
	"userauth/internal/logging"
	"userauth/internal/metrics"
	"userauth/internal/service"
)

// Deps are the collaborators the routes are wired to.
type Deps struct {
	Config      *config.Config
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
	JWT         *auth.JWTService
	AuthService service.AuthService
	AuthHandler *handler.AuthHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, d Deps) {
	e.HTTPErrorHandler = apperrors.Responder(d.Logger, d.Config.IsProduction())

	e.Use(middleware.RequestID())
	e.Use(logging.RequestLogger(d.Logger))
	e.Use(middleware.Recover())
	if d.Metrics != nil {
		e.Use(d.Metrics.Middleware())
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	authGroup := api.Group("/auth")

	authGroup.POST("/signup", d.AuthHandler.Signup)
	authGroup.POST("/login", d.AuthHandler.Login)
	authGroup.GET("/logout", d.AuthHandler.Logout)
	authGroup.POST("/logout", d.AuthHandler.Logout)

	// Authentication is resolved here, but the handler decides whether an
	// anonymous request is acceptable.
	authGroup.GET("/profile", d.AuthHandler.GetProfile,
		auth.Authenticate(d.JWT),
		auth.AttachUser(d.AuthService),
	)
}
