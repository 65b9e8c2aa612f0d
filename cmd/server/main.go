package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"userauth/docs"
	"userauth/internal/auth"
	"userauth/internal/cache"
	"userauth/internal/config"
	"userauth/internal/handler"
	"userauth/internal/logging"
	"userauth/internal/metrics"
	"userauth/internal/router"
	"userauth/internal/service"
	"userauth/internal/store"
)

// @title User Auth API
// @version 1.0
// @description Signup, login, logout and profile endpoints backed by cookie-carried JWTs.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name token
func main() {
	cfg := config.Load()
	logger := logging.Default("api", cfg.LogLevel, cfg.LogFormat)

	if cfg.JWTSecret == "change-me" {
		if cfg.IsProduction() {
			logger.Error("JWT_SECRET must be set in production")
			os.Exit(1)
		}
		logger.Warn("using the default JWT secret; set JWT_SECRET")
	}

	ctx := context.Background()

	users, closeStore, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("open user store", slog.String("driver", cfg.DBDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cacheClient.Ping(ctx); err != nil {
		logger.Warn("redis unavailable, profile cache disabled until it recovers", slog.String("error", err.Error()))
	}
	defer cacheClient.Close()

	m := metrics.New("userauth")
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)
	authService := service.NewAuthService(users, jwtService, cacheClient, m)
	authHandler := handler.NewAuthHandler(authService, cfg.Cookie)

	if cfg.SwaggerHost != "" {
		host := strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
		docs.SwaggerInfo.Host = host
	} else {
		docs.SwaggerInfo.Host = "localhost:" + cfg.ServerPort
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, router.Deps{
		Config:      cfg,
		Logger:      logger,
		Metrics:     m,
		JWT:         jwtService,
		AuthService: authService,
		AuthHandler: authHandler,
	})

	addr := ":" + cfg.ServerPort
	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("driver", cfg.DBDriver),
			slog.String("swagger", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html"),
		)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server start", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", slog.String("error", err.Error()))
	}
	logger.Info("server exited")
}
