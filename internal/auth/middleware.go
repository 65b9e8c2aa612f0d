package auth

import (
	"context"
	"errors"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"userauth/internal/model"
	"userauth/internal/repository"
)

const (
	// CookieName is the cookie carrying the signed token.
	CookieName = "token"

	claimsContextKey = "auth.claims"
	userContextKey   = "auth.user"
)

// UserLoader resolves the user a verified token belongs to.
type UserLoader interface {
	CurrentUser(ctx context.Context, userID string) (*model.UserView, error)
}

// Authenticate verifies the token from the Authorization header or the token
// cookie. Requests without a valid token are passed through unauthenticated.
func Authenticate(jwtService *JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  claimsContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ,cookie:" + CookieName,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return jwtService.ValidateToken(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return nil
		},
		ContinueOnIgnoredError: true,
	})
}

// AttachUser loads the user for verified claims into the request context.
// A token whose user no longer exists leaves the request unauthenticated.
func AttachUser(loader UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(claimsContextKey).(*Claims)
			if !ok || claims == nil {
				return next(c)
			}

			user, err := loader.CurrentUser(c.Request().Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return next(c)
				}
				return err
			}
			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(c echo.Context) (*model.UserView, bool) {
	user, ok := c.Get(userContextKey).(*model.UserView)
	return user, ok && user != nil
}

// ClaimsFromContext returns the verified token claims, if any.
func ClaimsFromContext(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(claimsContextKey).(*Claims)
	return claims, ok && claims != nil
}
