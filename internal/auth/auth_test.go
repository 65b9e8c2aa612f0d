package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userauth/internal/model"
	"userauth/internal/repository"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, err := svc.GenerateToken("user-1", model.RoleAdmin)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTService_DefaultExpiry(t *testing.T) {
	svc := NewJWTService("test-secret", 0)
	assert.Equal(t, DefaultTokenExpiry, svc.Expiry())
}

func TestJWTService_Rejects(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	expired := NewJWTService("test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, err := expired.GenerateToken("user-1", model.RoleUser)
	require.NoError(t, err)

	otherKey, err := NewJWTService("other-secret", time.Hour).GenerateToken("user-1", model.RoleUser)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expiredToken},
		{"wrong secret", otherKey},
		{"garbage", "not-a-token"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.ValidateToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

type fakeLoader struct {
	users map[string]*model.UserView
	err   error
}

func (f *fakeLoader) CurrentUser(_ context.Context, userID string) (*model.UserView, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func serve(t *testing.T, jwtService *JWTService, loader UserLoader, prepare func(*http.Request)) (*httptest.ResponseRecorder, *model.UserView) {
	t.Helper()
	e := echo.New()
	var seen *model.UserView
	e.GET("/me", func(c echo.Context) error {
		seen, _ = UserFromContext(c)
		return c.NoContent(http.StatusNoContent)
	}, Authenticate(jwtService), AttachUser(loader))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if prepare != nil {
		prepare(req)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, seen
}

func TestMiddleware_AttachesUser(t *testing.T) {
	jwtService := NewJWTService("test-secret", time.Hour)
	alice := &model.UserView{ID: "user-1", Name: "Alice", Email: "alice@example.com", Role: model.RoleUser}
	loader := &fakeLoader{users: map[string]*model.UserView{"user-1": alice}}

	token, err := jwtService.GenerateToken("user-1", model.RoleUser)
	require.NoError(t, err)

	t.Run("cookie", func(t *testing.T) {
		rec, seen := serve(t, jwtService, loader, func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: CookieName, Value: token})
		})
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, alice, seen)
	})

	t.Run("bearer header", func(t *testing.T) {
		rec, seen := serve(t, jwtService, loader, func(r *http.Request) {
			r.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		})
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, alice, seen)
	})
}

func TestMiddleware_PassesThroughUnauthenticated(t *testing.T) {
	jwtService := NewJWTService("test-secret", time.Hour)
	loader := &fakeLoader{users: map[string]*model.UserView{}}

	deleted, err := jwtService.GenerateToken("gone", model.RoleUser)
	require.NoError(t, err)

	tests := []struct {
		name    string
		prepare func(*http.Request)
	}{
		{"no token", nil},
		{"invalid cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: CookieName, Value: "bogus"})
		}},
		{"user deleted", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: CookieName, Value: deleted})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, seen := serve(t, jwtService, loader, tt.prepare)
			assert.Equal(t, http.StatusNoContent, rec.Code)
			assert.Nil(t, seen)
		})
	}
}

func TestMiddleware_LoaderFailure(t *testing.T) {
	jwtService := NewJWTService("test-secret", time.Hour)
	loader := &fakeLoader{err: assert.AnError}

	token, err := jwtService.GenerateToken("user-1", model.RoleUser)
	require.NoError(t, err)

	rec, seen := serve(t, jwtService, loader, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Nil(t, seen)
}
