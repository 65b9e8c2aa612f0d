package errors

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runResponder(t *testing.T, err error, production bool) (int, ErrorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	Responder(logger, production)(err, c)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestResponder(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		production  bool
		wantStatus  int
		wantMessage string
		wantStack   bool
	}{
		{
			name:        "bad request keeps message",
			err:         BadRequest("User already exists"),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "User already exists",
			wantStack:   true,
		},
		{
			name:        "unauthorized",
			err:         Unauthorized("User not found"),
			production:  true,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "User not found",
		},
		{
			name:        "wrapped app error",
			err:         fmt.Errorf("handler: %w", BadRequest("Password is incorrect")),
			production:  true,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Password is incorrect",
		},
		{
			name:        "echo http error",
			err:         echo.ErrNotFound,
			production:  true,
			wantStatus:  http.StatusNotFound,
			wantMessage: "Not Found",
		},
		{
			name:        "plain error in development",
			err:         fmt.Errorf("connection refused"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "connection refused",
			wantStack:   true,
		},
		{
			name:        "plain error in production hides detail",
			err:         fmt.Errorf("connection refused"),
			production:  true,
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Internal Server Error",
		},
		{
			name:        "unexpected error in production hides detail",
			err:         Unexpected(fmt.Errorf("dial tcp: timeout")),
			production:  true,
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := runResponder(t, tt.err, tt.production)
			assert.Equal(t, tt.wantStatus, status)
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantMessage, body.Message)
			if tt.wantStack {
				assert.NotEmpty(t, body.Stack)
			} else {
				assert.Empty(t, body.Stack)
			}
		})
	}
}

func TestValidationJoinsFieldMessagesInOrder(t *testing.T) {
	err := Validation(map[string]string{
		"password": "Password must be at least 8 characters",
		"name":     "Name is required",
	}, []string{"name", "email", "password"})

	assert.Equal(t, KindValidation, err.Kind)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "Name is required, Password must be at least 8 characters", err.Message)
	assert.Len(t, err.Fields, 2)
}

func TestUnexpectedUnwrapsToCause(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Unexpected(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindUnexpected, err.Kind)
	appErr, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, appErr.StatusCode)
}

func TestIncompleteIsValidationKind(t *testing.T) {
	err := Incomplete("Please fill all fields")

	assert.Equal(t, KindValidation, err.Kind)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "Please fill all fields", err.Error())
	assert.Empty(t, err.Fields)
}
