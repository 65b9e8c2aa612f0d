package errors

import (
	"fmt"
	"net/http"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Kind classifies an AppError.
type Kind string

const (
	KindValidation     Kind = "ValidationError"
	KindAuthentication Kind = "AuthenticationError"
	KindAuthorization  Kind = "AuthorizationError"
	KindUnexpected     Kind = "UnexpectedError"
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
	Stack   string            `json:"stack,omitempty"`
}

// AppError is a failure carrying the HTTP status it should be answered with.
type AppError struct {
	Kind       Kind
	StatusCode int
	Message    string
	// Fields holds per-field messages for validation failures.
	Fields map[string]string

	cause error
}

func (e *AppError) Error() string {
	return e.Message
}

// Unwrap exposes the wrapped cause, if any.
func (e *AppError) Unwrap() error {
	return pkgerrors.Cause(e.cause)
}

// Stack renders the stack trace recorded when the error was created.
func (e *AppError) Stack() string {
	return fmt.Sprintf("%+v", e.cause)
}

func newAppError(kind Kind, status int, message string, cause error) *AppError {
	if cause == nil {
		cause = pkgerrors.New(message)
	} else {
		cause = pkgerrors.WithStack(cause)
	}
	return &AppError{
		Kind:       kind,
		StatusCode: status,
		Message:    message,
		cause:      cause,
	}
}

// BadRequest builds a 400 for rejected credentials or an existing account.
func BadRequest(message string) *AppError {
	return newAppError(KindAuthentication, http.StatusBadRequest, message, nil)
}

// Incomplete builds a 400 validation failure for required input that is
// missing before any field-level checks run.
func Incomplete(message string) *AppError {
	return newAppError(KindValidation, http.StatusBadRequest, message, nil)
}

// Validation builds a 400 from field-level messages. Fields are reported in
// the order given by order.
func Validation(fields map[string]string, order []string) *AppError {
	msgs := make([]string, 0, len(order))
	for _, f := range order {
		if m, ok := fields[f]; ok {
			msgs = append(msgs, m)
		}
	}
	e := newAppError(KindValidation, http.StatusBadRequest, strings.Join(msgs, ", "), nil)
	e.Fields = fields
	return e
}

// Unauthorized builds a 401 for a missing authenticated context.
func Unauthorized(message string) *AppError {
	return newAppError(KindAuthorization, http.StatusUnauthorized, message, nil)
}

// Unexpected wraps any other failure as a 500.
func Unexpected(err error) *AppError {
	return newAppError(KindUnexpected, http.StatusInternalServerError, err.Error(), err)
}

// As reports whether err is, or wraps, an *AppError.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if pkgerrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
