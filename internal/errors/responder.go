package errors

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Responder returns the echo.HTTPErrorHandler that shapes every error body.
// Stack traces are only included when production is false.
func Responder(logger *slog.Logger, production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, resp := toResponse(err, production)
		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				slog.String("method", c.Request().Method),
				slog.String("path", c.Path()),
				slog.Int("status", status),
				slog.String("error", fmt.Sprintf("%v", err)),
			)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, resp)
		}
		if writeErr != nil {
			logger.Error("write error response", slog.String("error", writeErr.Error()))
		}
	}
}

func toResponse(err error, production bool) (int, ErrorResponse) {
	resp := ErrorResponse{Success: false}

	if appErr, ok := As(err); ok {
		resp.Message = appErr.Message
		resp.Errors = appErr.Fields
		if !production {
			resp.Stack = appErr.Stack()
		}
		status := appErr.StatusCode
		if status == 0 {
			status = http.StatusInternalServerError
		}
		if production && status >= http.StatusInternalServerError {
			resp.Message = http.StatusText(status)
		}
		return status, resp
	}

	if he, ok := err.(*echo.HTTPError); ok {
		resp.Message = fmt.Sprintf("%v", he.Message)
		if production && he.Code >= http.StatusInternalServerError {
			resp.Message = http.StatusText(he.Code)
		}
		return he.Code, resp
	}

	resp.Message = http.StatusText(http.StatusInternalServerError)
	if !production {
		resp.Message = err.Error()
		resp.Stack = fmt.Sprintf("%+v", err)
	}
	return http.StatusInternalServerError, resp
}
