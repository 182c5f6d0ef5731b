package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"toolinventory/internal/api/dto"
	"toolinventory/internal/api/middleware"
	"toolinventory/internal/api/services"
)

const (
	errValidationFailed = "Validation failed"
	errToolNotFound     = "Tool not found"
	errInternal         = "Internal server error"
	errRequestFailed    = "Request failed"

	msgDatabaseFailed = "Database connection failed"
)

// NewHTTPErrorHandler renders every error that reaches echo, including router-level ones,
// in the API error envelope. Server-side failures are logged and never echoed to the client.
func NewHTTPErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := TranslateError(err)
		req := c.Request()
		if status >= http.StatusInternalServerError {
			logger.ErrorContext(req.Context(), "request failed",
				"method", req.Method,
				"path", req.URL.Path,
				"request_id", middleware.RequestIDFromContext(req.Context()),
				"error", err,
			)
		}

		var writeErr error
		if req.Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			logger.ErrorContext(req.Context(), "write error response", "error", writeErr)
		}
	}
}

// TranslateError maps err to an HTTP status and the error envelope.
func TranslateError(err error) (int, *dto.ErrorResponse) {
	if svcErr, ok := services.AsError(err); ok {
		switch svcErr.Kind {
		case services.KindValidation:
			return http.StatusBadRequest, &dto.ErrorResponse{Error: errValidationFailed, Details: svcErr.Details}
		case services.KindNotFound:
			return http.StatusNotFound, &dto.ErrorResponse{Error: errToolNotFound, Message: svcErr.Message}
		default:
			return internalError()
		}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := httpMessage(httpErr)
		switch {
		case httpErr.Code == http.StatusBadRequest:
			return http.StatusBadRequest, &dto.ErrorResponse{
				Error:   errValidationFailed,
				Details: map[string]string{"general": message},
			}
		case httpErr.Code == http.StatusNotFound:
			return http.StatusNotFound, &dto.ErrorResponse{Error: errToolNotFound, Message: message}
		case httpErr.Code >= http.StatusInternalServerError:
			return internalError()
		default:
			return httpErr.Code, &dto.ErrorResponse{Error: errRequestFailed, Message: message}
		}
	}

	return internalError()
}

func internalError() (int, *dto.ErrorResponse) {
	return http.StatusInternalServerError, &dto.ErrorResponse{Error: errInternal, Message: msgDatabaseFailed}
}

func httpMessage(err *echo.HTTPError) string {
	if msg, ok := err.Message.(string); ok {
		return msg
	}
	if err.Message == nil {
		return http.StatusText(err.Code)
	}
	return fmt.Sprint(err.Message)
}
