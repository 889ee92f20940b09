package common

import (
	"errors"
	"fmt"
	"net/http"

	"opsmanual/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// ErrorKind is the stable, caller-visible error category.
type ErrorKind string

const (
	KindUnauthenticated       ErrorKind = "UNAUTHENTICATED"
	KindForbidden             ErrorKind = "FORBIDDEN"
	KindInvalidCredentials    ErrorKind = "INVALID_CREDENTIALS"
	KindInvalidRefreshToken   ErrorKind = "INVALID_REFRESH_TOKEN"
	KindInvalidOrExpiredToken ErrorKind = "INVALID_OR_EXPIRED_TOKEN"
	KindValidation            ErrorKind = "VALIDATION_ERROR"
	KindNotFound              ErrorKind = "NOT_FOUND"
	KindConflict              ErrorKind = "CONFLICT"
	KindInternal              ErrorKind = "SERVER_ERROR"
)

var kindStatus = map[ErrorKind]int{
	KindUnauthenticated:       http.StatusUnauthorized,
	KindForbidden:             http.StatusForbidden,
	KindInvalidCredentials:    http.StatusUnauthorized,
	KindInvalidRefreshToken:   http.StatusUnauthorized,
	KindInvalidOrExpiredToken: http.StatusBadRequest,
	KindValidation:            http.StatusBadRequest,
	KindNotFound:              http.StatusNotFound,
	KindConflict:              http.StatusConflict,
	KindInternal:              http.StatusInternalServerError,
}

// AppError is an error with a stable kind and a caller-safe message.
type AppError struct {
	Kind    ErrorKind
	Message string
	Details map[string]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError of the same kind.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Kind == e.Kind
}

// StatusCode returns the HTTP status for the error kind.
func (e *AppError) StatusCode() int {
	if status, ok := kindStatus[e.Kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

var (
	ErrUnauthenticated       = &AppError{Kind: KindUnauthenticated, Message: "Authentication required"}
	ErrForbidden             = &AppError{Kind: KindForbidden, Message: "Insufficient permissions"}
	ErrInvalidCredentials    = &AppError{Kind: KindInvalidCredentials, Message: "Invalid credentials"}
	ErrInvalidRefreshToken   = &AppError{Kind: KindInvalidRefreshToken, Message: "Invalid refresh token"}
	ErrInvalidOrExpiredToken = &AppError{Kind: KindInvalidOrExpiredToken, Message: "Invalid or expired reset token"}
	ErrValidation            = &AppError{Kind: KindValidation, Message: "Validation failed"}
	ErrNotFound              = &AppError{Kind: KindNotFound, Message: "Resource not found"}
	ErrConflict              = &AppError{Kind: KindConflict, Message: "Resource already exists"}
)

func NewUnauthenticatedError(message string) *AppError {
	return &AppError{Kind: KindUnauthenticated, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Kind: KindForbidden, Message: message}
}

func NewValidationError(field, message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Details: map[string]string{field: message}}
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func NewConflictError(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

// NewInternalError wraps err; its text is only shown in development mode.
func NewInternalError(message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// SendValidationError sends a validation error response
func SendValidationError(c echo.Context, field, message string) error {
	return c.JSON(http.StatusBadRequest, CreateErrorResponse(string(KindValidation), "Validation failed", map[string]string{field: message}))
}

// HTTPErrorHandler renders every error as an ErrorResponse. Internal error text
// is added to the details only when debug is set.
func HTTPErrorHandler(debug bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		code := string(KindInternal)
		message := "Internal server error"
		var details map[string]string

		var appErr *AppError
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &appErr):
			status = appErr.StatusCode()
			code = string(appErr.Kind)
			message = appErr.Message
			details = appErr.Details
		case errors.As(err, &httpErr):
			status = httpErr.Code
			code = httpStatusKind(httpErr.Code)
			message = fmt.Sprint(httpErr.Message)
		}

		if status >= http.StatusInternalServerError {
			logger.Log.WithFields(logrus.Fields{
				"method": c.Request().Method,
				"uri":    c.Request().RequestURI,
			}).WithError(err).Error("request failed")
			if debug {
				details = map[string]string{"error": err.Error()}
			}
		}

		var sendErr error
		if c.Request().Method == http.MethodHead {
			sendErr = c.NoContent(status)
		} else {
			sendErr = c.JSON(status, CreateErrorResponse(code, message, details))
		}
		if sendErr != nil {
			logger.Log.WithError(sendErr).Warn("failed to write error response")
		}
	}
}

func httpStatusKind(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return string(KindUnauthenticated)
	case http.StatusForbidden:
		return string(KindForbidden)
	case http.StatusNotFound:
		return string(KindNotFound)
	case http.StatusConflict:
		return string(KindConflict)
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusRequestEntityTooLarge:
		return string(KindValidation)
	}
	if status >= http.StatusInternalServerError {
		return string(KindInternal)
	}
	return "CLIENT_ERROR"
}
