// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrDuplicateKey       = errors.New("duplicate key")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrUpstream           = errors.New("upstream failure")

	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// ErrInvalidTransition is a state machine violation. It matches
// ErrPreconditionFailed under errors.Is so callers that only care about
// "the booking was not in the expected state" can check one sentinel.
var ErrInvalidTransition = fmt.Errorf("invalid transition: %w", ErrPreconditionFailed)

type AppError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		StatusCode: status,
		Code:       code,
		Message:    message,
		Err:        err,
	}
}

func NotFoundError(resource string) *AppError {
	return NewAppError(
		http.StatusNotFound,
		"NOT_FOUND",
		fmt.Sprintf("%s not found", resource),
		ErrNotFound,
	)
}

func DuplicateError(field string) *AppError {
	return NewAppError(
		http.StatusConflict,
		"DUPLICATE",
		fmt.Sprintf("%s already exists", field),
		ErrDuplicateKey,
	)
}

func UnauthorizedError(message string) *AppError {
	return NewAppError(
		http.StatusUnauthorized,
		"UNAUTHORIZED",
		message,
		ErrUnauthorized,
	)
}

func ForbiddenError(message string) *AppError {
	return NewAppError(http.StatusForbidden, "FORBIDDEN", message, ErrForbidden)
}

func ValidationError(message string) *AppError {
	return NewAppError(
		http.StatusBadRequest,
		"VALIDATION_ERROR",
		message,
		ErrInvalidInput,
	)
}

func PreconditionError(message string) *AppError {
	return NewAppError(
		http.StatusConflict,
		"PRECONDITION_FAILED",
		message,
		ErrPreconditionFailed,
	)
}

func InvalidTransitionError(message string) *AppError {
	return NewAppError(
		http.StatusConflict,
		"INVALID_TRANSITION",
		message,
		ErrInvalidTransition,
	)
}

func UpstreamError(message string) *AppError {
	return NewAppError(http.StatusBadGateway, "UPSTREAM_ERROR", message, ErrUpstream)
}

func TokenExpiredError() *AppError {
	return NewAppError(
		http.StatusUnauthorized,
		"TOKEN_EXPIRED",
		"token has expired",
		ErrTokenExpired,
	)
}

func TokenInvalidError() *AppError {
	return NewAppError(
		http.StatusUnauthorized,
		"TOKEN_INVALID",
		"token is invalid",
		ErrTokenInvalid,
	)
}

// ToAppError maps a wrapped sentinel to the response it should produce.
// Unknown errors yield nil and are treated as internal failures.
func ToAppError(err error, resource string) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NotFoundError(resource)
	case errors.Is(err, ErrInvalidTransition):
		return InvalidTransitionError(err.Error())
	case errors.Is(err, ErrPreconditionFailed):
		return PreconditionError(err.Error())
	case errors.Is(err, ErrForbidden):
		return ForbiddenError("insufficient permissions")
	case errors.Is(err, ErrUnauthorized):
		return UnauthorizedError("authentication required")
	case errors.Is(err, ErrInvalidInput):
		return ValidationError(err.Error())
	case errors.Is(err, ErrDuplicateKey):
		return DuplicateError(resource)
	case errors.Is(err, ErrUpstream):
		return UpstreamError("payment provider unavailable")
	case errors.Is(err, ErrTokenExpired):
		return TokenExpiredError()
	case errors.Is(err, ErrTokenInvalid):
		return TokenInvalidError()
	}

	return nil
}
