package models

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced to API clients.
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeConflict       = "CONFLICT"
	CodeRateLimit      = "RATE_LIMIT_EXCEEDED"
	CodeActiveHold     = "ACTIVE_HOLD_EXISTS"
	CodeHoldExpired    = "HOLD_EXPIRED"
	CodeHoldInactive   = "HOLD_INACTIVE"
	CodeAlreadyHandled = "ALREADY_HANDLED_OR_EXPIRED"
	CodeNotFound       = "NOT_FOUND"
)

// ServiceError is a business failure with a stable code and HTTP status.
type ServiceError struct {
	Code    string
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AsServiceError unwraps err into a *ServiceError if it is one.
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

func NewValidationError(format string, args ...any) error {
	return &ServiceError{Code: CodeValidation, Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// NewConflictError marks an interval as unavailable at write time. Expected
// under contention; callers should not log it as a server error.
func NewConflictError(format string, args ...any) error {
	return &ServiceError{Code: CodeConflict, Status: http.StatusConflict, Message: fmt.Sprintf(format, args...)}
}

func NewRateLimitError(message string) error {
	return &ServiceError{Code: CodeRateLimit, Status: http.StatusTooManyRequests, Message: message}
}

func NewActiveHoldError(message string) error {
	return &ServiceError{Code: CodeActiveHold, Status: http.StatusTooManyRequests, Message: message}
}

func NewHoldExpiredError(holdID string) error {
	return &ServiceError{Code: CodeHoldExpired, Status: http.StatusGone, Message: fmt.Sprintf("hold %s has expired", holdID)}
}

func NewHoldInactiveError(holdID string) error {
	return &ServiceError{Code: CodeHoldInactive, Status: http.StatusGone, Message: fmt.Sprintf("hold %s is no longer active", holdID)}
}

func NewAlreadyHandledError(requestID string) error {
	return &ServiceError{Code: CodeAlreadyHandled, Status: http.StatusConflict, Message: fmt.Sprintf("request %s was already handled or has expired", requestID)}
}

func NewNotFoundError(format string, args ...any) error {
	return &ServiceError{Code: CodeNotFound, Status: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}
