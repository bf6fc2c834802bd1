package app

import (
	"errors"
	"fmt"
	"net/http"

	"precinct/internal/forum"
)

type DomainError struct {
	Status  int
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func domainError(status int, code, message string) *DomainError {
	return &DomainError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

// mapError translates service errors into HTTP status, code and message.
// Store sentinels carry the domain meaning; everything unrecognized is a
// server error.
func mapError(err error) (status int, code, message string) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Status, domainErr.Code, domainErr.Message
	}
	switch {
	case errors.Is(err, forum.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "Not found"
	case errors.Is(err, forum.ErrAlreadyExists):
		return http.StatusConflict, "ALREADY_EXISTS", "Already exists"
	case errors.Is(err, forum.ErrUnauthenticated):
		return http.StatusUnauthorized, "UNAUTHENTICATED", "Sign in required"
	case errors.Is(err, forum.ErrUnauthorized):
		return http.StatusForbidden, "UNAUTHORIZED", "Forbidden"
	}
	return http.StatusInternalServerError, "SERVER_ERROR", "Server error"
}
