// Package apperrors holds the business errors handlers return. The error
// middleware renders them as {"detail": message} with their status code.
package apperrors

import (
	"errors"
	"net/http"
)

type BusinessError struct {
	Message    string
	StatusCode int
}

func (e *BusinessError) Error() string { return e.Message }

func New(message string, status int) *BusinessError {
	return &BusinessError{Message: message, StatusCode: status}
}

func orDefault(message, def string) string {
	if message == "" {
		return def
	}
	return message
}

func RecordNotFound(message string) *BusinessError {
	return New(orDefault(message, "Record not found"), http.StatusNotFound)
}

func Conflict(message string) *BusinessError {
	return New(orDefault(message, "Conflict"), http.StatusConflict)
}

func Unauthorized(message string) *BusinessError {
	return New(orDefault(message, "Unauthorized"), http.StatusUnauthorized)
}

func Forbidden(message string) *BusinessError {
	return New(orDefault(message, "Forbidden"), http.StatusForbidden)
}

func Validation(message string) *BusinessError {
	return New(orDefault(message, "Validation error"), http.StatusUnprocessableEntity)
}

func InternalServer(message string) *BusinessError {
	return New(orDefault(message, "Internal server error"), http.StatusInternalServerError)
}

// BadRequest is used where the API answers 400, e.g. a duplicate email on
// registration.
func BadRequest(message string) *BusinessError {
	return New(orDefault(message, "Bad request"), http.StatusBadRequest)
}

// As returns the BusinessError in err's chain, if any.
func As(err error) (*BusinessError, bool) {
	var be *BusinessError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}
