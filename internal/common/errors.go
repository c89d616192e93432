package common

import (
	"errors"
	"net/http"
)

// CodeInvalidArgument marks input rejected by validation or business rules.
const CodeInvalidArgument = "INVALID_ARGUMENT"

// ErrInvalidArgument is the sentinel wrapped by every invalid argument error.
var ErrInvalidArgument = errors.New("invalid argument")

// AppError represents an error with an attached code and HTTP status.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

// Error implements the error interface. The message wins over the wrapped error.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Code
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewAppError constructs an AppError.
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// InvalidArgument builds the client error used for every validation failure.
func InvalidArgument(message string) *AppError {
	return NewAppError(CodeInvalidArgument, message, http.StatusBadRequest, ErrInvalidArgument)
}

// IsAppError checks whether the error is an AppError.
func IsAppError(err error) bool {
	var target *AppError
	return errors.As(err, &target)
}

// IsInvalidArgument reports whether err carries the invalid argument kind.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}
