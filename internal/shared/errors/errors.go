package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies an AppError; response.StatusCode maps it to HTTP
type ErrorType string

const (
	// ErrorTypeNotFound marks a missing system or planet
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeValidation marks bad input, such as a non-positive star mass
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeUnauthorized marks a missing or invalid bearer token
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	// ErrorTypeForbidden marks a valid token without the admin role
	ErrorTypeForbidden ErrorType = "forbidden"
	// ErrorTypeInternal marks a failure inside the service or the simulation engines
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeExternal marks a database or cache failure
	ErrorTypeExternal ErrorType = "external"
)

// AppError carries a type, a client-facing message and an optional cause
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newError(t ErrorType, message string, cause error) error {
	return &AppError{Type: t, Message: message, Err: cause}
}

func NotFoundf(format string, args ...any) error {
	return newError(ErrorTypeNotFound, fmt.Sprintf(format, args...), nil)
}

func Validation(message string) error {
	return newError(ErrorTypeValidation, message, nil)
}

func Validationf(format string, args ...any) error {
	return newError(ErrorTypeValidation, fmt.Sprintf(format, args...), nil)
}

// WrapValidation keeps the parse or decode error as the cause
func WrapValidation(message string, err error) error {
	return newError(ErrorTypeValidation, message, err)
}

func Internalf(format string, args ...any) error {
	return newError(ErrorTypeInternal, fmt.Sprintf(format, args...), nil)
}

func WrapInternal(message string, err error) error {
	return newError(ErrorTypeInternal, message, err)
}

func Unauthorized(message string) error {
	return newError(ErrorTypeUnauthorized, message, nil)
}

func Forbidden(message string) error {
	return newError(ErrorTypeForbidden, message, nil)
}

// WrapExternal marks a failure of postgres or redis
func WrapExternal(message string, err error) error {
	return newError(ErrorTypeExternal, message, err)
}

// GetType returns the type of the first AppError in err's chain.
// Errors without one count as internal.
func GetType(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// IsType reports whether err is non-nil and carries the given type
func IsType(err error, errorType ErrorType) bool {
	return err != nil && GetType(err) == errorType
}
