package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for the client's failure conditions.
var (
	ErrSessionRequired = errors.New("session required")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrNotFound        = errors.New("resource not found")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrBackend         = errors.New("backend request failed")
	ErrInternal        = errors.New("internal error")
)

// AppError represents a structured application error. Status carries the HTTP
// status of the backend response that produced the error, or a conventional
// mapping for locally raised conditions.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// SessionRequired creates the error raised when an anonymous visitor attempts
// an action that needs an active user session.
func SessionRequired(action string) *AppError {
	return &AppError{
		Code:    "SESSION_REQUIRED",
		Message: fmt.Sprintf("debe iniciar sesión para %s", action),
		Status:  http.StatusUnauthorized,
		Err:     ErrSessionRequired,
	}
}

// EmptyCart creates the error raised when checkout is attempted on an empty cart.
func EmptyCart() *AppError {
	return &AppError{
		Code:    "EMPTY_CART",
		Message: "no hay productos en el carrito",
		Status:  http.StatusBadRequest,
		Err:     ErrEmptyCart,
	}
}

// NotFound creates a not-found error for the given resource.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// IndexOutOfRange creates the error raised when a cart line index does not
// reference an existing line (a stale index from a concurrent render).
func IndexOutOfRange(index, length int) *AppError {
	return &AppError{
		Code:    "INDEX_OUT_OF_RANGE",
		Message: fmt.Sprintf("line index %d out of range for cart of %d lines", index, length),
		Status:  http.StatusBadRequest,
		Err:     ErrIndexOutOfRange,
	}
}

// InvalidInput creates a validation error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// Unauthorized creates an authentication error.
func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthorized,
	}
}

// Backend creates an error for a failed request to the REST backend, keeping
// the HTTP status the backend answered with.
func Backend(status int, message string) *AppError {
	return &AppError{
		Code:    "BACKEND_ERROR",
		Message: message,
		Status:  status,
		Err:     ErrBackend,
	}
}

// Internal creates an unexpected internal error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}
