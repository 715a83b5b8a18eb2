package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned in the JSON body alongside the message.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeIllegalTransition = "ILLEGAL_TRANSITION"
	CodeResourceExhausted = "RESOURCE_EXHAUSTED"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
)

// AppError is the application error taxonomy. Anything that is not an
// AppError reaches the client as a generic 500.
type AppError struct {
	Code    string
	Status  int
	Message string
}

func (e *AppError) Error() string { return e.Message }

func ValidationError(format string, args ...interface{}) *AppError {
	return &AppError{Code: CodeValidation, Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

func UnauthorizedError(msg string) *AppError {
	return &AppError{Code: CodeUnauthorized, Status: http.StatusUnauthorized, Message: msg}
}

func ForbiddenError(msg string) *AppError {
	return &AppError{Code: CodeForbidden, Status: http.StatusForbidden, Message: msg}
}

func NotFoundError(format string, args ...interface{}) *AppError {
	return &AppError{Code: CodeNotFound, Status: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

func ConflictError(msg string) *AppError {
	return &AppError{Code: CodeConflict, Status: http.StatusConflict, Message: msg}
}

func IllegalTransitionError(from, to string) *AppError {
	return &AppError{
		Code:    CodeIllegalTransition,
		Status:  http.StatusConflict,
		Message: fmt.Sprintf("cannot transition appointment from %q to %q", from, to),
	}
}

func ResourceExhaustedError(msg string) *AppError {
	return &AppError{Code: CodeResourceExhausted, Status: http.StatusBadRequest, Message: msg}
}

func InsufficientStockError(name string, available, requested int) *AppError {
	return &AppError{
		Code:    CodeInsufficientStock,
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf("insufficient stock for %s: available %d, requested %d", name, available, requested),
	}
}

// AsAppError unwraps err into an *AppError if it is one.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
