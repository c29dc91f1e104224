package errors

import "fmt"

// ErrorCode represents a divdata error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrCancelled      ErrorCode = "CANCELLED"       // 499
	ErrParseFailed    ErrorCode = "PARSE_FAILED"    // 422
	ErrPersistFailed  ErrorCode = "PERSIST_FAILED"  // 500
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// DivError represents a structured error with code, status, and details.
type DivError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *DivError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *DivError {
	return &DivError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewOutOfRange creates a 400 error for a channel or detector outside its domain.
func NewOutOfRange(field string, value, min, max int) *DivError {
	return &DivError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: fmt.Sprintf("%s must be between %d and %d, got %d", field, min, max, value),
		Details: map[string]any{"field": field, "value": value, "min": min, "max": max},
	}
}

// NewNotFound creates a 404 error for when a history record cannot be found.
func NewNotFound(identifier string) *DivError {
	return &DivError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("retrieval not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewCancelled creates an error for an operation stopped by context cancellation.
func NewCancelled(op string) *DivError {
	return &DivError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", op),
		Details: map[string]any{"operation": op},
	}
}

// NewParseFailed creates a 422 error for a malformed line in the pipeline text output.
func NewParseFailed(path string, line int, msg string) *DivError {
	return &DivError{
		Code:    ErrParseFailed,
		Status:  422,
		Message: fmt.Sprintf("%s:%d: %s", path, line, msg),
		Details: map[string]any{"path": path, "line": line},
	}
}

// NewPersistFailed creates a 500 error when the table file cannot be written.
func NewPersistFailed(path string, err error) *DivError {
	return &DivError{
		Code:    ErrPersistFailed,
		Status:  500,
		Message: fmt.Sprintf("failed to write %s: %v", path, err),
		Details: map[string]any{"path": path},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *DivError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &DivError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a DivError with the given code.
func Is(err error, code ErrorCode) bool {
	if dErr, ok := err.(*DivError); ok {
		return dErr.Code == code
	}
	return false
}
