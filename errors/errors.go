package errors

import (
	"context"
	stderrors "errors"
	"fmt"
)

// FoldError is the structured error type of this module.
type FoldError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *FoldError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *FoldError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *FoldError) WithCause(cause error) *FoldError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *FoldError) WithDetails(details map[string]any) *FoldError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *FoldError) WithDetail(key string, value any) *FoldError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new FoldError.
func New(code ErrorCode, message string) *FoldError {
	return &FoldError{Code: code, Message: message}
}

// --- Constructors ---

// InvalidConfig creates a FoldError for a configuration field with a bad value.
func InvalidConfig(field, reason string) *FoldError {
	return &FoldError{
		Code:    ErrCodeInvalidConfig,
		Message: fmt.Sprintf("Invalid value for '%s': %s", field, reason),
		Details: map[string]any{"field": field, "reason": reason},
	}
}

// Validation creates a FoldError for a configuration that failed validation.
func Validation(message string) *FoldError {
	return &FoldError{Code: ErrCodeInvalidConfig, Message: message}
}

// SourceFailed wraps an error returned by an input stream. Context
// cancellation and deadlines are reported as ErrCodeCancelled.
func SourceFailed(cause error) *FoldError {
	if stderrors.Is(cause, context.Canceled) || stderrors.Is(cause, context.DeadlineExceeded) {
		return Cancelled(cause)
	}
	return &FoldError{Code: ErrCodeSourceFailed, Message: "The input stream failed.", Cause: cause}
}

// TaskFailed creates a FoldError from the value recovered from a panicking
// task. If the value is an error it becomes the cause.
func TaskFailed(recovered any) *FoldError {
	e := &FoldError{Code: ErrCodeTaskFailed, Message: fmt.Sprintf("Task panicked: %v", recovered)}
	if err, ok := recovered.(error); ok {
		e.Cause = err
	}
	return e
}

// Cancelled creates a FoldError for a run stopped by its context.
func Cancelled(cause error) *FoldError {
	return &FoldError{Code: ErrCodeCancelled, Message: "The run was cancelled.", Cause: cause}
}

// --- Helpers ---

// IsFoldError checks if an error is a FoldError.
func IsFoldError(err error) bool {
	var fe *FoldError
	return stderrors.As(err, &fe)
}

// AsFoldError converts an error to a FoldError if possible.
func AsFoldError(err error) (*FoldError, bool) {
	var fe *FoldError
	if stderrors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// HasCode reports whether err is a FoldError with the given code.
func HasCode(err error, code ErrorCode) bool {
	fe, ok := AsFoldError(err)
	return ok && fe.Code == code
}
