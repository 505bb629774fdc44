// Package errors defines the error taxonomy used throughout the engine.
package errors

import (
	"errors"
	"fmt"
)

// Error codes for the graph engine. These map directly onto the five
// error kinds the engine distinguishes: malformed input, use-before-init,
// resource exhaustion, device failure, and unsupported configuration.
const (
	CodeUnknown            = "UNKNOWN_ERROR"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeNotInitialized     = "NOT_INITIALIZED"
	CodeResourceExhaustion = "RESOURCE_EXHAUSTION"
	CodeDeviceFailure      = "DEVICE_FAILURE"
	CodeUnsupported        = "UNSUPPORTED"
)

// Fatal reports whether errors carrying code should abort the run rather
// than be recoverable by the caller. ResourceExhaustion and DeviceFailure
// are fatal; the others may be handled by the caller (e.g. reprompting for
// a valid CLI flag).
func Fatal(code string) bool {
	return code == CodeResourceExhaustion || code == CodeDeviceFailure
}

// AppError represents an engine error with a stable code and message.
type AppError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target by code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError.
func New(code string, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Newf creates a new AppError with a formatted message.
func Newf(code string, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with an AppError.
func Wrap(code string, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// InvalidInput wraps err (if any) as a CodeInvalidInput error.
func InvalidInput(message string, err error) *AppError {
	return &AppError{Code: CodeInvalidInput, Message: message, Err: err}
}

// NotInitialized reports use of a component before its required setup step.
func NotInitialized(message string) *AppError {
	return &AppError{Code: CodeNotInitialized, Message: message}
}

// ResourceExhaustion reports an allocation or capacity failure. Fatal.
func ResourceExhaustion(message string, err error) *AppError {
	return &AppError{Code: CodeResourceExhaustion, Message: message, Err: err}
}

// DeviceFailure reports a failure attributed to the execution backend. Fatal.
func DeviceFailure(message string, err error) *AppError {
	return &AppError{Code: CodeDeviceFailure, Message: message, Err: err}
}

// Unsupported reports a request for a combination of inputs/flags the
// engine deliberately does not implement.
func Unsupported(message string) *AppError {
	return &AppError{Code: CodeUnsupported, Message: message}
}

// Common sentinel instances, useful with errors.Is.
var (
	ErrInvalidInput       = New(CodeInvalidInput, "invalid input")
	ErrNotInitialized     = New(CodeNotInitialized, "component not initialized")
	ErrResourceExhaustion = New(CodeResourceExhaustion, "resource exhausted")
	ErrDeviceFailure      = New(CodeDeviceFailure, "device failure")
	ErrUnsupported        = New(CodeUnsupported, "unsupported operation")
)

// IsInvalidInput reports whether err carries CodeInvalidInput.
func IsInvalidInput(err error) bool { return codeOf(err) == CodeInvalidInput }

// IsNotInitialized reports whether err carries CodeNotInitialized.
func IsNotInitialized(err error) bool { return codeOf(err) == CodeNotInitialized }

// IsResourceExhaustion reports whether err carries CodeResourceExhaustion.
func IsResourceExhaustion(err error) bool { return codeOf(err) == CodeResourceExhaustion }

// IsDeviceFailure reports whether err carries CodeDeviceFailure.
func IsDeviceFailure(err error) bool { return codeOf(err) == CodeDeviceFailure }

// IsUnsupported reports whether err carries CodeUnsupported.
func IsUnsupported(err error) bool { return codeOf(err) == CodeUnsupported }

// IsFatal reports whether err should terminate the run.
func IsFatal(err error) bool { return Fatal(codeOf(err)) }

func codeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) string {
	return codeOf(err)
}

// GetErrorMessage extracts the error message from an error.
func GetErrorMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
