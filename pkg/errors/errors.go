package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"

	// Dotfiles directory errors
	ErrNoDotfilesDir   ErrorCode = "NO_DOTFILES_DIR"
	ErrNotInDotfiles   ErrorCode = "NOT_IN_DOTFILES"
	ErrGroupNotFound   ErrorCode = "GROUP_NOT_FOUND"
	ErrUnreadableEntry ErrorCode = "UNREADABLE_ENTRY"

	// Symlink errors
	ErrSymlinkExists ErrorCode = "SYMLINK_EXISTS"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrSymlinkRemove ErrorCode = "SYMLINK_REMOVE"

	// Secrets errors
	ErrEncryptionFailed ErrorCode = "ENCRYPTION_FAILED"
	ErrDecryptionFailed ErrorCode = "DECRYPTION_FAILED"

	// Hook errors
	ErrHookFailed ErrorCode = "HOOK_FAILED"

	// Config errors
	ErrConfigLoad ErrorCode = "CONFIG_LOAD"
)

// TuckError represents a structured error with code and details
type TuckError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *TuckError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *TuckError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *TuckError) Is(target error) bool {
	var targetErr *TuckError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new TuckError with the given code and message
func New(code ErrorCode, message string) *TuckError {
	return &TuckError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new TuckError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *TuckError {
	return &TuckError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a TuckError
func Wrap(err error, code ErrorCode, message string) *TuckError {
	if err == nil {
		return nil
	}
	return &TuckError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *TuckError {
	if err == nil {
		return nil
	}
	return &TuckError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *TuckError) WithDetail(key string, value interface{}) *TuckError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if any error in the chain has the given code
func IsErrorCode(err error, code ErrorCode) bool {
	for err != nil {
		var tuckErr *TuckError
		if !errors.As(err, &tuckErr) {
			return false
		}
		if tuckErr.Code == code {
			return true
		}
		err = tuckErr.Unwrap()
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a TuckError
func GetErrorCode(err error) ErrorCode {
	var tuckErr *TuckError
	if errors.As(err, &tuckErr) {
		return tuckErr.Code
	}
	return ErrUnknown
}
