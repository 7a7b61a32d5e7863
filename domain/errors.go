package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeQuota        ErrorCode = "QUOTA_EXCEEDED"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
//
// ErrProjectNotFound and ErrNotProjectOwner are deliberately distinct: a
// project that exists under another owner answers FORBIDDEN, while a task
// looked up outside its project scope answers NOT_FOUND so foreign ids are
// never confirmed.
var (
	ErrUserNotFound         = NewError(ErrCodeNotFound, "user not found")
	ErrProjectNotFound      = NewError(ErrCodeNotFound, "project not found")
	ErrTaskNotFound         = NewError(ErrCodeNotFound, "task not found")
	ErrEmailTaken           = NewError(ErrCodeConflict, "email already registered")
	ErrInvalidCredentials   = NewError(ErrCodeUnauthorized, "invalid email or password")
	ErrUnauthorized         = NewError(ErrCodeUnauthorized, "unauthorized")
	ErrNotProjectOwner      = NewError(ErrCodeForbidden, "not the project owner")
	ErrProjectQuotaExceeded = NewError(ErrCodeQuota, fmt.Sprintf("you can only have up to %d projects", MaxProjectsPerUser))
	ErrInvalidPayload       = NewError(ErrCodeInvalid, "invalid payload")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
