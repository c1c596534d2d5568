package aggregates

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode classifies why an aggregate write failed. HTTP status mapping keys off it.
type ErrorCode string

const (
	CodeValidation         ErrorCode = "validation"
	CodeNotFound           ErrorCode = "not_found"
	CodeForbidden          ErrorCode = "forbidden"
	CodeConflict           ErrorCode = "conflict"
	CodeInvariantViolation ErrorCode = "invariant_violation"
	CodePreconditionFailed ErrorCode = "precondition_failed"
	CodeRetryable          ErrorCode = "retryable"
	CodeInternal           ErrorCode = "internal"
)

// Error renders as "op: message (code)", dropping empty parts.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	parts := make([]string, 0, 2)
	if e.Op != "" {
		parts = append(parts, e.Op)
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if len(parts) == 0 {
		return string(e.Code)
	}
	return fmt.Sprintf("%s (%s)", strings.Join(parts, ": "), e.Code)
}

func (e *Error) Unwrap() error { return e.Cause }

func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// Wrap keeps err as the cause and reuses its text as the message.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	return NewError(code, op, err.Error(), err)
}

func IsCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// CodeOf returns "" for errors that never passed through this package.
func CodeOf(err error) ErrorCode {
	if aggErr := asError(err); aggErr != nil {
		return aggErr.Code
	}
	return ""
}

func asError(err error) *Error {
	var aggErr *Error
	if errors.As(err, &aggErr) {
		return aggErr
	}
	return nil
}

// Reasons refine a code for callers that need to tell gate failures apart.
const (
	ReasonNotEnrolled  = "not_enrolled"
	ReasonCourseClosed = "course_closed"
	ReasonSelfRating   = "self_rating"
	ReasonNotTeacher   = "not_teacher"
	ReasonNotAdmin     = "not_admin"
)

// NotFound is returned by ownership gates too, so a foreign resource looks missing.
func NotFound(op, what string) error {
	return NewError(CodeNotFound, op, strings.TrimSpace(what)+" not found", nil)
}

func Forbidden(op, reason string) error {
	return NewError(CodeForbidden, op, reason, nil)
}

func Validation(op, msg string) error {
	return NewError(CodeValidation, op, msg, nil)
}

// ReasonOf returns the message of a forbidden or validation error, which carries the reason.
func ReasonOf(err error) string {
	if aggErr := asError(err); aggErr != nil {
		return aggErr.Message
	}
	return ""
}
