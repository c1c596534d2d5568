package aggregates

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	domainagg "github.com/yungbote/coursehub-backend/internal/domain/aggregates"
	"gorm.io/gorm"
)

// codedError lets a write body pick the aggregate code without knowing its op name.
type codedError struct {
	code domainagg.ErrorCode
	msg  string
}

func (e *codedError) Error() string { return e.msg }

func coded(code domainagg.ErrorCode, msg string) error {
	return &codedError{code: code, msg: strings.TrimSpace(msg)}
}

func ValidationError(msg string) error { return coded(domainagg.CodeValidation, msg) }

func InvariantError(msg string) error { return coded(domainagg.CodeInvariantViolation, msg) }

// ConflictError reports a lost race; executeWriteWithRetry reruns the body once.
func ConflictError(msg string) error { return coded(domainagg.CodeConflict, msg) }

func RetryableError(msg string) error { return coded(domainagg.CodeRetryable, msg) }

// Postgres SQLSTATEs that carry a code of their own.
var pgCodes = map[string]domainagg.ErrorCode{
	"23505": domainagg.CodeConflict,           // unique_violation
	"23503": domainagg.CodePreconditionFailed, // foreign_key_violation
	"40001": domainagg.CodeRetryable,          // serialization_failure
	"40P01": domainagg.CodeRetryable,          // deadlock_detected
	"55P03": domainagg.CodeRetryable,          // lock_not_available
}

// SQLite reports constraint failures only through the message text.
var messageCodes = []struct {
	fragment string
	code     domainagg.ErrorCode
}{
	{"unique constraint failed", domainagg.CodeConflict},
	{"duplicate key", domainagg.CodeConflict},
	{"already exists", domainagg.CodeConflict},
	{"foreign key constraint failed", domainagg.CodePreconditionFailed},
	{"database is locked", domainagg.CodeRetryable},
	{"deadlock", domainagg.CodeRetryable},
	{"serialization", domainagg.CodeRetryable},
	{"timeout", domainagg.CodeRetryable},
}

// MapError gives every failure out of a write an aggregate code. Errors that already carry
// one pass through unchanged.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var aggErr *domainagg.Error
	if errors.As(err, &aggErr) {
		return err
	}
	return domainagg.Wrap(classify(err), op, err)
}

func classify(err error) domainagg.ErrorCode {
	var ce *codedError
	if errors.As(err, &ce) {
		return ce.code
	}
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domainagg.CodeConflict
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domainagg.CodeNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domainagg.CodeRetryable
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if code, ok := pgCodes[pgErr.Code]; ok {
			return code
		}
		return domainagg.CodeInternal
	}
	msg := strings.ToLower(err.Error())
	for _, m := range messageCodes {
		if strings.Contains(msg, m.fragment) {
			return m.code
		}
	}
	return domainagg.CodeInternal
}
