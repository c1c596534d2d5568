package aggregates

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	domainagg "github.com/yungbote/coursehub-backend/internal/domain/aggregates"
	"gorm.io/gorm"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code domainagg.ErrorCode
	}{
		{"validation", ValidationError("bad input"), domainagg.CodeValidation},
		{"wrapped conflict", fmt.Errorf("save: %w", ConflictError("stale")), domainagg.CodeConflict},
		{"invariant", InvariantError("negative stars"), domainagg.CodeInvariantViolation},
		{"record not found", gorm.ErrRecordNotFound, domainagg.CodeNotFound},
		{"duplicated key", gorm.ErrDuplicatedKey, domainagg.CodeConflict},
		{"deadline", context.DeadlineExceeded, domainagg.CodeRetryable},
		{"pg unique", &pgconn.PgError{Code: "23505"}, domainagg.CodeConflict},
		{"pg fk", &pgconn.PgError{Code: "23503"}, domainagg.CodePreconditionFailed},
		{"pg deadlock", &pgconn.PgError{Code: "40P01"}, domainagg.CodeRetryable},
		{"pg other", &pgconn.PgError{Code: "42P01", Message: "relation does not exist"}, domainagg.CodeInternal},
		{"sqlite unique", errors.New("UNIQUE constraint failed: course_student.user_id, course_student.course_id"), domainagg.CodeConflict},
		{"sqlite fk", errors.New("FOREIGN KEY constraint failed"), domainagg.CodePreconditionFailed},
		{"sqlite locked", errors.New("database is locked"), domainagg.CodeRetryable},
		{"unknown", errors.New("no such column: nope"), domainagg.CodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := MapError("op", tc.err)
			if !domainagg.IsCode(err, tc.code) {
				t.Fatalf("want %q got %q (%v)", tc.code, domainagg.CodeOf(err), err)
			}
			if !errors.Is(err, tc.err) {
				t.Fatalf("cause lost: %v", err)
			}
		})
	}
}

func TestMapErrorPassesAggregateErrorsThrough(t *testing.T) {
	in := domainagg.NewError(domainagg.CodeRetryable, "op", "retry", errors.New("boom"))
	if out := MapError("other", in); out != in {
		t.Fatalf("expected passthrough, got %v", out)
	}
	if MapError("op", nil) != nil {
		t.Fatalf("nil must stay nil")
	}
}
