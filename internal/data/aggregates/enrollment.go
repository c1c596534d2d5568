package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/coursehub-backend/internal/data/repos"
	domainagg "github.com/yungbote/coursehub-backend/internal/domain/aggregates"
	"github.com/yungbote/coursehub-backend/internal/domain/learning"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
)

type EnrollmentAggregateDeps struct {
	Base BaseDeps

	Enrollments  repos.EnrollmentRepo
	JoinRequests repos.JoinRequestRepo
}

type enrollmentAggregate struct {
	deps EnrollmentAggregateDeps
}

func NewEnrollmentAggregate(deps EnrollmentAggregateDeps) domainagg.EnrollmentAggregate {
	deps.Base = deps.Base.withDefaults()
	return &enrollmentAggregate{deps: deps}
}

func (a *enrollmentAggregate) Contract() domainagg.Contract {
	return domainagg.EnrollmentAggregateContract
}

func (a *enrollmentAggregate) Enroll(ctx context.Context, userID, courseID uuid.UUID) (domainagg.EnrollResult, error) {
	const op = "Learning.Enrollment.Enroll"
	var out domainagg.EnrollResult
	if userID == uuid.Nil || courseID == uuid.Nil {
		return out, domainagg.Validation(op, "missing user_id or course_id")
	}
	if a.deps.Enrollments == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "enrollment aggregate repos not configured", nil)
	}

	err := executeWriteWithRetry(ctx, a.deps.Base, op, conflictRetries, func(dbc dbctx.Context) error {
		created, err := a.deps.Enrollments.CreateIfAbsent(dbc, userID, courseID)
		if err != nil {
			return err
		}
		row, err := a.deps.Enrollments.Get(dbc, userID, courseID)
		if err != nil {
			return err
		}
		if row == nil {
			return RetryableError("enrollment row vanished after insert")
		}
		out = domainagg.EnrollResult{Enrollment: *row, Created: created}
		return nil
	})
	return out, err
}

func (a *enrollmentAggregate) DecideJoinRequest(ctx context.Context, requestID uuid.UUID, approve bool) (learning.JoinRequest, error) {
	const op = "Learning.Enrollment.DecideJoinRequest"
	var out learning.JoinRequest
	if requestID == uuid.Nil {
		return out, domainagg.Validation(op, "missing request_id")
	}
	if a.deps.Enrollments == nil || a.deps.JoinRequests == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "enrollment aggregate repos not configured", nil)
	}

	to := learning.JoinRequestRejected
	if approve {
		to = learning.JoinRequestApproved
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		jr, err := a.deps.JoinRequests.LockByID(dbc, requestID)
		if err != nil {
			return err
		}
		if jr == nil {
			return domainagg.NotFound(op, "join request")
		}
		if jr.Status != learning.JoinRequestPending {
			return ConflictError("join request already processed")
		}

		now := time.Now().UTC()
		if err := a.deps.Base.CASGuard.Apply(dbc, Transition{
			Table:  "join_request",
			ID:     jr.ID,
			Column: "status",
			From:   []any{string(learning.JoinRequestPending)},
			Set:    map[string]any{"status": to, "processed_at": now, "updated_at": now},
			Stale:  "join request already processed",
		}); err != nil {
			return err
		}
		if approve {
			if _, err := a.deps.Enrollments.CreateIfAbsent(dbc, jr.UserID, jr.CourseID); err != nil {
				return err
			}
		}

		jr.Status = to
		jr.ProcessedAt = &now
		jr.UpdatedAt = now
		out = *jr
		return nil
	})
	return out, err
}
