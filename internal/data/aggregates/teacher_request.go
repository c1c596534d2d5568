package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	domainagg "github.com/yungbote/coursehub-backend/internal/domain/aggregates"
	"github.com/yungbote/coursehub-backend/internal/domain/community"
	"github.com/yungbote/coursehub-backend/internal/domain/user"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
)

type TeacherRequestAggregateDeps struct {
	Base BaseDeps

	Users    repos.UserRepo
	Requests repos.BecomeTeacherRequestRepo
}

type teacherRequestAggregate struct {
	deps TeacherRequestAggregateDeps
}

func NewTeacherRequestAggregate(deps TeacherRequestAggregateDeps) domainagg.TeacherRequestAggregate {
	deps.Base = deps.Base.withDefaults()
	return &teacherRequestAggregate{deps: deps}
}

func (a *teacherRequestAggregate) Contract() domainagg.Contract {
	return domainagg.TeacherRequestAggregateContract
}

func (a *teacherRequestAggregate) Decide(ctx context.Context, requestID uuid.UUID, approve bool) (community.BecomeTeacherRequest, error) {
	const op = "Community.TeacherRequest.Decide"
	var out community.BecomeTeacherRequest
	if requestID == uuid.Nil {
		return out, domainagg.Validation(op, "missing request_id")
	}
	if a.deps.Users == nil || a.deps.Requests == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "teacher request aggregate repos not configured", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		req, err := a.deps.Requests.LockByID(dbc, requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domainagg.NotFound(op, "teacher request")
		}

		now := time.Now().UTC()
		if err := a.deps.Base.CASGuard.Apply(dbc, Transition{
			Table:  "become_teacher_request",
			ID:     req.ID,
			Column: "is_processed",
			From:   []any{false},
			Set:    map[string]any{"is_processed": true, "approved": approve, "processed_at": now, "updated_at": now},
			Stale:  "teacher request already processed",
		}); err != nil {
			return err
		}
		if approve {
			if err := a.deps.Users.SetRole(dbc, req.UserID, user.RoleTeacher); err != nil {
				return err
			}
		}

		req.IsProcessed = true
		req.Approved = approve
		req.ProcessedAt = &now
		req.UpdatedAt = now
		out = *req
		return nil
	})
	return out, err
}
