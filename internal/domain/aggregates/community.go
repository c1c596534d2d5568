package aggregates

import (
	"context"

	"github.com/google/uuid"
	"github.com/yungbote/coursehub-backend/internal/domain/community"
)

var TeacherRequestAggregateContract = Contract{
	Name:      "Community.TeacherRequestAggregate",
	Locks:     "become_teacher_request(id)",
	Invariant: "A become-teacher request is processed once; approval and the role change commit together.",
}

// TeacherRequestAggregate owns the back-office decision on become-teacher requests.
type TeacherRequestAggregate interface {
	Aggregate

	Decide(ctx context.Context, requestID uuid.UUID, approve bool) (community.BecomeTeacherRequest, error)
}
