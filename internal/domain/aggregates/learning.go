package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/coursehub-backend/internal/domain/learning"
)

var ReactionAggregateContract = Contract{
	Name:      "Learning.ReactionAggregate",
	Locks:     "lesson_like_dislike(user_id, lesson_id)",
	Invariant: "One lesson_like_dislike row per (user, lesson); toggle is create, delete or flip.",
}

// ReactionAggregate owns the like/dislike toggle.
type ReactionAggregate interface {
	Aggregate

	// Toggle applies a like (or dislike) to the caller's reaction on a lesson.
	Toggle(ctx context.Context, in ToggleReactionInput) (ToggleReactionResult, error)
}

type ToggleReactionInput struct {
	UserID   uuid.UUID
	LessonID uuid.UUID
	Like     bool
}

type ToggleReactionResult struct {
	Action   learning.ReactionAction `json:"-"`
	State    learning.ReactionState  `json:"state"`
	Likes    int64                   `json:"likes"`
	Dislikes int64                   `json:"dislikes"`
}

var ProgressAggregateContract = Contract{
	Name:      "Learning.ProgressAggregate",
	Locks:     "lesson_progress(user_id, lesson_id)",
	Invariant: "One lesson_progress row per (user, lesson); completed_at is stamped once.",
}

// ProgressAggregate owns lesson completion.
type ProgressAggregate interface {
	Aggregate

	// MarkComplete creates the progress row if missing and completes it if it is not yet complete.
	MarkComplete(ctx context.Context, in MarkCompleteInput) (MarkCompleteResult, error)
}

type MarkCompleteInput struct {
	UserID   uuid.UUID
	LessonID uuid.UUID
	CourseID uuid.UUID
	At       time.Time
}

type MarkCompleteResult struct {
	Progress        learning.LessonProgress `json:"progress"`
	Transitioned    bool                    `json:"transitioned"`
	CompletedCount  int64                   `json:"completed_count"`
	TotalLessons    int64                   `json:"total_lessons"`
	ProgressPercent int                     `json:"progress_percent"`
}

var EnrollmentAggregateContract = Contract{
	Name:      "Learning.EnrollmentAggregate",
	Locks:     "join_request(id)",
	Invariant: "One course_student row per (user, course); join request approval creates it at most once.",
}

// EnrollmentAggregate owns course_student creation and join request decisions.
type EnrollmentAggregate interface {
	Aggregate

	// Enroll gets or creates the enrollment row.
	Enroll(ctx context.Context, userID, courseID uuid.UUID) (EnrollResult, error)

	// DecideJoinRequest approves (creating the enrollment) or rejects a pending join request.
	DecideJoinRequest(ctx context.Context, requestID uuid.UUID, approve bool) (learning.JoinRequest, error)
}

type EnrollResult struct {
	Enrollment learning.CourseStudent `json:"enrollment"`
	Created    bool                   `json:"created"`
}
