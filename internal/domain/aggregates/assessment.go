package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/coursehub-backend/internal/domain/assessment"
	"github.com/yungbote/coursehub-backend/internal/domain/learning"
)

var AttemptAggregateContract = Contract{
	Name:      "Assessment.AttemptAggregate",
	Locks:     "student_test(student_id, test_id)",
	Invariant: "One student_test row per (student, test); grading and the star reward commit together, once.",
}

// AttemptAggregate owns the attempt lifecycle not_started -> in_progress -> graded.
type AttemptAggregate interface {
	Aggregate

	// Start gets or creates the attempt; an unfinished attempt has its score cleared.
	Start(ctx context.Context, studentID, testID uuid.UUID) (assessment.StudentTest, error)

	// Submit grades the attempt and credits stars in one transaction.
	// A graded attempt is returned unchanged with AlreadyCompleted set.
	Submit(ctx context.Context, in SubmitAttemptInput) (SubmitAttemptResult, error)
}

type SubmitAttemptInput struct {
	StudentID uuid.UUID
	TestID    uuid.UUID
	Answers   map[uuid.UUID]uuid.UUID
	At        time.Time
}

type SubmitAttemptResult struct {
	Attempt          assessment.StudentTest  `json:"attempt"`
	Grade            *assessment.GradeResult `json:"grade,omitempty"`
	AlreadyCompleted bool                    `json:"already_completed"`
	Passed           bool                    `json:"passed"`
	StarsTotal       int                     `json:"stars_total"`
}

var QuestionSetAggregateContract = Contract{
	Name:      "Assessment.QuestionSetAggregate",
	Locks:     "course_test(id)",
	Invariant: "Questions and answers of a test keep unique gapless 1-based order after every save.",
}

// QuestionSetAggregate owns the question editor save.
type QuestionSetAggregate interface {
	Aggregate

	// Save applies a question set to a test. The owner check runs inside the same transaction.
	Save(ctx context.Context, in SaveQuestionsInput) ([]assessment.TestQuestion, error)
}

type SaveQuestionsInput struct {
	Actor  learning.Actor
	TestID uuid.UUID
	Set    assessment.QuestionSet
}
