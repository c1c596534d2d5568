package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	domainagg "github.com/yungbote/coursehub-backend/internal/domain/aggregates"
	"github.com/yungbote/coursehub-backend/internal/domain/assessment"
	"github.com/yungbote/coursehub-backend/internal/domain/learning"
	"github.com/yungbote/coursehub-backend/internal/observability"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

// StudentAnswer hides is_correct from the test taker.
type StudentAnswer struct {
	ID    uuid.UUID `json:"id"`
	Order int       `json:"order"`
	Text  string    `json:"text"`
}

type StudentQuestion struct {
	ID      uuid.UUID       `json:"id"`
	Order   int             `json:"order"`
	Text    string          `json:"text"`
	Answers []StudentAnswer `json:"answers"`
}

type StartTestResult struct {
	TestID           uuid.UUID              `json:"test_id"`
	Title            string                 `json:"title"`
	Description      string                 `json:"description"`
	TimeLimitMinutes int                    `json:"time_limit_minutes"`
	PassingScore     int                    `json:"passing_score"`
	Attempt          assessment.StudentTest `json:"attempt"`
	Questions        []StudentQuestion      `json:"questions"`
}

type AssessmentService interface {
	Start(ctx context.Context, testID uuid.UUID) (StartTestResult, error)
	Submit(ctx context.Context, testID uuid.UUID, answers map[uuid.UUID]uuid.UUID) (domainagg.SubmitAttemptResult, error)
}

type assessmentService struct {
	log            *logger.Logger
	testRepo       repos.TestRepo
	enrollmentRepo repos.EnrollmentRepo
	attempts       domainagg.AttemptAggregate
	metrics        *observability.Metrics
}

func NewAssessmentService(
	baseLog *logger.Logger,
	testRepo repos.TestRepo,
	enrollmentRepo repos.EnrollmentRepo,
	attempts domainagg.AttemptAggregate,
	metrics *observability.Metrics,
) AssessmentService {
	return &assessmentService{
		log:            baseLog.With("service", "AssessmentService"),
		testRepo:       testRepo,
		enrollmentRepo: enrollmentRepo,
		attempts:       attempts,
		metrics:        metrics,
	}
}

func (as *assessmentService) gate(ctx context.Context, op string, testID uuid.UUID) (learning.Actor, *assessment.CourseTest, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return learning.Actor{}, nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	test, err := as.testRepo.GetWithQuestions(dbc, testID)
	if err != nil {
		return actor, nil, internal(op, err)
	}
	if test == nil {
		return actor, nil, notFound(op, "test")
	}
	enrolled, err := as.enrollmentRepo.Exists(dbc, actor.ID, test.CourseID)
	if err != nil {
		return actor, nil, internal(op, err)
	}
	if !enrolled {
		return actor, nil, ErrNotEnrolled
	}
	return actor, test, nil
}

func (as *assessmentService) Start(ctx context.Context, testID uuid.UUID) (StartTestResult, error) {
	actor, test, err := as.gate(ctx, "Assessment.Start", testID)
	if err != nil {
		return StartTestResult{}, err
	}
	attempt, err := as.attempts.Start(ctx, actor.ID, test.ID)
	if err != nil {
		return StartTestResult{}, err
	}
	out := StartTestResult{
		TestID:           test.ID,
		Title:            test.Title,
		Description:      test.Description,
		TimeLimitMinutes: test.TimeLimitMinutes,
		PassingScore:     test.PassingScore,
		Attempt:          attempt,
		Questions:        make([]StudentQuestion, 0, len(test.Questions)),
	}
	for _, q := range test.Questions {
		sq := StudentQuestion{ID: q.ID, Order: q.Order, Text: q.Text, Answers: make([]StudentAnswer, 0, len(q.Answers))}
		for _, a := range q.Answers {
			sq.Answers = append(sq.Answers, StudentAnswer{ID: a.ID, Order: a.Order, Text: a.Text})
		}
		out.Questions = append(out.Questions, sq)
	}
	return out, nil
}

func (as *assessmentService) Submit(ctx context.Context, testID uuid.UUID, answers map[uuid.UUID]uuid.UUID) (domainagg.SubmitAttemptResult, error) {
	actor, test, err := as.gate(ctx, "Assessment.Submit", testID)
	if err != nil {
		return domainagg.SubmitAttemptResult{}, err
	}
	res, err := as.attempts.Submit(ctx, domainagg.SubmitAttemptInput{
		StudentID: actor.ID,
		TestID:    test.ID,
		Answers:   answers,
		At:        time.Now().UTC(),
	})
	if err != nil {
		return domainagg.SubmitAttemptResult{}, err
	}
	if !res.AlreadyCompleted && res.Grade != nil {
		as.metrics.AddStarsAwarded(res.Grade.Stars)
		as.log.Info("Test graded",
			"user_id", actor.ID,
			"test_id", test.ID,
			"score", res.Grade.Score,
			"stars", res.Grade.Stars,
		)
	}
	return res, nil
}
