package aggregates

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	domainagg "github.com/yungbote/coursehub-backend/internal/domain/aggregates"
	"github.com/yungbote/coursehub-backend/internal/domain/assessment"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
)

type AttemptAggregateDeps struct {
	Base BaseDeps

	Tests    repos.TestRepo
	Attempts repos.AttemptRepo
	Users    repos.UserRepo
}

type attemptAggregate struct {
	deps AttemptAggregateDeps
}

func NewAttemptAggregate(deps AttemptAggregateDeps) domainagg.AttemptAggregate {
	deps.Base = deps.Base.withDefaults()
	return &attemptAggregate{deps: deps}
}

func (a *attemptAggregate) Contract() domainagg.Contract {
	return domainagg.AttemptAggregateContract
}

func (a *attemptAggregate) configured() bool {
	return a.deps.Tests != nil && a.deps.Attempts != nil && a.deps.Users != nil
}

func (a *attemptAggregate) Start(ctx context.Context, studentID, testID uuid.UUID) (assessment.StudentTest, error) {
	const op = "Assessment.Attempt.Start"
	var out assessment.StudentTest
	if studentID == uuid.Nil || testID == uuid.Nil {
		return out, domainagg.Validation(op, "missing student_id or test_id")
	}
	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "attempt aggregate repos not configured", nil)
	}

	err := executeWriteWithRetry(ctx, a.deps.Base, op, conflictRetries, func(dbc dbctx.Context) error {
		test, err := a.deps.Tests.GetByID(dbc, testID)
		if err != nil {
			return err
		}
		if test == nil {
			return domainagg.NotFound(op, "test")
		}
		if err := a.deps.Attempts.EnsureRow(dbc, studentID, testID, time.Now().UTC()); err != nil {
			return err
		}
		st, err := a.deps.Attempts.LockByPair(dbc, studentID, testID)
		if err != nil {
			return err
		}
		if st == nil {
			return RetryableError("attempt row vanished after insert")
		}
		if !st.Completed && st.Score != nil {
			if err := a.deps.Attempts.ClearScore(dbc, st.ID); err != nil {
				return err
			}
			st.Score = nil
		}
		out = *st
		return nil
	})
	return out, err
}

func (a *attemptAggregate) Submit(ctx context.Context, in domainagg.SubmitAttemptInput) (domainagg.SubmitAttemptResult, error) {
	const op = "Assessment.Attempt.Submit"
	var out domainagg.SubmitAttemptResult
	if in.StudentID == uuid.Nil || in.TestID == uuid.Nil {
		return out, domainagg.Validation(op, "missing student_id or test_id")
	}
	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "attempt aggregate repos not configured", nil)
	}
	at := in.At.UTC()
	if in.At.IsZero() {
		at = time.Now().UTC()
	}
	submitted := in.Answers
	if submitted == nil {
		submitted = map[uuid.UUID]uuid.UUID{}
	}
	snapshot, err := json.Marshal(submitted)
	if err != nil {
		return out, domainagg.Validation(op, "answers are not serializable")
	}

	err = executeWriteWithRetry(ctx, a.deps.Base, op, conflictRetries, func(dbc dbctx.Context) error {
		test, err := a.deps.Tests.GetWithQuestions(dbc, in.TestID)
		if err != nil {
			return err
		}
		if test == nil {
			return domainagg.NotFound(op, "test")
		}
		if err := a.deps.Attempts.EnsureRow(dbc, in.StudentID, in.TestID, at); err != nil {
			return err
		}
		st, err := a.deps.Attempts.LockByPair(dbc, in.StudentID, in.TestID)
		if err != nil {
			return err
		}
		if st == nil {
			return RetryableError("attempt row vanished after insert")
		}

		if st.Completed {
			student, err := a.deps.Users.GetByID(dbc, in.StudentID)
			if err != nil {
				return err
			}
			if student == nil {
				return domainagg.NotFound(op, "student")
			}
			var score float64
			if st.Score != nil {
				score = *st.Score
			}
			out = domainagg.SubmitAttemptResult{
				Attempt:          *st,
				AlreadyCompleted: true,
				Passed:           test.Passed(score),
				StarsTotal:       student.Stars,
			}
			return nil
		}

		grade := assessment.Grade(test.Questions, submitted)
		score := grade.Score
		st.Completed = true
		st.Score = &score
		st.StarsAwarded = grade.Stars
		st.Answers = datatypes.JSON(snapshot)
		st.CompletedAt = &at

		ok, err := a.deps.Attempts.SaveGrade(dbc, st)
		if err != nil {
			return err
		}
		if err := expectAffected(ok, "attempt already graded"); err != nil {
			return err
		}
		total, err := a.deps.Users.AddStars(dbc, in.StudentID, grade.Stars)
		if err != nil {
			return err
		}

		st.UpdatedAt = at
		out = domainagg.SubmitAttemptResult{
			Attempt:    *st,
			Grade:      &grade,
			Passed:     test.Passed(score),
			StarsTotal: total,
		}
		return nil
	})
	return out, err
}
