package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	domainagg "github.com/yungbote/coursehub-backend/internal/domain/aggregates"
	"github.com/yungbote/coursehub-backend/internal/domain/assessment"
	"github.com/yungbote/coursehub-backend/internal/domain/learning"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
)

type QuestionSetAggregateDeps struct {
	Base BaseDeps

	Courses   repos.CourseRepo
	Tests     repos.TestRepo
	Questions repos.QuestionRepo
}

type questionSetAggregate struct {
	deps QuestionSetAggregateDeps
}

func NewQuestionSetAggregate(deps QuestionSetAggregateDeps) domainagg.QuestionSetAggregate {
	deps.Base = deps.Base.withDefaults()
	return &questionSetAggregate{deps: deps}
}

func (a *questionSetAggregate) Contract() domainagg.Contract {
	return domainagg.QuestionSetAggregateContract
}

func (a *questionSetAggregate) Save(ctx context.Context, in domainagg.SaveQuestionsInput) ([]assessment.TestQuestion, error) {
	const op = "Assessment.QuestionSet.Save"
	var out []assessment.TestQuestion
	if in.TestID == uuid.Nil {
		return nil, domainagg.Validation(op, "missing test_id")
	}
	if in.Actor.ID == uuid.Nil {
		return nil, domainagg.Validation(op, "missing actor")
	}
	if a.deps.Courses == nil || a.deps.Tests == nil || a.deps.Questions == nil {
		return nil, domainagg.NewError(domainagg.CodeInternal, op, "question set aggregate repos not configured", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		test, err := a.deps.Tests.LockByID(dbc, in.TestID)
		if err != nil {
			return err
		}
		if test == nil {
			return domainagg.NotFound(op, "test")
		}
		course, err := a.deps.Courses.GetByID(dbc, test.CourseID)
		if err != nil {
			return err
		}
		if !learning.OwnsCourse(in.Actor, course) {
			return domainagg.NotFound(op, "test")
		}

		existing, err := a.deps.Questions.ListByTest(dbc, test.ID)
		if err != nil {
			return err
		}
		plan := assessment.PlanQuestions(test.ID, existing, in.Set)

		if err := a.deps.Questions.DeleteQuestions(dbc, test.ID, plan.DeleteQuestions); err != nil {
			return err
		}
		// Surviving rows move to negative orders so 1..n can be reassigned without collisions.
		if err := a.deps.Questions.ParkOrders(dbc, test.ID); err != nil {
			return err
		}

		now := time.Now().UTC()
		for i := range plan.Questions {
			pq := plan.Questions[i]
			q := pq.Question
			q.UpdatedAt = now
			if pq.IsNew {
				q.CreatedAt = now
				err = a.deps.Questions.CreateQuestion(dbc, &q)
			} else {
				err = a.deps.Questions.UpdateQuestion(dbc, &q)
			}
			if err != nil {
				return err
			}
			if err := a.deps.Questions.DeleteAnswers(dbc, q.ID, pq.DeleteAnswers); err != nil {
				return err
			}
			for j := range pq.Answers {
				pa := pq.Answers[j]
				ans := pa.Answer
				ans.UpdatedAt = now
				if pa.IsNew {
					ans.CreatedAt = now
					err = a.deps.Questions.CreateAnswer(dbc, &ans)
				} else {
					err = a.deps.Questions.UpdateAnswer(dbc, &ans)
				}
				if err != nil {
					return err
				}
			}
		}

		if err := a.deps.Tests.UpdateFields(dbc, test.ID, map[string]interface{}{"updated_at": now}); err != nil {
			return err
		}
		out, err = a.deps.Questions.ListByTest(dbc, test.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
