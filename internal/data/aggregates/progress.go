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

type ProgressAggregateDeps struct {
	Base BaseDeps

	Lessons  repos.LessonRepo
	Progress repos.ProgressRepo
}

type progressAggregate struct {
	deps ProgressAggregateDeps
}

func NewProgressAggregate(deps ProgressAggregateDeps) domainagg.ProgressAggregate {
	deps.Base = deps.Base.withDefaults()
	return &progressAggregate{deps: deps}
}

func (a *progressAggregate) Contract() domainagg.Contract {
	return domainagg.ProgressAggregateContract
}

func (a *progressAggregate) MarkComplete(ctx context.Context, in domainagg.MarkCompleteInput) (domainagg.MarkCompleteResult, error) {
	const op = "Learning.Progress.MarkComplete"
	var out domainagg.MarkCompleteResult
	if in.UserID == uuid.Nil {
		return out, domainagg.Validation(op, "missing user_id")
	}
	if in.LessonID == uuid.Nil {
		return out, domainagg.Validation(op, "missing lesson_id")
	}
	if a.deps.Lessons == nil || a.deps.Progress == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "progress aggregate repos not configured", nil)
	}
	at := in.At.UTC()
	if in.At.IsZero() {
		at = time.Now().UTC()
	}

	err := executeWriteWithRetry(ctx, a.deps.Base, op, conflictRetries, func(dbc dbctx.Context) error {
		courseID := in.CourseID
		if courseID == uuid.Nil {
			lesson, err := a.deps.Lessons.GetByID(dbc, in.LessonID)
			if err != nil {
				return err
			}
			if lesson == nil {
				return domainagg.NotFound(op, "lesson")
			}
			courseID = lesson.CourseID
		}

		if err := a.deps.Progress.EnsureRow(dbc, in.UserID, in.LessonID); err != nil {
			return err
		}
		row, err := a.deps.Progress.LockByPair(dbc, in.UserID, in.LessonID)
		if err != nil {
			return err
		}
		if row == nil {
			return RetryableError("progress row vanished after insert")
		}
		transitioned, err := a.deps.Progress.MarkCompleted(dbc, row.ID, at)
		if err != nil {
			return err
		}
		if transitioned {
			row.IsCompleted = true
			row.CompletedAt = &at
			row.UpdatedAt = at
		}

		completed, err := a.deps.Progress.CountCompletedInCourse(dbc, in.UserID, courseID)
		if err != nil {
			return err
		}
		total, err := a.deps.Lessons.CountByCourse(dbc, courseID)
		if err != nil {
			return err
		}
		out = domainagg.MarkCompleteResult{
			Progress:        *row,
			Transitioned:    transitioned,
			CompletedCount:  completed,
			TotalLessons:    total,
			ProgressPercent: learning.ProgressPercent(completed, total),
		}
		return nil
	})
	return out, err
}
