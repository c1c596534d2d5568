package aggregates

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	domainagg "github.com/yungbote/coursehub-backend/internal/domain/aggregates"
	"github.com/yungbote/coursehub-backend/internal/domain/user"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
)

type RatingAggregateDeps struct {
	Base BaseDeps

	Users   repos.UserRepo
	Ratings repos.TeacherRatingRepo
}

type ratingAggregate struct {
	deps RatingAggregateDeps
}

func NewRatingAggregate(deps RatingAggregateDeps) domainagg.RatingAggregate {
	deps.Base = deps.Base.withDefaults()
	return &ratingAggregate{deps: deps}
}

func (a *ratingAggregate) Contract() domainagg.Contract {
	return domainagg.RatingAggregateContract
}

// Rate upserts the rater's row and recomputes the teacher's average from all rows.
// The teacher row is locked first so concurrent ratings of one teacher serialize.
func (a *ratingAggregate) Rate(ctx context.Context, in domainagg.RateTeacherInput) (domainagg.RateTeacherResult, error) {
	const op = "User.Rating.Rate"
	var out domainagg.RateTeacherResult
	if in.RaterID == uuid.Nil || in.TeacherID == uuid.Nil {
		return out, domainagg.Validation(op, "missing rater_id or teacher_id")
	}
	if !user.ValidRating(in.Stars) {
		return out, domainagg.Validation(op, "rating must be between 1 and 5")
	}
	if in.RaterID == in.TeacherID {
		return out, domainagg.Forbidden(op, domainagg.ReasonSelfRating)
	}
	if a.deps.Users == nil || a.deps.Ratings == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "rating aggregate repos not configured", nil)
	}

	err := executeWriteWithRetry(ctx, a.deps.Base, op, conflictRetries, func(dbc dbctx.Context) error {
		teacher, err := a.deps.Users.LockByID(dbc, in.TeacherID)
		if err != nil {
			return err
		}
		if teacher == nil {
			return domainagg.NotFound(op, "teacher")
		}
		if !teacher.Role.IsTeacher() {
			return domainagg.Forbidden(op, domainagg.ReasonNotTeacher)
		}

		if err := a.deps.Ratings.Upsert(dbc, &user.TeacherRating{
			RaterID:   in.RaterID,
			TeacherID: in.TeacherID,
			Rating:    in.Stars,
			Review:    strings.TrimSpace(in.Review),
		}); err != nil {
			return err
		}

		avg, total, err := a.deps.Ratings.Stats(dbc, in.TeacherID)
		if err != nil {
			return err
		}
		rounded := user.RoundRating(avg)
		if err := a.deps.Users.SetRating(dbc, in.TeacherID, rounded, total); err != nil {
			return err
		}

		row, err := a.deps.Ratings.GetByPair(dbc, in.RaterID, in.TeacherID)
		if err != nil {
			return err
		}
		if row == nil {
			return RetryableError("rating row vanished after upsert")
		}
		out = domainagg.RateTeacherResult{Rating: *row, Average: rounded, TotalRatings: total}
		return nil
	})
	return out, err
}
