package aggregates

import (
	"context"

	"github.com/google/uuid"
	"github.com/yungbote/coursehub-backend/internal/domain/user"
)

var RatingAggregateContract = Contract{
	Name:      "User.RatingAggregate",
	Locks:     "user(teacher_id)",
	Invariant: "One teacher_rating row per (rater, teacher); teacher rating/total_ratings always recomputed from rows.",
}

// RatingAggregate owns teacher ratings and the denormalized average on the teacher.
type RatingAggregate interface {
	Aggregate

	Rate(ctx context.Context, in RateTeacherInput) (RateTeacherResult, error)
}

type RateTeacherInput struct {
	RaterID   uuid.UUID
	TeacherID uuid.UUID
	Stars     int
	Review    string
}

type RateTeacherResult struct {
	Rating       user.TeacherRating `json:"rating"`
	Average      float64            `json:"average"`
	TotalRatings int                `json:"total_ratings"`
}
