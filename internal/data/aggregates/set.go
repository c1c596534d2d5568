package aggregates

import (
	"github.com/yungbote/coursehub-backend/internal/data/repos"
	domainagg "github.com/yungbote/coursehub-backend/internal/domain/aggregates"
)

// Set bundles every write aggregate over one BaseDeps.
type Set struct {
	Reactions       domainagg.ReactionAggregate
	Progress        domainagg.ProgressAggregate
	Enrollments     domainagg.EnrollmentAggregate
	Attempts        domainagg.AttemptAggregate
	QuestionSets    domainagg.QuestionSetAggregate
	Ratings         domainagg.RatingAggregate
	TeacherRequests domainagg.TeacherRequestAggregate
}

func NewSet(base BaseDeps, r repos.Set) Set {
	return Set{
		Reactions:    NewReactionAggregate(ReactionAggregateDeps{Base: base, Reactions: r.Reactions}),
		Progress:     NewProgressAggregate(ProgressAggregateDeps{Base: base, Lessons: r.Lessons, Progress: r.Progress}),
		Enrollments:  NewEnrollmentAggregate(EnrollmentAggregateDeps{Base: base, Enrollments: r.Enrollments, JoinRequests: r.JoinRequests}),
		Attempts:     NewAttemptAggregate(AttemptAggregateDeps{Base: base, Tests: r.Tests, Attempts: r.Attempts, Users: r.Users}),
		QuestionSets: NewQuestionSetAggregate(QuestionSetAggregateDeps{Base: base, Courses: r.Courses, Tests: r.Tests, Questions: r.Questions}),
		Ratings:      NewRatingAggregate(RatingAggregateDeps{Base: base, Users: r.Users, Ratings: r.Ratings}),
		TeacherRequests: NewTeacherRequestAggregate(TeacherRequestAggregateDeps{
			Base:     base,
			Users:    r.Users,
			Requests: r.BecomeTeacherRequests,
		}),
	}
}
