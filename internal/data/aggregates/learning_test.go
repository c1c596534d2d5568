package aggregates

import (
	"testing"
	"time"

	"github.com/google/uuid"

	repotest "github.com/yungbote/coursehub-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/coursehub-backend/internal/domain/aggregates"
	"github.com/yungbote/coursehub-backend/internal/domain/learning"
	"github.com/yungbote/coursehub-backend/internal/domain/user"
)

func TestReactionAggregateToggle(t *testing.T) {
	f := newSQLiteFixture(t)
	teacher := repotest.SeedUser(t, f.ctx, f.tx, "teacher", user.RoleTeacher)
	student := repotest.SeedUser(t, f.ctx, f.tx, "student", user.RoleStudent)
	course := repotest.SeedCourse(t, f.ctx, f.tx, teacher.ID, "Algebra", learning.CourseTypeOpen)
	lesson := repotest.SeedLesson(t, f.ctx, f.tx, course.ID, 1)

	agg := NewReactionAggregate(ReactionAggregateDeps{Base: f.base(), Reactions: f.repos.Reactions})
	in := domainagg.ToggleReactionInput{UserID: student.ID, LessonID: lesson.ID, Like: true}

	steps := []struct {
		like     bool
		action   learning.ReactionAction
		state    learning.ReactionState
		likes    int64
		dislikes int64
	}{
		{true, learning.ReactionCreate, learning.ReactionLike, 1, 0},
		{false, learning.ReactionFlip, learning.ReactionDislike, 0, 1},
		{false, learning.ReactionDelete, learning.ReactionNone, 0, 0},
		{false, learning.ReactionCreate, learning.ReactionDislike, 0, 1},
		{true, learning.ReactionFlip, learning.ReactionLike, 1, 0},
		{true, learning.ReactionDelete, learning.ReactionNone, 0, 0},
	}
	for i, step := range steps {
		in.Like = step.like
		got, err := agg.Toggle(f.ctx, in)
		if err != nil {
			t.Fatalf("step %d: Toggle: %v", i, err)
		}
		if got.Action != step.action || got.State != step.state {
			t.Fatalf("step %d: got action=%s state=%s", i, got.Action, got.State)
		}
		if got.Likes != step.likes || got.Dislikes != step.dislikes {
			t.Fatalf("step %d: counts likes=%d dislikes=%d", i, got.Likes, got.Dislikes)
		}
	}

	var rows int64
	if err := f.tx.Model(&learning.LessonLikeDislike{}).Where("user_id = ?", student.ID).Count(&rows).Error; err != nil {
		t.Fatalf("count reactions: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected exactly one reaction row, got %d", rows)
	}

	if _, err := agg.Toggle(f.ctx, domainagg.ToggleReactionInput{LessonID: lesson.ID}); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation for missing user, got %v", err)
	}
}

func TestProgressAggregateMarkComplete(t *testing.T) {
	f := newSQLiteFixture(t)
	teacher := repotest.SeedUser(t, f.ctx, f.tx, "teacher", user.RoleTeacher)
	student := repotest.SeedUser(t, f.ctx, f.tx, "student", user.RoleStudent)
	course := repotest.SeedCourse(t, f.ctx, f.tx, teacher.ID, "Algebra", learning.CourseTypeOpen)
	first := repotest.SeedLesson(t, f.ctx, f.tx, course.ID, 1)
	second := repotest.SeedLesson(t, f.ctx, f.tx, course.ID, 2)
	repotest.SeedLesson(t, f.ctx, f.tx, course.ID, 3)
	repotest.SeedLesson(t, f.ctx, f.tx, course.ID, 4)

	agg := NewProgressAggregate(ProgressAggregateDeps{
		Base:     f.base(),
		Lessons:  f.repos.Lessons,
		Progress: f.repos.Progress,
	})

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	res, err := agg.MarkComplete(f.ctx, domainagg.MarkCompleteInput{UserID: student.ID, LessonID: first.ID, At: at})
	if err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}
	if !res.Transitioned || res.ProgressPercent != 25 || res.TotalLessons != 4 {
		t.Fatalf("unexpected first result: %+v", res)
	}

	again, err := agg.MarkComplete(f.ctx, domainagg.MarkCompleteInput{UserID: student.ID, LessonID: first.ID, At: at.Add(time.Hour)})
	if err != nil {
		t.Fatalf("MarkComplete again: %v", err)
	}
	if again.Transitioned {
		t.Fatalf("second completion must not transition")
	}
	if again.Progress.CompletedAt == nil || !again.Progress.CompletedAt.Truncate(time.Second).Equal(at) {
		t.Fatalf("completed_at must keep the first stamp, got %v", again.Progress.CompletedAt)
	}

	res, err = agg.MarkComplete(f.ctx, domainagg.MarkCompleteInput{UserID: student.ID, LessonID: second.ID, CourseID: course.ID})
	if err != nil {
		t.Fatalf("MarkComplete second lesson: %v", err)
	}
	if res.CompletedCount != 2 || res.ProgressPercent != 50 {
		t.Fatalf("unexpected progress: %+v", res)
	}

	if _, err := agg.MarkComplete(f.ctx, domainagg.MarkCompleteInput{UserID: student.ID, LessonID: uuid.New()}); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found for unknown lesson, got %v", err)
	}
}

func TestEnrollmentAggregateEnrollIsIdempotent(t *testing.T) {
	f := newSQLiteFixture(t)
	teacher := repotest.SeedUser(t, f.ctx, f.tx, "teacher", user.RoleTeacher)
	student := repotest.SeedUser(t, f.ctx, f.tx, "student", user.RoleStudent)
	course := repotest.SeedCourse(t, f.ctx, f.tx, teacher.ID, "Algebra", learning.CourseTypeOpen)

	agg := NewEnrollmentAggregate(EnrollmentAggregateDeps{
		Base:         f.base(),
		Enrollments:  f.repos.Enrollments,
		JoinRequests: f.repos.JoinRequests,
	})

	first, err := agg.Enroll(f.ctx, student.ID, course.ID)
	if err != nil || !first.Created {
		t.Fatalf("first Enroll: res=%+v err=%v", first, err)
	}
	second, err := agg.Enroll(f.ctx, student.ID, course.ID)
	if err != nil || second.Created {
		t.Fatalf("second Enroll: res=%+v err=%v", second, err)
	}
	if first.Enrollment.ID != second.Enrollment.ID {
		t.Fatalf("expected same enrollment row")
	}
}

func TestEnrollmentAggregateDecideJoinRequest(t *testing.T) {
	f := newSQLiteFixture(t)
	teacher := repotest.SeedUser(t, f.ctx, f.tx, "teacher", user.RoleTeacher)
	alice := repotest.SeedUser(t, f.ctx, f.tx, "alice", user.RoleStudent)
	bob := repotest.SeedUser(t, f.ctx, f.tx, "bob", user.RoleStudent)
	course := repotest.SeedCourse(t, f.ctx, f.tx, teacher.ID, "Closed", learning.CourseTypeClosed)

	approveMe := &learning.JoinRequest{UserID: alice.ID, CourseID: course.ID}
	rejectMe := &learning.JoinRequest{UserID: bob.ID, CourseID: course.ID}
	for _, jr := range []*learning.JoinRequest{approveMe, rejectMe} {
		if err := f.tx.Create(jr).Error; err != nil {
			t.Fatalf("seed join request: %v", err)
		}
	}

	agg := NewEnrollmentAggregate(EnrollmentAggregateDeps{
		Base:         f.base(),
		Enrollments:  f.repos.Enrollments,
		JoinRequests: f.repos.JoinRequests,
	})

	got, err := agg.DecideJoinRequest(f.ctx, approveMe.ID, true)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if got.Status != learning.JoinRequestApproved || got.ProcessedAt == nil {
		t.Fatalf("unexpected approved request: %+v", got)
	}
	enrolled, err := f.repos.Enrollments.Exists(dbcFor(f), alice.ID, course.ID)
	if err != nil || !enrolled {
		t.Fatalf("approval must enroll: enrolled=%v err=%v", enrolled, err)
	}

	if _, err := agg.DecideJoinRequest(f.ctx, approveMe.ID, false); !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("second decision must conflict, got %v", err)
	}

	if _, err := agg.DecideJoinRequest(f.ctx, rejectMe.ID, false); err != nil {
		t.Fatalf("reject: %v", err)
	}
	enrolled, err = f.repos.Enrollments.Exists(dbcFor(f), bob.ID, course.ID)
	if err != nil || enrolled {
		t.Fatalf("rejection must not enroll: enrolled=%v err=%v", enrolled, err)
	}

	if _, err := agg.DecideJoinRequest(f.ctx, uuid.New(), true); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}
