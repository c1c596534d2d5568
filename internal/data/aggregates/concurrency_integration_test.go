//go:build integration

package aggregates

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	repotest "github.com/yungbote/coursehub-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/coursehub-backend/internal/domain/aggregates"
	"github.com/yungbote/coursehub-backend/internal/domain/learning"
	"github.com/yungbote/coursehub-backend/internal/domain/user"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
)

const parallelism = 50

func fanOut(t *testing.T, n int, fn func(i int) error) []error {
	t.Helper()
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := fn(i); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	return errs
}

func TestPostgresConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	db := repotest.Postgres(t)
	log := repotest.Logger(t)
	r := repos.NewSet(db, log)
	set := NewSet(BaseDeps{DB: db, Log: log}, r)

	teacher := repotest.SeedUser(t, ctx, db, "teacher", user.RoleTeacher)
	students := make([]*user.User, parallelism)
	for i := range students {
		students[i] = repotest.SeedUser(t, ctx, db, fmt.Sprintf("student%02d", i), user.RoleStudent)
	}
	late := repotest.SeedUser(t, ctx, db, "late", user.RoleStudent)
	course := repotest.SeedCourse(t, ctx, db, teacher.ID, "Physics", learning.CourseTypeOpen)

	t.Run("reaction toggles", func(t *testing.T) {
		lesson := repotest.SeedLesson(t, ctx, db, course.ID, 1)
		errs := fanOut(t, parallelism, func(i int) error {
			_, err := set.Reactions.Toggle(ctx, domainagg.ToggleReactionInput{UserID: students[i].ID, LessonID: lesson.ID, Like: true})
			return err
		})
		if len(errs) > 0 {
			t.Fatalf("toggle errors: %v", errs)
		}
		res, err := set.Reactions.Toggle(ctx, domainagg.ToggleReactionInput{UserID: teacher.ID, LessonID: lesson.ID, Like: false})
		if err != nil {
			t.Fatalf("Toggle: %v", err)
		}
		if res.Likes != parallelism || res.Dislikes != 1 {
			t.Fatalf("counts drifted: likes=%d dislikes=%d", res.Likes, res.Dislikes)
		}
	})

	t.Run("attempt submissions", func(t *testing.T) {
		test := repotest.SeedTest(t, ctx, db, course.ID, 3, 0, 2)
		answers := map[uuid.UUID]uuid.UUID{}
		for _, q := range test.Questions {
			for _, a := range q.Answers {
				if a.IsCorrect {
					answers[q.ID] = a.ID
				}
			}
		}
		var (
			mu      sync.Mutex
			graded  int
			awarded int
		)
		errs := fanOut(t, parallelism, func(int) error {
			res, err := set.Attempts.Submit(ctx, domainagg.SubmitAttemptInput{StudentID: late.ID, TestID: test.ID, Answers: answers})
			if err != nil {
				return err
			}
			if !res.AlreadyCompleted {
				mu.Lock()
				graded++
				awarded = res.Attempt.StarsAwarded
				mu.Unlock()
			}
			return nil
		})
		if len(errs) > 0 {
			t.Fatalf("submit errors: %v", errs)
		}
		if graded != 1 {
			t.Fatalf("exactly one submission must grade, got %d", graded)
		}
		got, err := r.Users.GetByID(dbctx.Context{Ctx: ctx}, late.ID)
		if err != nil || got == nil {
			t.Fatalf("GetByID: %v", err)
		}
		if awarded == 0 || got.Stars != awarded {
			t.Fatalf("stars credited more than once: awarded=%d total=%d", awarded, got.Stars)
		}
	})

	t.Run("teacher ratings", func(t *testing.T) {
		errs := fanOut(t, parallelism, func(i int) error {
			_, err := set.Ratings.Rate(ctx, domainagg.RateTeacherInput{RaterID: students[i].ID, TeacherID: teacher.ID, Stars: 4})
			return err
		})
		errs = append(errs, fanOut(t, parallelism, func(int) error {
			_, err := set.Ratings.Rate(ctx, domainagg.RateTeacherInput{RaterID: late.ID, TeacherID: teacher.ID, Stars: 4})
			return err
		})...)
		if len(errs) > 0 {
			t.Fatalf("rate errors: %v", errs)
		}
		res, err := set.Ratings.Rate(ctx, domainagg.RateTeacherInput{RaterID: late.ID, TeacherID: teacher.ID, Stars: 4})
		if err != nil {
			t.Fatalf("Rate: %v", err)
		}
		if res.TotalRatings != parallelism+1 || res.Average != 4 {
			t.Fatalf("unexpected aggregate: total=%d avg=%v", res.TotalRatings, res.Average)
		}
	})
}
