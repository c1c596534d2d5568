package aggregates_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/coursehub-backend/internal/data/aggregates"
	aggtest "github.com/yungbote/coursehub-backend/internal/data/aggregates/testutil"
	"github.com/yungbote/coursehub-backend/internal/data/repos"
	repotest "github.com/yungbote/coursehub-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/coursehub-backend/internal/domain/aggregates"
	"github.com/yungbote/coursehub-backend/internal/domain/learning"
	"github.com/yungbote/coursehub-backend/internal/domain/user"
)

func TestEnrollRetriesOnceAfterCommitConflict(t *testing.T) {
	db := repotest.DB(t)
	tx := repotest.Tx(t, db)
	ctx := context.Background()
	log := repotest.Logger(t)

	teacher := repotest.SeedUser(t, ctx, tx, "teacher", user.RoleTeacher)
	student := repotest.SeedUser(t, ctx, tx, "student", user.RoleStudent)
	course := repotest.SeedCourse(t, ctx, tx, teacher.ID, "Algebra", learning.CourseTypeOpen)

	newAgg := func(runner aggregates.TxRunner, hooks aggregates.Hooks) domainagg.EnrollmentAggregate {
		return aggregates.NewEnrollmentAggregate(aggregates.EnrollmentAggregateDeps{
			Base:         aggregates.BaseDeps{DB: tx, Runner: runner, Hooks: hooks, CASGuard: aggregates.NewCASGuard(tx)},
			Enrollments:  repos.NewEnrollmentRepo(tx, log),
			JoinRequests: repos.NewJoinRequestRepo(tx, log),
		})
	}
	conflict := aggregates.ConflictError("serialization failure on commit")

	runner := &aggtest.ScriptedRunner{Commit: []error{conflict, conflict}}
	hooks := &aggtest.RecordingHooks{}
	if _, err := newAgg(runner, hooks).Enroll(ctx, student.ID, course.ID); !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("expected conflict after retries, got %v", err)
	}
	if runner.Attempts != 2 || runner.Rollbacks != 2 {
		t.Fatalf("expected two attempts, attempts=%d rollbacks=%d", runner.Attempts, runner.Rollbacks)
	}
	if len(hooks.Events(aggtest.HookConflict)) != 2 || len(hooks.Events(aggtest.HookObserve)) != 2 {
		t.Fatalf("hooks: %+v", hooks.Events(""))
	}

	runner = &aggtest.ScriptedRunner{Commit: []error{conflict}}
	res, err := newAgg(runner, nil).Enroll(ctx, student.ID, course.ID)
	if err != nil || res.Enrollment.UserID != student.ID {
		t.Fatalf("second attempt must succeed: %+v %v", res, err)
	}
	if runner.Attempts != 2 || runner.Commits != 1 {
		t.Fatalf("attempts=%d commits=%d", runner.Attempts, runner.Commits)
	}
}

func TestTeacherRequestDecideDoesNotRetryBeginFailure(t *testing.T) {
	db := repotest.DB(t)
	tx := repotest.Tx(t, db)
	log := repotest.Logger(t)

	runner := &aggtest.ScriptedRunner{Begin: errors.New("connection refused")}
	hooks := &aggtest.RecordingHooks{}
	agg := aggregates.NewTeacherRequestAggregate(aggregates.TeacherRequestAggregateDeps{
		Base:     aggregates.BaseDeps{DB: tx, Runner: runner, Hooks: hooks},
		Users:    repos.NewUserRepo(tx, log),
		Requests: repos.NewBecomeTeacherRequestRepo(tx, log),
	})

	_, err := agg.Decide(context.Background(), uuid.New(), true)
	if !domainagg.IsCode(err, domainagg.CodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
	if runner.Attempts != 1 {
		t.Fatalf("attempts: %d", runner.Attempts)
	}
	ops := hooks.Events(aggtest.HookObserve)
	if len(ops) != 1 || ops[0].Status != string(domainagg.CodeInternal) {
		t.Fatalf("unexpected ops: %+v", ops)
	}
}

func TestAggregateContractsAreDistinct(t *testing.T) {
	db := repotest.DB(t)
	set := aggregates.NewSet(aggregates.BaseDeps{DB: db, Log: repotest.Logger(t)}, repos.NewSet(db, repotest.Logger(t)))
	all := []domainagg.Aggregate{
		set.Reactions, set.Progress, set.Enrollments, set.Attempts,
		set.QuestionSets, set.Ratings, set.TeacherRequests,
	}
	seen := map[string]bool{}
	for _, agg := range all {
		c := agg.Contract()
		if c.Name == "" || c.Locks == "" || c.Invariant == "" {
			t.Fatalf("incomplete contract: %+v", c)
		}
		if seen[c.Name] {
			t.Fatalf("duplicate contract name %q", c.Name)
		}
		seen[c.Name] = true
	}
}
