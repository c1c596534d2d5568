package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/domain/assessment"
	"github.com/yungbote/coursehub-backend/internal/domain/learning"
	"github.com/yungbote/coursehub-backend/internal/domain/user"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, username string, role user.Role) *user.User {
	tb.Helper()
	u := &user.User{
		ID:        uuid.New(),
		Username:  username,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
		Role:      role,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, teacherID uuid.UUID, title string, kind learning.CourseType) *learning.Course {
	tb.Helper()
	c := &learning.Course{
		ID:          uuid.New(),
		TeacherID:   teacherID,
		Title:       title,
		Description: title + " description",
		Subject:     "math",
		Grade:       "7",
		CourseType:  kind,
		IsActive:    true,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedLesson(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uuid.UUID, order int) *learning.Lesson {
	tb.Helper()
	l := &learning.Lesson{
		ID:       uuid.New(),
		CourseID: courseID,
		Order:    order,
		Title:    "lesson",
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	return l
}

func SeedEnrollment(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) *learning.CourseStudent {
	tb.Helper()
	cs := &learning.CourseStudent{ID: uuid.New(), UserID: userID, CourseID: courseID}
	if err := tx.WithContext(ctx).Create(cs).Error; err != nil {
		tb.Fatalf("seed enrollment: %v", err)
	}
	return cs
}

// SeedTest creates a test with one question per entry of correct; correct[i] is the index of
// the right answer among answersPer options.
func SeedTest(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uuid.UUID, answersPer int, correct ...int) *assessment.CourseTest {
	tb.Helper()
	t := &assessment.CourseTest{ID: uuid.New(), CourseID: courseID, Title: "test", PassingScore: 60}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed test: %v", err)
	}
	for qi, right := range correct {
		q := assessment.TestQuestion{ID: uuid.New(), TestID: t.ID, Order: qi + 1, Text: "q"}
		if err := tx.WithContext(ctx).Create(&q).Error; err != nil {
			tb.Fatalf("seed question: %v", err)
		}
		for ai := 0; ai < answersPer; ai++ {
			a := assessment.TestAnswer{ID: uuid.New(), QuestionID: q.ID, Order: ai + 1, Text: "a", IsCorrect: ai == right}
			if err := tx.WithContext(ctx).Create(&a).Error; err != nil {
				tb.Fatalf("seed answer: %v", err)
			}
			q.Answers = append(q.Answers, a)
		}
		t.Questions = append(t.Questions, q)
	}
	return t
}
