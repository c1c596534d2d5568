package learning

import (
	"github.com/google/uuid"
	"github.com/yungbote/coursehub-backend/internal/domain/user"
)

// Actor is the authenticated caller as seen by the gates.
type Actor struct {
	ID      uuid.UUID
	Role    user.Role
	IsAdmin bool
}

// CanViewLesson reports whether a caller with the given enrollment state may open a lesson.
// Enrollment in the lesson's course is the only condition.
func CanViewLesson(enrolled bool) bool {
	return enrolled
}

// OwnsCourse reports whether actor may mutate course and anything nested under it.
func OwnsCourse(actor Actor, course *Course) bool {
	if course == nil || actor.ID == uuid.Nil {
		return false
	}
	return actor.Role.IsTeacher() && course.TeacherID == actor.ID
}

// CanEnroll reports whether a student may self-enroll without a join request.
func CanEnroll(course *Course) bool {
	return course != nil && course.IsActive && course.IsOpen()
}

// ProgressPercent returns completed/total as a whole percentage.
func ProgressPercent(completed, total int64) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	if completed >= total {
		return 100
	}
	return int(completed * 100 / total)
}
