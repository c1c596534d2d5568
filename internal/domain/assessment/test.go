package assessment

import (
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/coursehub-backend/internal/domain/learning"
	"github.com/yungbote/coursehub-backend/internal/domain/user"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CourseTest struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"course_id"`
	Course      *learning.Course `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	Title       string           `gorm:"column:title;not null" json:"title"`
	Description string           `gorm:"column:description;type:text" json:"description"`

	// PassingScore is displayed and reported as "passed" but gates nothing.
	PassingScore     int            `gorm:"column:passing_score;not null" json:"passing_score"`
	TimeLimitMinutes int            `gorm:"column:time_limit_minutes;not null;default:0" json:"time_limit_minutes"`
	Questions        []TestQuestion `gorm:"foreignKey:TestID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	CreatedAt        time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null" json:"updated_at"`
}

func (CourseTest) TableName() string { return "course_test" }

func (t *CourseTest) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

type TestQuestion struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	TestID    uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_test_question_order,priority:1" json:"test_id"`
	Order     int          `gorm:"column:order_index;not null;uniqueIndex:idx_test_question_order,priority:2" json:"order"`
	Text      string       `gorm:"column:text;type:text;not null" json:"text"`
	Answers   []TestAnswer `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"answers,omitempty"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null" json:"updated_at"`
}

func (TestQuestion) TableName() string { return "test_question" }

func (q *TestQuestion) BeforeCreate(*gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

type TestAnswer struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_test_answer_order,priority:1" json:"question_id"`
	Order      int       `gorm:"column:order_index;not null;uniqueIndex:idx_test_answer_order,priority:2" json:"order"`
	Text       string    `gorm:"column:text;type:text;not null" json:"text"`
	IsCorrect  bool      `gorm:"column:is_correct;not null;default:false" json:"is_correct"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (TestAnswer) TableName() string { return "test_answer" }

func (a *TestAnswer) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// StudentTest is the single attempt row for a (student, test) pair. Graded is terminal.
type StudentTest struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_student_test_pair,priority:1" json:"student_id"`
	Student      *user.User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	TestID       uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_student_test_pair,priority:2;index" json:"test_id"`
	Test         *CourseTest    `gorm:"constraint:OnDelete:CASCADE;foreignKey:TestID;references:ID" json:"-"`
	Completed    bool           `gorm:"column:completed;not null;default:false" json:"completed"`
	Score        *float64       `gorm:"column:score" json:"score"`
	StarsAwarded int            `gorm:"column:stars_awarded;not null;default:0" json:"stars_awarded"`
	Answers      datatypes.JSON `gorm:"column:answers" json:"answers,omitempty"`
	StartedAt    time.Time      `gorm:"column:started_at;not null" json:"started_at"`
	CompletedAt  *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null" json:"updated_at"`
}

func (StudentTest) TableName() string { return "student_test" }

func (st *StudentTest) BeforeCreate(*gorm.DB) error {
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	if st.StartedAt.IsZero() {
		st.StartedAt = time.Now().UTC()
	}
	return nil
}

type AttemptState string

const (
	AttemptNotStarted AttemptState = "not_started"
	AttemptInProgress AttemptState = "in_progress"
	AttemptGraded     AttemptState = "graded"
)

func (st *StudentTest) State() AttemptState {
	switch {
	case st == nil:
		return AttemptNotStarted
	case st.Completed:
		return AttemptGraded
	default:
		return AttemptInProgress
	}
}
