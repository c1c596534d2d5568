package learning

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/coursehub-backend/internal/domain/user"
	"gorm.io/gorm"
)

// PresentationExtensions lists the accepted presentation file extensions.
var PresentationExtensions = []string{".pdf", ".ppt", ".pptx"}

func AllowedPresentation(filename string) bool {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	for _, allowed := range PresentationExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

type Lesson struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_lesson_course_order,priority:1" json:"course_id"`
	Course   *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	Order    int       `gorm:"column:order_index;not null;uniqueIndex:idx_lesson_course_order,priority:2" json:"order"`

	Title           string `gorm:"column:title;not null" json:"title"`
	Description     string `gorm:"column:description;type:text" json:"description"`
	Content         string `gorm:"column:content;type:text" json:"content"`
	VideoURL        string `gorm:"column:video_url" json:"video_url,omitempty"`
	PresentationKey string `gorm:"column:presentation_key" json:"presentation_key,omitempty"`
	PresentationURL string `gorm:"column:presentation_url" json:"presentation_url,omitempty"`
	DurationMinutes int    `gorm:"column:duration_minutes;not null;default:0" json:"duration_minutes"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Lesson) TableName() string { return "lesson" }

func (l *Lesson) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// Comment is append-only. It hangs off the course and remembers which lesson it was posted from.
type Comment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	CourseID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"course_id"`
	LessonID  *uuid.UUID `gorm:"type:uuid;index" json:"lesson_id,omitempty"`
	Content   string     `gorm:"column:content;type:text;not null" json:"content"`
	CreatedAt time.Time  `gorm:"not null;index" json:"created_at"`
}

func (Comment) TableName() string { return "comment" }

func (c *Comment) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type LessonLikeDislike struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_lesson_reaction_pair,priority:1" json:"user_id"`
	LessonID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_lesson_reaction_pair,priority:2;index" json:"lesson_id"`
	Lesson    *Lesson   `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"-"`
	IsLike    bool      `gorm:"column:is_like;not null" json:"is_like"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (LessonLikeDislike) TableName() string { return "lesson_like_dislike" }

func (r *LessonLikeDislike) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type LessonProgress struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_lesson_progress_pair,priority:1" json:"user_id"`
	LessonID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_lesson_progress_pair,priority:2;index" json:"lesson_id"`
	Lesson      *Lesson    `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"-"`
	IsCompleted bool       `gorm:"column:is_completed;not null;default:false" json:"is_completed"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (LessonProgress) TableName() string { return "lesson_progress" }

func (p *LessonProgress) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
