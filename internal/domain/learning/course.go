package learning

import (
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/coursehub-backend/internal/domain/user"
	"gorm.io/gorm"
)

type CourseType string

const (
	CourseTypeOpen   CourseType = "open"
	CourseTypeClosed CourseType = "closed"
)

func (t CourseType) Valid() bool {
	return t == CourseTypeOpen || t == CourseTypeClosed
}

type CourseCategory struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Slug      string    `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (CourseCategory) TableName() string { return "course_category" }

func (c *CourseCategory) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type Course struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	TeacherID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"teacher_id"`
	Teacher    *user.User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:TeacherID;references:ID" json:"teacher,omitempty"`
	CategoryID *uuid.UUID      `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Category   *CourseCategory `gorm:"constraint:OnDelete:SET NULL;foreignKey:CategoryID;references:ID" json:"category,omitempty"`

	Title       string     `gorm:"column:title;not null" json:"title"`
	Description string     `gorm:"column:description;type:text" json:"description"`
	Subject     string     `gorm:"column:subject" json:"subject"`
	Grade       string     `gorm:"column:grade;index" json:"grade"`
	CourseType  CourseType `gorm:"column:course_type;not null;default:'open';index" json:"course_type"`
	ImageKey    string     `gorm:"column:image_key" json:"image_key,omitempty"`
	ImageURL    string     `gorm:"column:image_url" json:"image_url,omitempty"`
	IsActive    bool       `gorm:"column:is_active;not null" json:"is_active"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Course) TableName() string { return "course" }

func (c *Course) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CourseType == "" {
		c.CourseType = CourseTypeOpen
	}
	return nil
}

func (c *Course) IsOpen() bool { return c.CourseType == CourseTypeOpen }

// CourseStudent is the enrollment record. Its existence is the only access signal.
type CourseStudent struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_course_student_pair,priority:1" json:"user_id"`
	User     *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	CourseID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_course_student_pair,priority:2;index" json:"course_id"`
	Course   *Course    `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	JoinedAt time.Time  `gorm:"column:joined_at;not null" json:"joined_at"`
}

func (CourseStudent) TableName() string { return "course_student" }

func (cs *CourseStudent) BeforeCreate(*gorm.DB) error {
	if cs.ID == uuid.Nil {
		cs.ID = uuid.New()
	}
	if cs.JoinedAt.IsZero() {
		cs.JoinedAt = time.Now().UTC()
	}
	return nil
}

type JoinRequestStatus string

const (
	JoinRequestPending  JoinRequestStatus = "pending"
	JoinRequestApproved JoinRequestStatus = "approved"
	JoinRequestRejected JoinRequestStatus = "rejected"
)

type JoinRequest struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	User        *user.User        `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	CourseID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"course_id"`
	Course      *Course           `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	Message     string            `gorm:"column:message;type:text" json:"message,omitempty"`
	Status      JoinRequestStatus `gorm:"column:status;not null;default:'pending';index" json:"status"`
	ProcessedAt *time.Time        `gorm:"column:processed_at" json:"processed_at,omitempty"`
	CreatedAt   time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null" json:"updated_at"`
}

func (JoinRequest) TableName() string { return "join_request" }

func (jr *JoinRequest) BeforeCreate(*gorm.DB) error {
	if jr.ID == uuid.Nil {
		jr.ID = uuid.New()
	}
	if jr.Status == "" {
		jr.Status = JoinRequestPending
	}
	return nil
}
