package community

import (
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/coursehub-backend/internal/domain/learning"
	"github.com/yungbote/coursehub-backend/internal/domain/user"
	"gorm.io/gorm"
)

type News struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Content     string         `gorm:"column:content;type:text" json:"content"`
	ImageKey    string         `gorm:"column:image_key" json:"image_key,omitempty"`
	ImageURL    string         `gorm:"column:image_url" json:"image_url,omitempty"`
	IsPublished bool           `gorm:"column:is_published;not null;index" json:"is_published"`
	CreatedAt   time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (News) TableName() string { return "news" }

func (n *News) BeforeCreate(*gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

type ContactMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Phone     string    `gorm:"column:phone;not null" json:"phone"`
	Message   string    `gorm:"column:message;type:text;not null" json:"message"`
	IsRead    bool      `gorm:"column:is_read;not null;default:false;index" json:"is_read"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (ContactMessage) TableName() string { return "contact_message" }

func (m *ContactMessage) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type ContactToTeacher struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID  *uuid.UUID `gorm:"type:uuid;index" json:"sender_id,omitempty"`
	TeacherID uuid.UUID  `gorm:"type:uuid;not null;index" json:"teacher_id"`
	Teacher   *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:TeacherID;references:ID" json:"-"`
	Name      string     `gorm:"column:name;not null" json:"name"`
	Phone     string     `gorm:"column:phone;not null" json:"phone"`
	Message   string     `gorm:"column:message;type:text;not null" json:"message"`
	IsRead    bool       `gorm:"column:is_read;not null;default:false" json:"is_read"`
	CreatedAt time.Time  `gorm:"not null;index" json:"created_at"`
}

func (ContactToTeacher) TableName() string { return "contact_to_teacher" }

func (m *ContactToTeacher) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TeacherApplication is the anonymous "become a teacher" form from the public site.
type TeacherApplication struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FullName    string    `gorm:"column:full_name;not null" json:"full_name"`
	Phone       string    `gorm:"column:phone;not null" json:"phone"`
	Subject     string    `gorm:"column:subject" json:"subject"`
	Experience  string    `gorm:"column:experience;type:text" json:"experience"`
	Message     string    `gorm:"column:message;type:text" json:"message"`
	IsProcessed bool      `gorm:"column:is_processed;not null;default:false;index" json:"is_processed"`
	CreatedAt   time.Time `gorm:"not null;index" json:"created_at"`
}

func (TeacherApplication) TableName() string { return "teacher_application" }

func (a *TeacherApplication) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// BecomeTeacherRequest is filed by an existing account asking to be promoted.
type BecomeTeacherRequest struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User        *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Motivation  string     `gorm:"column:motivation;type:text" json:"motivation"`
	IsProcessed bool       `gorm:"column:is_processed;not null;default:false;index" json:"is_processed"`
	Approved    bool       `gorm:"column:approved;not null;default:false" json:"approved"`
	ProcessedAt *time.Time `gorm:"column:processed_at" json:"processed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (BecomeTeacherRequest) TableName() string { return "become_teacher_request" }

func (r *BecomeTeacherRequest) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type Certificate struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_certificate_pair,priority:1" json:"user_id"`
	User      *user.User       `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	CourseID  uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_certificate_pair,priority:2" json:"course_id"`
	Course    *learning.Course `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	Title     string           `gorm:"column:title;not null" json:"title"`
	ImageKey  string           `gorm:"column:image_key" json:"image_key,omitempty"`
	ImageURL  string           `gorm:"column:image_url" json:"image_url,omitempty"`
	IssuedAt  time.Time        `gorm:"column:issued_at;not null" json:"issued_at"`
	CreatedAt time.Time        `gorm:"not null" json:"created_at"`
}

func (Certificate) TableName() string { return "certificate" }

func (c *Certificate) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.IssuedAt.IsZero() {
		c.IssuedAt = time.Now().UTC()
	}
	return nil
}
