package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinRating = 1
	MaxRating = 5
)

type TeacherRating struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RaterID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_teacher_rating_pair,priority:1" json:"rater_id"`
	Rater     *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:RaterID;references:ID" json:"rater,omitempty"`
	TeacherID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_teacher_rating_pair,priority:2;index" json:"teacher_id"`
	Teacher   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:TeacherID;references:ID" json:"-"`
	Rating    int       `gorm:"column:rating;not null" json:"rating"`
	Review    string    `gorm:"column:review;type:text" json:"review,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (TeacherRating) TableName() string { return "teacher_rating" }

func (r *TeacherRating) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func ValidRating(stars int) bool {
	return stars >= MinRating && stars <= MaxRating
}

// RoundRating rounds an average to one decimal place, halves away from zero.
func RoundRating(avg float64) float64 {
	if avg <= 0 {
		return 0
	}
	return float64(int64(avg*10+0.5)) / 10
}
