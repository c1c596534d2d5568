package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string    `gorm:"column:username;not null;uniqueIndex" json:"username"`
	Phone     *string   `gorm:"column:phone;uniqueIndex" json:"phone,omitempty"`
	Password  string    `gorm:"column:password;not null" json:"-"`
	FirstName string    `gorm:"column:first_name;not null" json:"first_name"`
	LastName  string    `gorm:"column:last_name;not null" json:"last_name"`
	Role      Role      `gorm:"column:role;not null;default:'student';index" json:"role"`
	IsAdmin   bool      `gorm:"column:is_admin;not null;default:false" json:"is_admin"`
	Level     Level     `gorm:"column:level;not null;default:'beginner'" json:"level"`

	Bio             string `gorm:"column:bio;type:text" json:"bio,omitempty"`
	Specialty       string `gorm:"column:specialty" json:"specialty,omitempty"`
	ExperienceYears int    `gorm:"column:experience_years;not null;default:0" json:"experience_years"`
	AvatarKey       string `gorm:"column:avatar_key" json:"avatar_key,omitempty"`
	AvatarURL       string `gorm:"column:avatar_url" json:"avatar_url,omitempty"`

	Email            string          `gorm:"column:email" json:"email,omitempty"`
	TelegramUsername string          `gorm:"column:telegram_username" json:"telegram_username,omitempty"`
	DateOfBirth      *datatypes.Date `gorm:"column:date_of_birth" json:"date_of_birth,omitempty"`

	// Coins is carried for display and leaderboard ordering only; nothing awards it.
	Coins int `gorm:"column:coins;not null;default:0" json:"coins"`
	Stars int `gorm:"column:stars;not null;default:0" json:"stars"`

	Rating       float64 `gorm:"column:rating;not null;default:0" json:"rating"`
	TotalRatings int     `gorm:"column:total_ratings;not null;default:0" json:"total_ratings"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "user" }

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleStudent
	}
	if u.Level == "" {
		u.Level = LevelBeginner
	}
	return nil
}

func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	default:
		return u.Username
	}
}

type Level string

const (
	LevelBeginner Level = "beginner"
	LevelJunior   Level = "junior"
	LevelMiddle   Level = "middle"
	LevelSenior   Level = "senior"
)

func (l Level) Valid() bool {
	switch l {
	case LevelBeginner, LevelJunior, LevelMiddle, LevelSenior:
		return true
	default:
		return false
	}
}
