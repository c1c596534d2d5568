package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/coursehub-backend/internal/domain/user"
	"gorm.io/gorm"
)

// UserToken is one login session. Only the SHA-256 of the refresh token is stored.
type UserToken struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User             *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	RefreshTokenHash string     `gorm:"column:refresh_token_hash;not null;uniqueIndex" json:"-"`
	AccessTokenID    string     `gorm:"column:access_token_id;not null;index" json:"-"`
	ExpiresAt        time.Time  `gorm:"column:expires_at;not null" json:"expires_at"`
	CreatedAt        time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"not null" json:"updated_at"`
}

func (UserToken) TableName() string { return "user_token" }

func (t *UserToken) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
