package models

import (
	"time"

	"github.com/google/uuid"
)

// PasswordResetToken is a single-use key mailed to a user who asked to reset their password
type PasswordResetToken struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Key       string    `gorm:"column:token_key;type:varchar(64);uniqueIndex;not null"`
	IPAddress string    `gorm:"type:varchar(45)"`
	UserAgent string    `gorm:"type:varchar(256)"`
	CreatedAt time.Time `gorm:"index"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// IsExpired reports whether the token is older than ttl
func (t *PasswordResetToken) IsExpired(ttl time.Duration, now time.Time) bool {
	return now.After(t.CreatedAt.Add(ttl))
}
