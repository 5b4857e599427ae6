package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleCustomer   Role = "customer"
	RoleGuest      Role = "guest"
)

// IsValid reports whether r is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleCustomer, RoleGuest:
		return true
	default:
		return false
	}
}

type User struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email           string     `gorm:"type:varchar(254);uniqueIndex;not null" json:"email"`
	PasswordHash    string     `gorm:"type:varchar(255);not null" json:"-"` // Never expose password hash in JSON
	FirstName       string     `gorm:"type:varchar(150)" json:"first_name"`
	LastName        string     `gorm:"type:varchar(150)" json:"last_name"`
	Role            Role       `gorm:"type:varchar(20);not null;default:'customer'" json:"role"`
	OAuthProvider   *string    `gorm:"type:varchar(50)" json:"oauth_provider,omitempty"`
	ProfileImage    *string    `gorm:"type:varchar(500)" json:"profile_image"`
	IsEmailVerified bool       `gorm:"not null;default:false" json:"is_email_verified"`
	IsActive        bool       `gorm:"not null;default:false" json:"is_active"`
	IsStaff         bool       `gorm:"not null;default:false" json:"-"`
	IsSuperuser     bool       `gorm:"not null;default:false" json:"-"`
	LastLogin       *time.Time `json:"last_login,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Profile *Profile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate assigns the UUID in Go so the schema works on both Postgres and SQLite
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Profile struct {
	ID           uint       `gorm:"primaryKey" json:"-"`
	UserID       uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"-"`
	Bio          string     `gorm:"type:text" json:"bio"`
	PhoneNumber  string     `gorm:"type:varchar(20)" json:"phone_number"`
	Address      string     `gorm:"type:text" json:"address"`
	DateOfBirth  *time.Time `gorm:"type:date" json:"date_of_birth"`
	ProfileImage *string    `gorm:"type:varchar(500)" json:"profile_image"`
	CreatedAt    time.Time  `json:"-"`
	UpdatedAt    time.Time  `json:"-"`
}
