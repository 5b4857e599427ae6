package models

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Slug        string    `gorm:"type:varchar(120);uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Product struct {
	ID          uint      `gorm:"primaryKey"`
	CategoryID  uint      `gorm:"not null;index"`
	Name        string    `gorm:"type:varchar(200);not null"`
	Slug        string    `gorm:"type:varchar(220);uniqueIndex;not null"`
	Description string    `gorm:"type:text"`
	Price       float64   `gorm:"type:numeric(10,2);not null"`
	Image       *string   `gorm:"type:varchar(500)"`
	Stock       int       `gorm:"not null;default:0"`
	Available   bool      `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time

	// AverageRating is computed from reviews in the read query, never stored
	AverageRating float64 `gorm:"->;-:migration"`

	Category Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	Reviews  []Review `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

type Review struct {
	ID        uint      `gorm:"primaryKey"`
	ProductID uint      `gorm:"not null;index"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Rating    int       `gorm:"not null"`
	Comment   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"index"`

	Product Product `gorm:"foreignKey:ProductID"`
	User    User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
