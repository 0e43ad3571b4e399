package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an account that favorites, rates, and receives recommendations
type User struct {
	ID          uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	Email       string    `json:"email" db:"email" gorm:"uniqueIndex;not null"`
	DisplayName string    `json:"display_name" db:"display_name"`
	Avatar      string    `json:"avatar" db:"avatar"`
	Bio         string    `json:"bio" db:"bio"`

	CreatedAt  time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`
	LastSeenAt time.Time `json:"last_seen_at" db:"last_seen_at"`

	// When the recommendation engine last regenerated this user's rows
	RecsLastGenerated *time.Time `json:"recs_last_generated" db:"recs_last_generated"`

	// No default tag: gorm omits zero values for defaulted columns on
	// insert, which would turn an explicit false into true
	IsActive bool `json:"is_active" db:"is_active"`

	// Relationships
	Favorites []Favorite `json:"favorites,omitempty" gorm:"foreignKey:UserID"`
	Ratings   []Rating   `json:"ratings,omitempty" gorm:"foreignKey:UserID"`
}

// BeforeCreate assigns a UUID when none was provided
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName sets the table name for the User model
func (User) TableName() string {
	return "users"
}
