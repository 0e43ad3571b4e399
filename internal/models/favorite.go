package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Favorite marks a movie as a favorite of a user, unique per (user, movie)
type Favorite struct {
	ID      uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	UserID  uuid.UUID `json:"user_id" db:"user_id" gorm:"not null;index;uniqueIndex:idx_favorites_user_movie"`
	MovieID uint      `json:"movie_id" db:"movie_id" gorm:"not null;index;uniqueIndex:idx_favorites_user_movie"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	User  User  `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
	Movie Movie `json:"movie,omitempty" gorm:"foreignKey:MovieID;references:ID"`
}

// BeforeCreate assigns a UUID when none was provided
func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// TableName sets the table name for the Favorite model
func (Favorite) TableName() string {
	return "favorites"
}

// Rating is a user's 1-10 rating of a movie, unique per (user, movie)
type Rating struct {
	ID      uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	UserID  uuid.UUID `json:"user_id" db:"user_id" gorm:"not null;index;uniqueIndex:idx_ratings_user_movie"`
	MovieID uint      `json:"movie_id" db:"movie_id" gorm:"not null;index;uniqueIndex:idx_ratings_user_movie"`
	Rating  float64   `json:"rating" db:"rating" gorm:"not null"` // 1-10 scale
	Review  string    `json:"review" db:"review" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	User  User  `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
	Movie Movie `json:"movie,omitempty" gorm:"foreignKey:MovieID;references:ID"`
}

// BeforeCreate assigns a UUID when none was provided
func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName sets the table name for the Rating model
func (Rating) TableName() string {
	return "ratings"
}
