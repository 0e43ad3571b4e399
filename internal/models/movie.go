package models

import (
	"time"

	"github.com/lib/pq"
)

// Genre represents a TMDb movie genre
type Genre struct {
	ID     uint   `json:"id" db:"id" gorm:"primaryKey"`
	TMDbID int    `json:"tmdb_id" db:"tmdb_id" gorm:"column:tmdb_id;uniqueIndex;not null"`
	Name   string `json:"name" db:"name" gorm:"not null"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Movies []Movie `json:"movies,omitempty" gorm:"many2many:movie_genres;"`
}

// TableName sets the table name for the Genre model
func (Genre) TableName() string {
	return "genres"
}

// Movie represents a movie with its TMDb metadata
type Movie struct {
	ID            uint   `json:"id" db:"id" gorm:"primaryKey"`
	TMDbID        int    `json:"tmdb_id" db:"tmdb_id" gorm:"column:tmdb_id;uniqueIndex;not null"`
	IMDbID        string `json:"imdb_id" db:"imdb_id"`
	Title         string `json:"title" db:"title" gorm:"not null;index"`
	OriginalTitle string `json:"original_title" db:"original_title"`
	Overview      string `json:"overview" db:"overview" gorm:"type:text"`
	Tagline       string `json:"tagline" db:"tagline"`

	// Release information
	ReleaseDate *time.Time `json:"release_date" db:"release_date" gorm:"index"`
	Runtime     int        `json:"runtime" db:"runtime" gorm:"default:0"` // in minutes

	// Ratings and popularity
	VoteAverage float64 `json:"vote_average" db:"vote_average" gorm:"default:0.0;index"`
	VoteCount   int     `json:"vote_count" db:"vote_count" gorm:"default:0"`
	Popularity  float64 `json:"popularity" db:"popularity" gorm:"default:0.0;index"`

	// Media
	PosterPath   string `json:"poster_path" db:"poster_path"`
	BackdropPath string `json:"backdrop_path" db:"backdrop_path"`

	// Classification
	OriginalLanguage string         `json:"original_language" db:"original_language" gorm:"default:en"`
	OriginCountries  pq.StringArray `json:"origin_countries" db:"origin_countries" gorm:"type:text[]"`
	Adult            bool           `json:"adult" db:"adult" gorm:"default:false"`
	Status           string         `json:"status" db:"status"` // Released, Post Production, etc.

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Genres []Genre `json:"genres,omitempty" gorm:"many2many:movie_genres;"`
}

// TableName sets the table name for the Movie model
func (Movie) TableName() string {
	return "movies"
}

// PosterURL returns the full TMDb poster URL, or "" when no poster exists
func (m *Movie) PosterURL() string {
	if m.PosterPath == "" {
		return ""
	}
	return "https://image.tmdb.org/t/p/w500" + m.PosterPath
}

// PrimaryGenreID returns the lowest genre id carried by the movie.
// The lowest id is used as the deterministic "top genre" for the
// diversity pass; zero means the movie has no genres loaded.
func (m *Movie) PrimaryGenreID() uint {
	var primary uint
	for _, g := range m.Genres {
		if primary == 0 || g.ID < primary {
			primary = g.ID
		}
	}
	return primary
}
