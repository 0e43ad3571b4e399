// Package catalog provides read-only access to the movie catalogue
package catalog

import (
	"context"

	"cinefeed/internal/cache"
	"cinefeed/internal/metrics"
	"cinefeed/internal/models"

	"gorm.io/gorm"
)

// Service handles catalogue queries
type Service struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewService creates a new catalog service
func NewService(db *gorm.DB, c *cache.Cache) *Service {
	return &Service{db: db, cache: c}
}

// ListParams narrows a catalogue listing
type ListParams struct {
	Page    int
	PerPage int
	GenreID uint
	Search  string
}

// MovieList is a page of catalogue results
type MovieList struct {
	Movies  []models.Movie `json:"movies"`
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
}

// ListMovies returns a page of movies ordered by popularity
func (s *Service) ListMovies(ctx context.Context, params ListParams) (*MovieList, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PerPage < 1 || params.PerPage > 100 {
		params.PerPage = 20
	}

	key := cache.MovieListKey(params.Page, params.PerPage, params.GenreID, params.Search)
	var cached MovieList
	if s.cache.GetJSON(ctx, key, &cached) {
		metrics.CacheRequestsTotal.WithLabelValues("movies", "hit").Inc()
		return &cached, nil
	}
	metrics.CacheRequestsTotal.WithLabelValues("movies", "miss").Inc()

	query := s.db.Model(&models.Movie{})
	if params.Search != "" {
		query = query.Where("title LIKE ?", "%"+params.Search+"%")
	}
	if params.GenreID != 0 {
		query = query.
			Joins("JOIN movie_genres ON movie_genres.movie_id = movies.id").
			Where("movie_genres.genre_id = ?", params.GenreID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var movies []models.Movie
	err := query.Preload("Genres", orderGenresByID).
		Order("popularity DESC, vote_average DESC").
		Limit(params.PerPage).
		Offset((params.Page - 1) * params.PerPage).
		Find(&movies).Error
	if err != nil {
		return nil, err
	}

	list := &MovieList{
		Movies:  movies,
		Total:   total,
		Page:    params.Page,
		PerPage: params.PerPage,
	}
	s.cache.SetJSON(ctx, key, list, cache.MovieListTTL)

	return list, nil
}

// GetMovie returns one movie with its genre set
func (s *Service) GetMovie(ctx context.Context, id uint) (*models.Movie, error) {
	key := cache.MovieKey(id)
	var cached models.Movie
	if s.cache.GetJSON(ctx, key, &cached) {
		metrics.CacheRequestsTotal.WithLabelValues("movie", "hit").Inc()
		return &cached, nil
	}
	metrics.CacheRequestsTotal.WithLabelValues("movie", "miss").Inc()

	var movie models.Movie
	if err := s.db.Preload("Genres", orderGenresByID).First(&movie, id).Error; err != nil {
		return nil, err
	}

	s.cache.SetJSON(ctx, key, movie, cache.MovieTTL)
	return &movie, nil
}

// ListGenres returns all genres ordered by name
func (s *Service) ListGenres() ([]models.Genre, error) {
	var genres []models.Genre
	err := s.db.Order("name ASC").Find(&genres).Error
	return genres, err
}

func orderGenresByID(tx *gorm.DB) *gorm.DB {
	return tx.Order("genres.id")
}
