// Package interactions records user interactions with the catalogue:
// favorites, ratings, and feedback on recommendations. These rows are
// the read-only inputs of the recommendation engine.
package interactions

import (
	"errors"
	"fmt"

	"cinefeed/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInvalidRating is returned for ratings outside the 1-10 scale
var ErrInvalidRating = errors.New("rating must be between 1 and 10")

// ErrInvalidFeedback is returned for unknown feedback types
var ErrInvalidFeedback = errors.New("feedback type must be like, dislike, or not_interested")

// Service handles interaction writes
type Service struct {
	db *gorm.DB
}

// NewService creates a new interactions service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// AddFavorite marks a movie as a favorite of the user. Favoriting the
// same movie twice is a no-op.
func (s *Service) AddFavorite(userID uuid.UUID, movieID uint) (*models.Favorite, error) {
	var movie models.Movie
	if err := s.db.Select("id").First(&movie, movieID).Error; err != nil {
		return nil, err
	}

	favorite := models.Favorite{UserID: userID, MovieID: movieID}
	err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&favorite).Error
	if err != nil {
		return nil, fmt.Errorf("failed to add favorite: %w", err)
	}

	return &favorite, nil
}

// RemoveFavorite removes a movie from the user's favorites
func (s *Service) RemoveFavorite(userID uuid.UUID, movieID uint) error {
	result := s.db.Where("user_id = ? AND movie_id = ?", userID, movieID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RateMovie records or updates the user's 1-10 rating of a movie
func (s *Service) RateMovie(userID uuid.UUID, movieID uint, rating float64, review string) (*models.Rating, error) {
	if rating < 1 || rating > 10 {
		return nil, ErrInvalidRating
	}

	var movie models.Movie
	if err := s.db.Select("id").First(&movie, movieID).Error; err != nil {
		return nil, err
	}

	row := models.Rating{
		UserID:  userID,
		MovieID: movieID,
		Rating:  rating,
		Review:  review,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "movie_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "review", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to save rating: %w", err)
	}

	return &row, nil
}

// RecordFeedback stores the user's reaction to one of their own
// recommendations, replacing any earlier reaction to it
func (s *Service) RecordFeedback(userID, recommendationID uuid.UUID, feedbackType, comment string) (*models.RecommendationFeedback, error) {
	switch feedbackType {
	case models.FeedbackLike, models.FeedbackDislike, models.FeedbackNotInterested:
	default:
		return nil, ErrInvalidFeedback
	}

	var rec models.Recommendation
	err := s.db.Where("id = ? AND user_id = ?", recommendationID, userID).
		First(&rec).Error
	if err != nil {
		return nil, err
	}

	row := models.RecommendationFeedback{
		UserID:           userID,
		RecommendationID: recommendationID,
		FeedbackType:     feedbackType,
		Comment:          comment,
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "recommendation_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"feedback_type", "comment", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}

	return &row, nil
}

// ListFavorites returns the user's favorited movies, newest first
func (s *Service) ListFavorites(userID uuid.UUID, limit, offset int) ([]models.Favorite, error) {
	var favorites []models.Favorite
	err := s.db.Preload("Movie").Preload("Movie.Genres").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&favorites).Error
	return favorites, err
}
