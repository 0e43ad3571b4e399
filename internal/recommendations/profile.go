package recommendations

import (
	"cinefeed/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// Ratings at or above this mark a movie as liked (1-10 scale)
	highRatingThreshold = 7.0
	// Ratings below this mark a movie as dismissed
	lowRatingThreshold = 4.0
)

// profileRun builds a user's taste profile and memoizes every piece for
// the duration of one generation run. Nothing is cached globally.
type profileRun struct {
	db     *gorm.DB
	userID uuid.UUID

	likedIDs     map[uint]struct{}
	dismissedIDs map[uint]struct{}
	genreProfile map[uint]float64
}

func newProfileRun(db *gorm.DB, userID uuid.UUID) *profileRun {
	return &profileRun{db: db, userID: userID}
}

// LikedMovieIDs returns movie ids the user favorited or rated highly
func (p *profileRun) LikedMovieIDs() (map[uint]struct{}, error) {
	if p.likedIDs != nil {
		return p.likedIDs, nil
	}

	var favIDs []uint
	err := p.db.Model(&models.Favorite{}).
		Where("user_id = ?", p.userID).
		Pluck("movie_id", &favIDs).Error
	if err != nil {
		return nil, err
	}

	var ratedIDs []uint
	err = p.db.Model(&models.Rating{}).
		Where("user_id = ? AND rating >= ?", p.userID, highRatingThreshold).
		Pluck("movie_id", &ratedIDs).Error
	if err != nil {
		return nil, err
	}

	liked := make(map[uint]struct{}, len(favIDs)+len(ratedIDs))
	for _, id := range favIDs {
		liked[id] = struct{}{}
	}
	for _, id := range ratedIDs {
		liked[id] = struct{}{}
	}

	p.likedIDs = liked
	return liked, nil
}

// DismissedMovieIDs returns movie ids the user explicitly disliked or
// marked not interested, plus movies rated below the low threshold
func (p *profileRun) DismissedMovieIDs() (map[uint]struct{}, error) {
	if p.dismissedIDs != nil {
		return p.dismissedIDs, nil
	}

	var feedbackIDs []uint
	err := p.db.Table("recommendation_feedbacks").
		Joins("JOIN recommendations ON recommendations.id = recommendation_feedbacks.recommendation_id").
		Where("recommendation_feedbacks.user_id = ?", p.userID).
		Where("recommendation_feedbacks.feedback_type IN ?", []string{models.FeedbackDislike, models.FeedbackNotInterested}).
		Pluck("recommendations.movie_id", &feedbackIDs).Error
	if err != nil {
		return nil, err
	}

	var lowRatedIDs []uint
	err = p.db.Model(&models.Rating{}).
		Where("user_id = ? AND rating < ?", p.userID, lowRatingThreshold).
		Pluck("movie_id", &lowRatedIDs).Error
	if err != nil {
		return nil, err
	}

	dismissed := make(map[uint]struct{}, len(feedbackIDs)+len(lowRatedIDs))
	for _, id := range feedbackIDs {
		dismissed[id] = struct{}{}
	}
	for _, id := range lowRatedIDs {
		dismissed[id] = struct{}{}
	}

	p.dismissedIDs = dismissed
	return dismissed, nil
}

// GenreProfile returns the user's genre-affinity map. Each genre that
// appears among the liked movies is weighted by its occurrence count
// divided by the maximum count observed, so the most common genre has
// weight exactly 1.0. Genres absent from liked movies are absent from
// the map. An empty liked set yields an empty map.
func (p *profileRun) GenreProfile() (map[uint]float64, error) {
	if p.genreProfile != nil {
		return p.genreProfile, nil
	}

	liked, err := p.LikedMovieIDs()
	if err != nil {
		return nil, err
	}

	if len(liked) == 0 {
		p.genreProfile = map[uint]float64{}
		return p.genreProfile, nil
	}

	var genreIDs []uint
	err = p.db.Table("movie_genres").
		Where("movie_id IN ?", idSlice(liked)).
		Pluck("genre_id", &genreIDs).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int, len(genreIDs))
	maxCount := 0
	for _, id := range genreIDs {
		counts[id]++
		if counts[id] > maxCount {
			maxCount = counts[id]
		}
	}

	if maxCount == 0 {
		p.genreProfile = map[uint]float64{}
		return p.genreProfile, nil
	}

	profile := make(map[uint]float64, len(counts))
	for id, count := range counts {
		profile[id] = float64(count) / float64(maxCount)
	}

	p.genreProfile = profile
	return profile, nil
}
