package recommendations

import (
	"log"

	"cinefeed/internal/metrics"
	"cinefeed/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// replaceRecommendations deletes every prior recommendation row for the
// user and bulk-inserts the new batch, all inside one transaction so a
// concurrent reader never observes a half-replaced set. Inserts tolerate
// conflicts on the (user, movie, type) unique index rather than failing
// the whole batch.
func (e *Engine) replaceRecommendations(userID uuid.UUID, recs []ScoredMovie) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Recommendation{}).Error; err != nil {
			return err
		}

		if len(recs) == 0 {
			return nil
		}

		rows := make([]models.Recommendation, 0, len(recs))
		for _, rec := range recs {
			recType := rec.RecType
			if recType == "" {
				recType = models.RecTypePersonalized
			}
			rows = append(rows, models.Recommendation{
				UserID:             userID,
				MovieID:            rec.Movie.ID,
				RecommendationType: recType,
				Score:              rec.Score,
				Reason:             rec.Reason,
			})
		}

		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&rows, 100).Error; err != nil {
			return err
		}

		for _, row := range rows {
			metrics.RecommendationScores.Observe(row.Score)
		}

		log.Printf("Saved %d recommendations for user %s", len(rows), userID)
		return nil
	})
}

// ListForUser returns the user's persisted recommendations ordered by
// score descending, then creation time descending
func (e *Engine) ListForUser(userID uuid.UUID, limit, offset int) ([]models.Recommendation, error) {
	var recs []models.Recommendation
	err := e.db.Preload("Movie").Preload("Movie.Genres", orderGenresByID).
		Where("user_id = ?", userID).
		Order("score DESC, created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&recs).Error
	return recs, err
}

// MarkClicked flips is_clicked on one of the user's recommendation rows
func (e *Engine) MarkClicked(userID, recommendationID uuid.UUID) error {
	result := e.db.Model(&models.Recommendation{}).
		Where("id = ? AND user_id = ?", recommendationID, userID).
		Update("is_clicked", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkRated flips is_rated on any of the user's recommendation rows for
// the given movie. Called by the ratings API, never by the engine.
func (e *Engine) MarkRated(userID uuid.UUID, movieID uint) error {
	return e.db.Model(&models.Recommendation{}).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Update("is_rated", true).Error
}
