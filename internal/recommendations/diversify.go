package recommendations

import (
	"math"

	"cinefeed/internal/models"
)

const (
	// Maximum consecutive kept movies sharing the same primary genre
	maxGenreStreak = 3

	// Minimum vote_count for popularity-filler eligibility
	fillerMinVotes = 50
)

// diversify walks the score-sorted list in order and skips a movie once
// the running streak of its primary genre would exceed maxGenreStreak
// consecutive kept movies. Skipped movies are not reconsidered, so the
// result can legitimately hold fewer than limit items even when more
// eligible movies exist.
func diversify(scored []ScoredMovie, limit int) []ScoredMovie {
	if len(scored) == 0 {
		return nil
	}

	result := make([]ScoredMovie, 0, limit)
	var recentGenre uint
	streak := 0

	for _, item := range scored {
		topGenre := item.Movie.PrimaryGenreID()

		if topGenre == recentGenre {
			streak++
			if streak > maxGenreStreak {
				continue
			}
		} else {
			streak = 1
			recentGenre = topGenre
		}

		result = append(result, item)
		if len(result) >= limit {
			break
		}
	}

	return result
}

// popularFiller pads a short list with globally popular movies. Filler
// rows are trending-typed, carry the log-popularity score, and are not
// diversity-reranked.
func (e *Engine) popularFiller(exclude map[uint]struct{}, limit int) ([]ScoredMovie, error) {
	if limit <= 0 {
		return nil, nil
	}

	query := e.db.Preload("Genres", orderGenresByID).Where("vote_count >= ?", fillerMinVotes)
	if len(exclude) > 0 {
		query = query.Where("id NOT IN ?", idSlice(exclude))
	}

	var movies []models.Movie
	err := query.Order("popularity DESC, vote_average DESC").Limit(limit).Find(&movies).Error
	if err != nil {
		return nil, err
	}

	filler := make([]ScoredMovie, len(movies))
	for i, movie := range movies {
		filler[i] = ScoredMovie{
			Movie:   movie,
			Score:   round4(math.Min(math.Log1p(movie.Popularity)/10.0, 1.0)),
			Reason:  reasonFallback,
			RecType: models.RecTypeTrending,
		}
	}

	return filler, nil
}
