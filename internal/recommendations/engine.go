// Package recommendations implements the movie recommendation engine.
//
// A generation run builds the user's taste profile from favorites and
// ratings, scores every eligible catalogue movie with five weighted
// signals (genre affinity, popularity, quality, recency, collaborative),
// re-ranks the result for genre diversity, pads with popular movies when
// needed, and replaces the user's persisted recommendation rows with the
// final batch. All arithmetic is deterministic set/counter math - no
// model training and no numeric dependencies.
package recommendations

import (
	"errors"
	"log"
	"sort"
	"time"

	"cinefeed/internal/metrics"
	"cinefeed/internal/models"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// Engine generates and persists movie recommendations
type Engine struct {
	db    *gorm.DB
	group singleflight.Group
}

// NewEngine creates a new recommendation engine
func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// ScoredMovie is one entry of a generated recommendation list
type ScoredMovie struct {
	Movie   models.Movie `json:"movie"`
	Score   float64      `json:"score"`
	Reason  string       `json:"reason"`
	RecType string       `json:"recommendation_type"`
}

// Generate produces up to limit recommendations for the user and replaces
// the user's persisted recommendation rows with the result. Concurrent
// calls for the same user coalesce into a single run.
func (e *Engine) Generate(userID uuid.UUID, limit int) ([]ScoredMovie, error) {
	start := time.Now()

	v, err, _ := e.group.Do(userID.String(), func() (interface{}, error) {
		return e.generate(userID, limit)
	})
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.GenerationsTotal.WithLabelValues("success").Inc()
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	return v.([]ScoredMovie), nil
}

func (e *Engine) generate(userID uuid.UUID, limit int) ([]ScoredMovie, error) {
	run := newProfileRun(e.db, userID)

	liked, err := run.LikedMovieIDs()
	if err != nil {
		return nil, err
	}
	dismissed, err := run.DismissedMovieIDs()
	if err != nil {
		return nil, err
	}

	exclude := make(map[uint]struct{}, len(liked)+len(dismissed))
	for id := range liked {
		exclude[id] = struct{}{}
	}
	for id := range dismissed {
		exclude[id] = struct{}{}
	}

	profile, err := run.GenreProfile()
	if err != nil {
		return nil, err
	}

	var final []ScoredMovie
	if len(profile) == 0 {
		// No taste signal at all. Serve the popularity filler for the full
		// limit so every row is trending-typed and carries the
		// log-popularity score.
		final, err = e.popularFiller(exclude, limit)
		if err != nil {
			return nil, err
		}
	} else {
		boost, err := e.collaborativeBoost(userID, profile)
		if err != nil {
			return nil, err
		}

		scored, err := e.scoreCandidates(profile, boost, exclude)
		if err != nil {
			return nil, err
		}

		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].Score > scored[j].Score
		})

		final = diversify(scored, limit)

		if len(final) < limit {
			fillExclude := make(map[uint]struct{}, len(exclude)+len(final))
			for id := range exclude {
				fillExclude[id] = struct{}{}
			}
			for _, rec := range final {
				fillExclude[rec.Movie.ID] = struct{}{}
			}

			filler, err := e.popularFiller(fillExclude, limit-len(final))
			if err != nil {
				return nil, err
			}
			final = append(final, filler...)
		}
	}

	if err := e.replaceRecommendations(userID, final); err != nil {
		return nil, err
	}

	if len(final) > limit {
		final = final[:limit]
	}
	return final, nil
}

// scoreCandidates streams eligible movies in batches and scores each one.
// A fault while scoring a single candidate is logged and skips only that
// candidate, so one malformed catalogue row cannot block the whole run.
func (e *Engine) scoreCandidates(profile, boost map[uint]float64, exclude map[uint]struct{}) ([]ScoredMovie, error) {
	now := time.Now()
	var scored []ScoredMovie

	query := e.db.Preload("Genres", orderGenresByID).Where("vote_count >= ?", minCandidateVotes)
	if len(exclude) > 0 {
		query = query.Where("id NOT IN ?", idSlice(exclude))
	}

	var batch []models.Movie
	result := query.FindInBatches(&batch, candidateBatchSize, func(tx *gorm.DB, _ int) error {
		for i := range batch {
			movie := batch[i]

			score, reason, err := safeScoreMovie(&movie, profile, boost, now)
			metrics.CandidatesScored.Inc()
			if err != nil {
				metrics.CandidateFaults.Inc()
				log.Printf("Skipping candidate %d after scoring fault: %v", movie.ID, err)
				continue
			}

			if score > 0 {
				scored = append(scored, ScoredMovie{
					Movie:   movie,
					Score:   score,
					Reason:  reason,
					RecType: models.RecTypeContentBased,
				})
			}
		}
		return nil
	})
	if result.Error != nil {
		return nil, result.Error
	}

	return scored, nil
}

// SimilarMovies returns movies sharing at least one genre with the given
// movie, ranked by shared-genre count, vote average, then popularity.
// An unknown movie id or a movie without genres yields an empty result.
func (e *Engine) SimilarMovies(movieID uint, limit int) ([]models.Movie, error) {
	var movie models.Movie
	err := e.db.Preload("Genres", orderGenresByID).First(&movie, movieID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []models.Movie{}, nil
	}
	if err != nil {
		return nil, err
	}

	if len(movie.Genres) == 0 {
		return []models.Movie{}, nil
	}

	genreIDs := make([]uint, len(movie.Genres))
	for i, g := range movie.Genres {
		genreIDs[i] = g.ID
	}

	var movies []models.Movie
	err = e.db.
		Table("movies").
		Select("movies.*, COUNT(movie_genres.genre_id) AS genre_match").
		Joins("JOIN movie_genres ON movie_genres.movie_id = movies.id").
		Where("movie_genres.genre_id IN ?", genreIDs).
		Where("movies.id <> ?", movieID).
		Group("movies.id").
		Order("genre_match DESC, movies.vote_average DESC, movies.popularity DESC").
		Limit(limit).
		Find(&movies).Error
	if err != nil {
		return nil, err
	}

	return movies, nil
}

// orderGenresByID keeps preloaded genre sets in a stable order so the
// diversity pass sees the same primary genre regardless of the store.
func orderGenresByID(tx *gorm.DB) *gorm.DB {
	return tx.Order("genres.id")
}

func idSlice(ids map[uint]struct{}) []uint {
	out := make([]uint, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	return out
}
