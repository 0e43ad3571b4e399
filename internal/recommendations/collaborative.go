package recommendations

import (
	"math"
	"sort"

	"github.com/google/uuid"
)

const (
	// Genres considered when looking for users with similar taste
	topGenresForBoost = 5

	// Cap on the number of similar users consulted
	maxSimilarUsers = 50

	// Cap on the number of boosted movies kept
	maxBoostMovies = 200
)

// collaborativeBoost derives a movie_id -> [0,1] boost from the favorites
// of other users who share the requesting user's top genres. It is a
// two-hop "users like me" signal computed fresh on every run; nothing is
// persisted between runs. An empty profile yields an empty map.
func (e *Engine) collaborativeBoost(userID uuid.UUID, profile map[uint]float64) (map[uint]float64, error) {
	if len(profile) == 0 {
		return map[uint]float64{}, nil
	}

	topGenres := topGenreIDs(profile, topGenresForBoost)
	if len(topGenres) == 0 {
		return map[uint]float64{}, nil
	}

	// Other users who favorited movies in the same top genres
	var similarUsers []uuid.UUID
	err := e.db.Table("favorites").
		Joins("JOIN movie_genres ON movie_genres.movie_id = favorites.movie_id").
		Where("movie_genres.genre_id IN ?", topGenres).
		Where("favorites.user_id <> ?", userID).
		Distinct().
		Limit(maxSimilarUsers).
		Pluck("favorites.user_id", &similarUsers).Error
	if err != nil {
		return nil, err
	}

	if len(similarUsers) == 0 {
		return map[uint]float64{}, nil
	}

	// Fan counts for movies those users favorited
	type fanRow struct {
		MovieID  uint
		FanCount int
	}
	var rows []fanRow
	err = e.db.Table("favorites").
		Select("movie_id, COUNT(id) AS fan_count").
		Where("user_id IN ?", similarUsers).
		Group("movie_id").
		Order("fan_count DESC").
		Limit(maxBoostMovies).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	maxFans := 1
	for _, row := range rows {
		if row.FanCount > maxFans {
			maxFans = row.FanCount
		}
	}

	boost := make(map[uint]float64, len(rows))
	for _, row := range rows {
		boost[row.MovieID] = math.Min(float64(row.FanCount)/float64(maxFans), 1.0)
	}

	return boost, nil
}

// topGenreIDs returns up to n genre ids ordered by affinity weight
// descending, ties broken by genre id for determinism
func topGenreIDs(profile map[uint]float64, n int) []uint {
	ids := make([]uint, 0, len(profile))
	for id := range profile {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		if profile[ids[i]] != profile[ids[j]] {
			return profile[ids[i]] > profile[ids[j]]
		}
		return ids[i] < ids[j]
	})

	if len(ids) > n {
		ids = ids[:n]
	}
	return ids
}
