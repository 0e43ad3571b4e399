package recommendations

import (
	"testing"

	"cinefeed/internal/models"

	"github.com/stretchr/testify/assert"
)

func scoredWithGenre(id uint, genreID uint, score float64) ScoredMovie {
	movie := models.Movie{ID: id}
	if genreID != 0 {
		movie.Genres = []models.Genre{{ID: genreID}}
	}
	return ScoredMovie{Movie: movie, Score: score, RecType: models.RecTypeContentBased}
}

func TestDiversifyBreaksGenreStreaks(t *testing.T) {
	scored := []ScoredMovie{
		scoredWithGenre(1, 28, 0.9),
		scoredWithGenre(2, 28, 0.8),
		scoredWithGenre(3, 28, 0.7),
		scoredWithGenre(4, 28, 0.6), // fourth in a row, skipped
		scoredWithGenre(5, 28, 0.5), // still in the streak, skipped
		scoredWithGenre(6, 35, 0.4),
		scoredWithGenre(7, 28, 0.3), // streak reset by the comedy above
	}

	result := diversify(scored, 10)

	ids := make([]uint, len(result))
	for i, item := range result {
		ids[i] = item.Movie.ID
	}
	assert.Equal(t, []uint{1, 2, 3, 6, 7}, ids)
}

func TestDiversifySkippedMoviesAreNotReconsidered(t *testing.T) {
	scored := []ScoredMovie{
		scoredWithGenre(1, 28, 0.9),
		scoredWithGenre(2, 28, 0.8),
		scoredWithGenre(3, 28, 0.7),
		scoredWithGenre(4, 28, 0.6),
	}

	// The fourth stays dropped even though the limit has room for it
	result := diversify(scored, 10)
	assert.Len(t, result, 3)
}

func TestDiversifyHonorsLimit(t *testing.T) {
	scored := []ScoredMovie{
		scoredWithGenre(1, 28, 0.9),
		scoredWithGenre(2, 35, 0.8),
		scoredWithGenre(3, 18, 0.7),
	}

	result := diversify(scored, 2)
	assert.Len(t, result, 2)
	assert.Equal(t, uint(1), result[0].Movie.ID)
	assert.Equal(t, uint(2), result[1].Movie.ID)
}

func TestDiversifyEmptyInput(t *testing.T) {
	assert.Nil(t, diversify(nil, 10))
	assert.Nil(t, diversify([]ScoredMovie{}, 10))
}

func TestPrimaryGenreIsLowestID(t *testing.T) {
	movie := models.Movie{Genres: []models.Genre{{ID: 35}, {ID: 28}, {ID: 53}}}
	assert.Equal(t, uint(28), movie.PrimaryGenreID())

	var noGenres models.Movie
	assert.Equal(t, uint(0), noGenres.PrimaryGenreID())
}
