package recommendations

import (
	"math"
	"testing"

	"cinefeed/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateColdStartServesTrending(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(db)

	action := createGenre(t, db, 28, "Action")
	createMovie(t, db, models.Movie{TMDbID: 1, Title: "Big Hit", Popularity: 120, VoteAverage: 8.0, VoteCount: 5000}, action)
	createMovie(t, db, models.Movie{TMDbID: 2, Title: "Medium Hit", Popularity: 80, VoteAverage: 7.5, VoteCount: 3000}, action)
	createMovie(t, db, models.Movie{TMDbID: 3, Title: "Obscure", Popularity: 200, VoteAverage: 9.0, VoteCount: 12}, action)

	user := createUser(t, db, "newcomer@example.com")

	recs, err := engine.Generate(user.ID, 5)
	require.NoError(t, err)

	// The obscure movie misses the filler vote floor
	require.Len(t, recs, 2)
	assert.Equal(t, "Big Hit", recs[0].Movie.Title)
	assert.Equal(t, "Medium Hit", recs[1].Movie.Title)

	for _, rec := range recs {
		assert.Equal(t, models.RecTypeTrending, rec.RecType)
		assert.Equal(t, "Popular movie you might enjoy", rec.Reason)
		expected := round4(math.Min(math.Log1p(rec.Movie.Popularity)/10.0, 1.0))
		assert.Equal(t, expected, rec.Score)
	}

	var count int64
	db.Model(&models.Recommendation{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestGenerateExcludesInteractedMovies(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(db)

	action := createGenre(t, db, 28, "Action")

	favorited := createMovie(t, db, models.Movie{TMDbID: 1, Title: "Favorited", Popularity: 90, VoteAverage: 8.0, VoteCount: 1000}, action)
	hated := createMovie(t, db, models.Movie{TMDbID: 2, Title: "Hated", Popularity: 85, VoteAverage: 7.0, VoteCount: 900}, action)
	fresh := createMovie(t, db, models.Movie{TMDbID: 3, Title: "Fresh Pick", Popularity: 70, VoteAverage: 7.5, VoteCount: 800}, action)

	user := createUser(t, db, "watcher@example.com")
	addFavorite(t, db, user.ID, favorited.ID)
	addRating(t, db, user.ID, hated.ID, 2.0)

	recs, err := engine.Generate(user.ID, 10)
	require.NoError(t, err)

	require.NotEmpty(t, recs)
	for _, rec := range recs {
		assert.NotEqual(t, favorited.ID, rec.Movie.ID)
		assert.NotEqual(t, hated.ID, rec.Movie.ID)
	}

	assert.Equal(t, fresh.ID, recs[0].Movie.ID)
	assert.Equal(t, models.RecTypeContentBased, recs[0].RecType)
	assert.Contains(t, recs[0].Reason, "Matches your favourite genres")
}

func TestGenerateScoresAreSortedAndBounded(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(db)

	action := createGenre(t, db, 28, "Action")
	drama := createGenre(t, db, 18, "Drama")

	liked := createMovie(t, db, models.Movie{TMDbID: 1, Title: "Liked", Popularity: 50, VoteAverage: 8.0, VoteCount: 1000}, action)

	createMovie(t, db, models.Movie{TMDbID: 2, Title: "Action Match", Popularity: 60, VoteAverage: 7.8, VoteCount: 700, ReleaseDate: daysAgo(30)}, action)
	createMovie(t, db, models.Movie{TMDbID: 3, Title: "Drama Offside", Popularity: 40, VoteAverage: 6.5, VoteCount: 600, ReleaseDate: daysAgo(3000)}, drama)
	createMovie(t, db, models.Movie{TMDbID: 4, Title: "Old Action", Popularity: 30, VoteAverage: 7.0, VoteCount: 500, ReleaseDate: daysAgo(4000)}, action)

	user := createUser(t, db, "sorted@example.com")
	addFavorite(t, db, user.ID, liked.ID)

	recs, err := engine.Generate(user.ID, 10)
	require.NoError(t, err)
	require.NotEmpty(t, recs)

	for i, rec := range recs {
		assert.GreaterOrEqual(t, rec.Score, 0.0)
		assert.LessOrEqual(t, rec.Score, 1.0)
		if i > 0 && rec.RecType == models.RecTypeContentBased {
			assert.LessOrEqual(t, rec.Score, recs[i-1].Score)
		}
	}
}

func TestGenerateReplacesPriorRows(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(db)

	action := createGenre(t, db, 28, "Action")
	liked := createMovie(t, db, models.Movie{TMDbID: 1, Title: "Liked", Popularity: 50, VoteAverage: 8.0, VoteCount: 1000}, action)
	createMovie(t, db, models.Movie{TMDbID: 2, Title: "Candidate", Popularity: 60, VoteAverage: 7.5, VoteCount: 700}, action)

	user := createUser(t, db, "repeat@example.com")
	addFavorite(t, db, user.ID, liked.ID)

	first, err := engine.Generate(user.ID, 10)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	// Simulate a click on every persisted row
	require.NoError(t, db.Model(&models.Recommendation{}).
		Where("user_id = ?", user.ID).
		Update("is_clicked", true).Error)

	second, err := engine.Generate(user.ID, 10)
	require.NoError(t, err)
	require.NotEmpty(t, second)

	// Same inputs, same output: regeneration is idempotent
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Movie.ID, second[i].Movie.ID)
		assert.Equal(t, first[i].Score, second[i].Score)
		assert.Equal(t, first[i].Reason, second[i].Reason)
	}

	var rows []models.Recommendation
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&rows).Error)
	assert.Len(t, rows, len(second))
	for _, row := range rows {
		assert.False(t, row.IsClicked, "regeneration replaces rows, resetting click state")
	}
}

func TestGenerateFillsShortfallWithTrending(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(db)

	action := createGenre(t, db, 28, "Action")

	liked := createMovie(t, db, models.Movie{TMDbID: 1, Title: "Liked", Popularity: 50, VoteAverage: 8.0, VoteCount: 1000}, action)

	// Five same-genre candidates: the diversity pass keeps three and the
	// filler backfills from whatever remains eligible.
	for i := 2; i <= 6; i++ {
		createMovie(t, db, models.Movie{
			TMDbID:      i,
			Title:       "Action Movie",
			Popularity:  float64(100 - i),
			VoteAverage: 7.0,
			VoteCount:   500,
		}, action)
	}

	user := createUser(t, db, "shortfall@example.com")
	addFavorite(t, db, user.ID, liked.ID)

	recs, err := engine.Generate(user.ID, 5)
	require.NoError(t, err)
	require.Len(t, recs, 5)

	assert.Equal(t, models.RecTypeContentBased, recs[0].RecType)
	assert.Equal(t, models.RecTypeContentBased, recs[1].RecType)
	assert.Equal(t, models.RecTypeContentBased, recs[2].RecType)
	assert.Equal(t, models.RecTypeTrending, recs[3].RecType)
	assert.Equal(t, models.RecTypeTrending, recs[4].RecType)
}

func TestGenerateMayReturnFewerThanLimit(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(db)

	action := createGenre(t, db, 28, "Action")
	liked := createMovie(t, db, models.Movie{TMDbID: 1, Title: "Liked", Popularity: 50, VoteAverage: 8.0, VoteCount: 1000}, action)
	createMovie(t, db, models.Movie{TMDbID: 2, Title: "Only Candidate", Popularity: 60, VoteAverage: 7.5, VoteCount: 30}, action)

	user := createUser(t, db, "sparse@example.com")
	addFavorite(t, db, user.ID, liked.ID)

	// One eligible candidate and nothing filler-worthy in the catalogue
	recs, err := engine.Generate(user.ID, 10)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestSimilarMoviesRankedBySharedGenres(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(db)

	action := createGenre(t, db, 28, "Action")
	scifi := createGenre(t, db, 878, "Science Fiction")
	drama := createGenre(t, db, 18, "Drama")

	base := createMovie(t, db, models.Movie{TMDbID: 1, Title: "Base", VoteAverage: 8.0}, action, scifi)
	both := createMovie(t, db, models.Movie{TMDbID: 2, Title: "Shares Both", VoteAverage: 6.0}, action, scifi)
	betterSingle := createMovie(t, db, models.Movie{TMDbID: 3, Title: "Better Single", VoteAverage: 8.5}, action)
	worseSingle := createMovie(t, db, models.Movie{TMDbID: 4, Title: "Worse Single", VoteAverage: 7.0}, action)
	createMovie(t, db, models.Movie{TMDbID: 5, Title: "Unrelated", VoteAverage: 9.0}, drama)

	similar, err := engine.SimilarMovies(base.ID, 10)
	require.NoError(t, err)

	require.Len(t, similar, 3)
	assert.Equal(t, both.ID, similar[0].ID, "two shared genres outrank one regardless of rating")
	assert.Equal(t, betterSingle.ID, similar[1].ID)
	assert.Equal(t, worseSingle.ID, similar[2].ID)
}

func TestSimilarMoviesUnknownMovie(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(db)

	similar, err := engine.SimilarMovies(99999, 10)
	require.NoError(t, err)
	assert.Empty(t, similar)
}

func TestSimilarMoviesWithoutGenres(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(db)

	movie := createMovie(t, db, models.Movie{TMDbID: 1, Title: "Genreless"})
	createMovie(t, db, models.Movie{TMDbID: 2, Title: "Other"}, createGenre(t, db, 28, "Action"))

	similar, err := engine.SimilarMovies(movie.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, similar)
}
