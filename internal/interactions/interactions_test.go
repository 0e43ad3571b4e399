package interactions

import (
	"testing"

	"cinefeed/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()

	user := models.User{Email: email, IsActive: true}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}

func createMovie(t *testing.T, db *gorm.DB, tmdbID int, title string) models.Movie {
	t.Helper()

	movie := models.Movie{TMDbID: tmdbID, Title: title}
	if err := db.Create(&movie).Error; err != nil {
		t.Fatalf("Failed to create movie: %v", err)
	}
	return movie
}

func TestAddFavoriteIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	user := createUser(t, db, "fav@example.com")
	movie := createMovie(t, db, 1, "Favorite Me")

	_, err := service.AddFavorite(user.ID, movie.ID)
	require.NoError(t, err)

	// Favoriting again is a no-op, not an error
	_, err = service.AddFavorite(user.ID, movie.ID)
	require.NoError(t, err)

	var count int64
	db.Model(&models.Favorite{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAddFavoriteUnknownMovie(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	user := createUser(t, db, "nofilm@example.com")

	_, err := service.AddFavorite(user.ID, 99999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRemoveFavorite(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	user := createUser(t, db, "remove@example.com")
	movie := createMovie(t, db, 1, "Short Lived")

	_, err := service.AddFavorite(user.ID, movie.ID)
	require.NoError(t, err)

	require.NoError(t, service.RemoveFavorite(user.ID, movie.ID))

	// Removing a favorite that no longer exists surfaces not found
	err = service.RemoveFavorite(user.ID, movie.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRateMovieValidatesScale(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	user := createUser(t, db, "scale@example.com")
	movie := createMovie(t, db, 1, "Rated")

	_, err := service.RateMovie(user.ID, movie.ID, 0.5, "")
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = service.RateMovie(user.ID, movie.ID, 10.5, "")
	assert.ErrorIs(t, err, ErrInvalidRating)

	rating, err := service.RateMovie(user.ID, movie.ID, 10, "perfect")
	require.NoError(t, err)
	assert.Equal(t, 10.0, rating.Rating)
}

func TestRateMovieUpsertsExistingRating(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	user := createUser(t, db, "again@example.com")
	movie := createMovie(t, db, 1, "Reconsidered")

	_, err := service.RateMovie(user.ID, movie.ID, 8, "great")
	require.NoError(t, err)

	_, err = service.RateMovie(user.ID, movie.ID, 3, "aged badly")
	require.NoError(t, err)

	var rows []models.Rating
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, 3.0, rows[0].Rating)
	assert.Equal(t, "aged badly", rows[0].Review)
}

func TestRecordFeedbackValidatesType(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	user := createUser(t, db, "types@example.com")

	_, err := service.RecordFeedback(user.ID, user.ID, "meh", "")
	assert.ErrorIs(t, err, ErrInvalidFeedback)
}

func TestRecordFeedbackRequiresOwnership(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	owner := createUser(t, db, "owner@example.com")
	intruder := createUser(t, db, "intruder@example.com")
	movie := createMovie(t, db, 1, "Private")

	rec := models.Recommendation{UserID: owner.ID, MovieID: movie.ID, RecommendationType: models.RecTypeContentBased, Score: 0.5}
	require.NoError(t, db.Create(&rec).Error)

	_, err := service.RecordFeedback(intruder.ID, rec.ID, models.FeedbackLike, "")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRecordFeedbackReplacesEarlierReaction(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	user := createUser(t, db, "flip@example.com")
	movie := createMovie(t, db, 1, "Flip Flop")

	rec := models.Recommendation{UserID: user.ID, MovieID: movie.ID, RecommendationType: models.RecTypeContentBased, Score: 0.5}
	require.NoError(t, db.Create(&rec).Error)

	_, err := service.RecordFeedback(user.ID, rec.ID, models.FeedbackLike, "")
	require.NoError(t, err)

	_, err = service.RecordFeedback(user.ID, rec.ID, models.FeedbackNotInterested, "changed my mind")
	require.NoError(t, err)

	var rows []models.RecommendationFeedback
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, models.FeedbackNotInterested, rows[0].FeedbackType)
	assert.Equal(t, "changed my mind", rows[0].Comment)
}

func TestListFavorites(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	user := createUser(t, db, "browse@example.com")
	m1 := createMovie(t, db, 1, "First Pick")
	m2 := createMovie(t, db, 2, "Second Pick")

	_, err := service.AddFavorite(user.ID, m1.ID)
	require.NoError(t, err)
	_, err = service.AddFavorite(user.ID, m2.ID)
	require.NoError(t, err)

	favorites, err := service.ListFavorites(user.ID, 10, 0)
	require.NoError(t, err)

	require.Len(t, favorites, 2)
	for _, fav := range favorites {
		assert.NotEmpty(t, fav.Movie.Title)
	}
}
