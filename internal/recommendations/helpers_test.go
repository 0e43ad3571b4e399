package recommendations

import (
	"testing"
	"time"

	"cinefeed/internal/models"

	"github.com/google/uuid"
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
		t.Fatalf("Failed to create user %s: %v", email, err)
	}
	return user
}

func createGenre(t *testing.T, db *gorm.DB, tmdbID int, name string) models.Genre {
	t.Helper()

	genre := models.Genre{TMDbID: tmdbID, Name: name}
	if err := db.Create(&genre).Error; err != nil {
		t.Fatalf("Failed to create genre %s: %v", name, err)
	}
	return genre
}

func createMovie(t *testing.T, db *gorm.DB, movie models.Movie, genres ...models.Genre) models.Movie {
	t.Helper()

	movie.Genres = genres
	if err := db.Create(&movie).Error; err != nil {
		t.Fatalf("Failed to create movie %s: %v", movie.Title, err)
	}
	return movie
}

func addFavorite(t *testing.T, db *gorm.DB, userID uuid.UUID, movieID uint) {
	t.Helper()

	fav := models.Favorite{UserID: userID, MovieID: movieID}
	if err := db.Create(&fav).Error; err != nil {
		t.Fatalf("Failed to create favorite: %v", err)
	}
}

func addRating(t *testing.T, db *gorm.DB, userID uuid.UUID, movieID uint, rating float64) {
	t.Helper()

	row := models.Rating{UserID: userID, MovieID: movieID, Rating: rating}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("Failed to create rating: %v", err)
	}
}

func daysAgo(n int) *time.Time {
	t := time.Now().AddDate(0, 0, -n)
	return &t
}
