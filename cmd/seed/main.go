package main

import (
	"flag"
	"log"
	"time"

	"cinefeed/internal/database"
	"cinefeed/internal/interactions"
	"cinefeed/internal/models"

	"github.com/joho/godotenv"
	"github.com/lib/pq"
)

// This is a simple utility script to seed the database with a small
// catalogue and one test user. In production the catalogue is populated
// by the external metadata sync job.

func main() {
	var userEmail = flag.String("email", "test@cinefeed.local", "Email of the test user to seed")
	var catalogueOnly = flag.Bool("catalogue-only", false, "Only seed genres and movies, skip the test user")
	flag.Parse()

	log.Printf("🌱 Cinefeed Database Seeder")
	log.Printf("===========================")

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Connect to database
	dbConfig := database.LoadConfig()
	if err := database.Connect(dbConfig); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	genres := seedGenres()
	seedMovies(genres)

	if !*catalogueOnly {
		seedTestUser(*userEmail)
	}

	log.Println("✅ Database seeding completed")
	log.Println("")
	log.Println("🧪 Quick Test Commands:")
	log.Println("=======================")
	log.Println("1. Start the server:  go run ./cmd/server")
	log.Println("2. Browse the catalogue:  curl http://localhost:8080/api/movies")
	log.Println("3. Generate recommendations (token via auth.IssueToken):")
	log.Println("   curl -X POST -H 'Authorization: Bearer <token>' \\")
	log.Println("        http://localhost:8080/api/recommendations/generate")
}

func seedGenres() map[string]models.Genre {
	log.Println("🎭 Seeding genres...")

	names := map[string]int{
		"Action":          28,
		"Adventure":       12,
		"Comedy":          35,
		"Drama":           18,
		"Horror":          27,
		"Science Fiction": 878,
		"Thriller":        53,
		"Animation":       16,
	}

	genres := make(map[string]models.Genre, len(names))
	for name, tmdbID := range names {
		var genre models.Genre
		err := database.DB.Where("tmdb_id = ?", tmdbID).First(&genre).Error
		if err != nil {
			genre = models.Genre{TMDbID: tmdbID, Name: name}
			if err := database.DB.Create(&genre).Error; err != nil {
				log.Printf("❌ Failed to create genre %s: %v", name, err)
				continue
			}
		}
		genres[name] = genre
	}

	log.Printf("✅ Seeded %d genres", len(genres))
	return genres
}

func seedMovies(genres map[string]models.Genre) {
	log.Println("🎬 Seeding movies...")

	date := func(value string) *time.Time {
		t, err := time.Parse("2006-01-02", value)
		if err != nil {
			return nil
		}
		return &t
	}

	movies := []struct {
		movie  models.Movie
		genres []string
	}{
		{models.Movie{TMDbID: 27205, Title: "Inception", ReleaseDate: date("2010-07-15"), VoteAverage: 8.4, VoteCount: 34000, Popularity: 88.5, OriginalLanguage: "en", OriginCountries: pq.StringArray{"US", "GB"}}, []string{"Action", "Science Fiction", "Thriller"}},
		{models.Movie{TMDbID: 157336, Title: "Interstellar", ReleaseDate: date("2014-11-05"), VoteAverage: 8.4, VoteCount: 32000, Popularity: 140.2, OriginalLanguage: "en", OriginCountries: pq.StringArray{"US", "GB"}}, []string{"Adventure", "Drama", "Science Fiction"}},
		{models.Movie{TMDbID: 603, Title: "The Matrix", ReleaseDate: date("1999-03-31"), VoteAverage: 8.2, VoteCount: 24000, Popularity: 104.0, OriginalLanguage: "en", OriginCountries: pq.StringArray{"US"}}, []string{"Action", "Science Fiction"}},
		{models.Movie{TMDbID: 155, Title: "The Dark Knight", ReleaseDate: date("2008-07-16"), VoteAverage: 8.5, VoteCount: 31000, Popularity: 123.1, OriginalLanguage: "en", OriginCountries: pq.StringArray{"US", "GB"}}, []string{"Action", "Drama", "Thriller"}},
		{models.Movie{TMDbID: 680, Title: "Pulp Fiction", ReleaseDate: date("1994-09-10"), VoteAverage: 8.5, VoteCount: 26000, Popularity: 74.8, OriginalLanguage: "en", OriginCountries: pq.StringArray{"US"}}, []string{"Thriller", "Drama"}},
		{models.Movie{TMDbID: 19995, Title: "Avatar", ReleaseDate: date("2009-12-15"), VoteAverage: 7.6, VoteCount: 30000, Popularity: 110.4, OriginalLanguage: "en", OriginCountries: pq.StringArray{"US"}}, []string{"Action", "Adventure", "Science Fiction"}},
		{models.Movie{TMDbID: 105, Title: "Back to the Future", ReleaseDate: date("1985-07-03"), VoteAverage: 8.3, VoteCount: 19000, Popularity: 63.7, OriginalLanguage: "en", OriginCountries: pq.StringArray{"US"}}, []string{"Adventure", "Comedy", "Science Fiction"}},
		{models.Movie{TMDbID: 4935, Title: "Howl's Moving Castle", ReleaseDate: date("2004-11-19"), VoteAverage: 8.4, VoteCount: 9200, Popularity: 54.3, OriginalLanguage: "ja", OriginCountries: pq.StringArray{"JP"}}, []string{"Animation", "Adventure"}},
		{models.Movie{TMDbID: 694, Title: "The Shining", ReleaseDate: date("1980-05-23"), VoteAverage: 8.2, VoteCount: 17000, Popularity: 52.9, OriginalLanguage: "en", OriginCountries: pq.StringArray{"US", "GB"}}, []string{"Horror", "Thriller"}},
		{models.Movie{TMDbID: 335984, Title: "Blade Runner 2049", ReleaseDate: date("2017-10-04"), VoteAverage: 7.6, VoteCount: 13000, Popularity: 95.6, OriginalLanguage: "en", OriginCountries: pq.StringArray{"US"}}, []string{"Science Fiction", "Drama"}},
		{models.Movie{TMDbID: 546554, Title: "Knives Out", ReleaseDate: date("2019-11-27"), VoteAverage: 7.8, VoteCount: 12000, Popularity: 70.1, OriginalLanguage: "en", OriginCountries: pq.StringArray{"US"}}, []string{"Comedy", "Thriller"}},
		{models.Movie{TMDbID: 496243, Title: "Parasite", ReleaseDate: date("2019-05-30"), VoteAverage: 8.5, VoteCount: 17000, Popularity: 91.3, OriginalLanguage: "ko", OriginCountries: pq.StringArray{"KR"}}, []string{"Comedy", "Thriller", "Drama"}},
	}

	created := 0
	for _, entry := range movies {
		var existing models.Movie
		if err := database.DB.Where("tmdb_id = ?", entry.movie.TMDbID).First(&existing).Error; err == nil {
			continue
		}

		movie := entry.movie
		for _, name := range entry.genres {
			if genre, ok := genres[name]; ok {
				movie.Genres = append(movie.Genres, genre)
			}
		}

		if err := database.DB.Create(&movie).Error; err != nil {
			log.Printf("❌ Failed to create movie %s: %v", movie.Title, err)
			continue
		}
		created++
	}

	log.Printf("✅ Seeded %d movies", created)
}

func seedTestUser(email string) {
	log.Printf("🌱 Seeding test user: %s", email)

	var user models.User
	if err := database.DB.Where("email = ?", email).First(&user).Error; err == nil {
		log.Printf("💡 Test user already exists: %s", user.Email)
		return
	}

	user = models.User{
		Email:       email,
		DisplayName: "Test User",
		Bio:         "Test user for local development",
		IsActive:    true,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		log.Printf("❌ Failed to create test user: %v", err)
		return
	}

	// Give the user some taste so generated recommendations are personal
	service := interactions.NewService(database.DB)

	var scifi []models.Movie
	database.DB.
		Joins("JOIN movie_genres ON movie_genres.movie_id = movies.id").
		Joins("JOIN genres ON genres.id = movie_genres.genre_id").
		Where("genres.name = ?", "Science Fiction").
		Limit(3).
		Find(&scifi)

	for _, movie := range scifi {
		if _, err := service.AddFavorite(user.ID, movie.ID); err != nil {
			log.Printf("❌ Failed to favorite %s: %v", movie.Title, err)
		}
	}

	log.Printf("✅ Created test user %s with %d favorites", user.Email, len(scifi))
}
