package main

import (
	"flag"
	"log"
	"time"

	"cinefeed/internal/database"
	"cinefeed/internal/models"
	"cinefeed/internal/recommendations"

	"github.com/joho/godotenv"
)

func main() {
	var limit = flag.Int("limit", 20, "Recommendations to generate per user")
	flag.Parse()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	log.Println("🔄 Starting recommendation regeneration...")

	// Load database configuration and connect
	dbConfig := database.LoadConfig()
	if err := database.Connect(dbConfig); err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer database.Close()

	engine := recommendations.NewEngine(database.DB)

	var users []models.User
	if err := database.DB.Where("is_active = ?", true).Find(&users).Error; err != nil {
		log.Fatalf("❌ Failed to load users: %v", err)
	}

	regenerated := 0
	for i := range users {
		user := users[i]

		recs, err := engine.Generate(user.ID, *limit)
		if err != nil {
			log.Printf("❌ Failed to regenerate for user %s: %v", user.ID, err)
			continue
		}

		now := time.Now()
		if err := database.DB.Model(&user).Update("recs_last_generated", now).Error; err != nil {
			log.Printf("❌ Failed to stamp regeneration for user %s: %v", user.ID, err)
		}

		log.Printf("🎬 Generated %d recommendations for %s", len(recs), user.Email)
		regenerated++
	}

	log.Printf("✅ Recommendation regeneration completed for %d/%d users", regenerated, len(users))
}
