package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"cinefeed/internal/auth"
	"cinefeed/internal/cache"
	"cinefeed/internal/catalog"
	"cinefeed/internal/database"
	"cinefeed/internal/events"
	"cinefeed/internal/handlers"
	"cinefeed/internal/interactions"
	"cinefeed/internal/recommendations"
	"cinefeed/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load database configuration
	dbConfig := database.LoadConfig()

	// Connect to database
	if err := database.Connect(dbConfig); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Metadata cache (optional, disabled without REDIS_ADDR)
	metadataCache := cache.NewFromEnv()

	// Core services
	engine := recommendations.NewEngine(database.DB)
	catalogService := catalog.NewService(database.DB, metadataCache)
	interactionsService := interactions.NewService(database.DB)
	hub := events.NewHub()

	// Background regeneration worker
	workerService := worker.NewService(database.DB, engine, hub, worker.DefaultConfig())
	workerService.Start()

	// Setup graceful shutdown
	setupGracefulShutdown(workerService)

	// Setup HTTP server
	setupServer(engine, catalogService, interactionsService, hub, metadataCache)
}

func setupGracefulShutdown(workerService *worker.Service) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Received shutdown signal, gracefully shutting down...")

		workerService.Stop()
		database.Close()

		log.Println("Shutdown complete")
		os.Exit(0)
	}()
}

func setupServer(
	engine *recommendations.Engine,
	catalogService *catalog.Service,
	interactionsService *interactions.Service,
	hub *events.Hub,
	metadataCache *cache.Cache,
) {
	// Set Gin mode based on environment
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "dev-secret"
		log.Println("JWT_SECRET not set, using development secret")
	}

	// Create router
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Initialize handlers
	moviesHandler := handlers.NewMoviesHandler(catalogService, engine, metadataCache)
	recsHandler := handlers.NewRecommendationsHandler(database.DB, engine, hub)
	interactionsHandler := handlers.NewInteractionsHandler(interactionsService, engine)
	docsHandler := handlers.NewDocsHandler()

	// Health check and operational endpoints
	r.GET("/health", recsHandler.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/doc/:doc", docsHandler.ServeMarkdownAsHTML)

	// Live recommendation events
	r.GET("/ws/events", hub.HandleWS)

	// Public catalogue routes
	api := r.Group("/api")
	{
		movies := api.Group("/movies")
		{
			movies.GET("", moviesHandler.ListMovies)
			movies.GET("/:id", moviesHandler.GetMovie)
			movies.GET("/:id/similar", moviesHandler.GetSimilarMovies)
		}
		api.GET("/genres", moviesHandler.ListGenres)
	}

	// Authenticated routes
	user := r.Group("/api", auth.Middleware(jwtSecret))
	{
		user.POST("/movies/:id/favorite", interactionsHandler.AddFavorite)
		user.DELETE("/movies/:id/favorite", interactionsHandler.RemoveFavorite)
		user.POST("/movies/:id/rating", interactionsHandler.RateMovie)
		user.GET("/favorites", interactionsHandler.ListFavorites)

		recs := user.Group("/recommendations")
		{
			recs.GET("", recsHandler.GetRecommendations)
			recs.POST("/generate", recsHandler.GenerateRecommendations)
			recs.POST("/:id/click", recsHandler.MarkClicked)
			recs.POST("/:id/feedback", interactionsHandler.RecordFeedback)
		}
	}

	// Get port from environment or default to 8080
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
