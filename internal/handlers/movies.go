package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"cinefeed/internal/cache"
	"cinefeed/internal/catalog"
	"cinefeed/internal/metrics"
	"cinefeed/internal/models"
	"cinefeed/internal/recommendations"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MoviesHandler handles HTTP requests for the movie catalogue
type MoviesHandler struct {
	catalog *catalog.Service
	engine  *recommendations.Engine
	cache   *cache.Cache
}

// NewMoviesHandler creates a new movies handler
func NewMoviesHandler(catalogService *catalog.Service, engine *recommendations.Engine, c *cache.Cache) *MoviesHandler {
	return &MoviesHandler{
		catalog: catalogService,
		engine:  engine,
		cache:   c,
	}
}

// ListMovies handles GET /api/movies
func (h *MoviesHandler) ListMovies(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	genreID, _ := strconv.ParseUint(c.DefaultQuery("genre_id", "0"), 10, 64)

	list, err := h.catalog.ListMovies(c.Request.Context(), catalog.ListParams{
		Page:    page,
		PerPage: perPage,
		GenreID: uint(genreID),
		Search:  c.Query("search"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list movies",
		})
		return
	}

	c.JSON(http.StatusOK, list)
}

// GetMovie handles GET /api/movies/:id
func (h *MoviesHandler) GetMovie(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid movie id"})
		return
	}

	movie, err := h.catalog.GetMovie(c.Request.Context(), uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load movie"})
		return
	}

	c.JSON(http.StatusOK, movie)
}

// GetSimilarMovies handles GET /api/movies/:id/similar
func (h *MoviesHandler) GetSimilarMovies(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid movie id"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 50 {
		limit = 10
	}

	key := cache.SimilarKey(uint(id), limit)
	var similar []models.Movie
	if h.cache.GetJSON(c.Request.Context(), key, &similar) {
		metrics.CacheRequestsTotal.WithLabelValues("similar", "hit").Inc()
		c.JSON(http.StatusOK, gin.H{"movies": similar})
		return
	}
	metrics.CacheRequestsTotal.WithLabelValues("similar", "miss").Inc()

	similar, err = h.engine.SimilarMovies(uint(id), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to find similar movies"})
		return
	}

	h.cache.SetJSON(c.Request.Context(), key, similar, cache.SimilarTTL)
	c.JSON(http.StatusOK, gin.H{"movies": similar})
}

// ListGenres handles GET /api/genres
func (h *MoviesHandler) ListGenres(c *gin.Context) {
	genres, err := h.catalog.ListGenres()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list genres"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"genres": genres})
}
