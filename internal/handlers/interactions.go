package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"cinefeed/internal/auth"
	"cinefeed/internal/interactions"
	"cinefeed/internal/recommendations"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InteractionsHandler handles favorites, ratings, and feedback
type InteractionsHandler struct {
	service *interactions.Service
	engine  *recommendations.Engine
}

// NewInteractionsHandler creates a new interactions handler
func NewInteractionsHandler(service *interactions.Service, engine *recommendations.Engine) *InteractionsHandler {
	return &InteractionsHandler{service: service, engine: engine}
}

// AddFavorite handles POST /api/movies/:id/favorite
func (h *InteractionsHandler) AddFavorite(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User authentication required"})
		return
	}

	movieID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid movie id"})
		return
	}

	favorite, err := h.service.AddFavorite(userID, uint(movieID))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add favorite"})
		return
	}

	c.JSON(http.StatusCreated, favorite)
}

// RemoveFavorite handles DELETE /api/movies/:id/favorite
func (h *InteractionsHandler) RemoveFavorite(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User authentication required"})
		return
	}

	movieID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid movie id"})
		return
	}

	err = h.service.RemoveFavorite(userID, uint(movieID))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Favorite not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove favorite"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListFavorites handles GET /api/favorites
func (h *InteractionsHandler) ListFavorites(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User authentication required"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}

	favorites, err := h.service.ListFavorites(userID, limit, (page-1)*limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list favorites"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"favorites": favorites,
		"page":      page,
		"per_page":  limit,
	})
}

// RateMovieRequest is the body for POST /api/movies/:id/rating
type RateMovieRequest struct {
	Rating float64 `json:"rating" binding:"required"`
	Review string  `json:"review"`
}

// RateMovie handles POST /api/movies/:id/rating
func (h *InteractionsHandler) RateMovie(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User authentication required"})
		return
	}

	movieID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid movie id"})
		return
	}

	var req RateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	rating, err := h.service.RateMovie(userID, uint(movieID), req.Rating, req.Review)
	if errors.Is(err, interactions.ErrInvalidRating) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save rating"})
		return
	}

	// Flip is_rated on any persisted recommendation of this movie
	if err := h.engine.MarkRated(userID, uint(movieID)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update recommendation state"})
		return
	}

	c.JSON(http.StatusCreated, rating)
}

// FeedbackRequest is the body for POST /api/recommendations/:id/feedback
type FeedbackRequest struct {
	FeedbackType string `json:"feedback_type" binding:"required"`
	Comment      string `json:"comment"`
}

// RecordFeedback handles POST /api/recommendations/:id/feedback
func (h *InteractionsHandler) RecordFeedback(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User authentication required"})
		return
	}

	recID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recommendation id"})
		return
	}

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	feedback, err := h.service.RecordFeedback(userID, recID, req.FeedbackType, req.Comment)
	if errors.Is(err, interactions.ErrInvalidFeedback) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recommendation not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save feedback"})
		return
	}

	c.JSON(http.StatusCreated, feedback)
}
