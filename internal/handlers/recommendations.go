package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"cinefeed/internal/auth"
	"cinefeed/internal/events"
	"cinefeed/internal/models"
	"cinefeed/internal/recommendations"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecommendationsHandler handles HTTP requests for recommendations
type RecommendationsHandler struct {
	db     *gorm.DB
	engine *recommendations.Engine
	hub    *events.Hub
}

// NewRecommendationsHandler creates a new recommendations handler
func NewRecommendationsHandler(db *gorm.DB, engine *recommendations.Engine, hub *events.Hub) *RecommendationsHandler {
	return &RecommendationsHandler{db: db, engine: engine, hub: hub}
}

// GetRecommendations handles GET /api/recommendations
func (h *RecommendationsHandler) GetRecommendations(c *gin.Context) {
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

	recs, err := h.engine.ListForUser(userID, limit, (page-1)*limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load recommendations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recommendations": recs,
		"page":            page,
		"per_page":        limit,
	})
}

// GenerateRecommendations handles POST /api/recommendations/generate
func (h *RecommendationsHandler) GenerateRecommendations(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User authentication required"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	recs, err := h.engine.Generate(userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate recommendations"})
		return
	}

	now := time.Now()
	err = h.db.Model(&models.User{}).Where("id = ?", userID).
		Update("recs_last_generated", now).Error
	if err != nil {
		log.Printf("Failed to stamp regeneration for user %s: %v", userID, err)
	}

	if h.hub != nil {
		h.hub.RecommendationsReady(userID, len(recs))
	}

	c.JSON(http.StatusOK, gin.H{
		"recommendations": recs,
		"generated_at":    now,
	})
}

// MarkClicked handles POST /api/recommendations/:id/click
func (h *RecommendationsHandler) MarkClicked(c *gin.Context) {
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

	err = h.engine.MarkClicked(userID, recID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recommendation not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record click"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HealthCheck handles GET /health
func (h *RecommendationsHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "cinefeed",
	})
}
