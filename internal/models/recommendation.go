package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recommendation types
const (
	RecTypeCollaborative = "collaborative"
	RecTypeContentBased  = "content_based"
	RecTypeHybrid        = "hybrid"
	RecTypeTrending      = "trending"
	RecTypePersonalized  = "personalized"
)

// Feedback types for RecommendationFeedback
const (
	FeedbackLike          = "like"
	FeedbackDislike       = "dislike"
	FeedbackNotInterested = "not_interested"
)

// Recommendation is a scored movie suggestion persisted for a user.
// Rows are replaced wholesale on every engine run, so IsClicked and
// IsRated reset to false on regeneration. At most one row exists per
// (user, movie, recommendation_type).
type Recommendation struct {
	ID                 uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	UserID             uuid.UUID `json:"user_id" db:"user_id" gorm:"not null;index;uniqueIndex:idx_recs_user_movie_type"`
	MovieID            uint      `json:"movie_id" db:"movie_id" gorm:"not null;uniqueIndex:idx_recs_user_movie_type"`
	RecommendationType string    `json:"recommendation_type" db:"recommendation_type" gorm:"not null;default:personalized;uniqueIndex:idx_recs_user_movie_type"`

	Score  float64 `json:"score" db:"score" gorm:"not null;index"` // confidence score (0-1)
	Reason string  `json:"reason" db:"reason" gorm:"type:text"`

	// Mutated by the API after creation, never by the engine
	IsClicked bool `json:"is_clicked" db:"is_clicked" gorm:"default:false"`
	IsRated   bool `json:"is_rated" db:"is_rated" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	User  User  `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
	Movie Movie `json:"movie,omitempty" gorm:"foreignKey:MovieID;references:ID"`
}

// BeforeCreate assigns a UUID when none was provided
func (r *Recommendation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName sets the table name for the Recommendation model
func (Recommendation) TableName() string {
	return "recommendations"
}

// RecommendationFeedback records a user's reaction to a recommendation,
// unique per (user, recommendation). Rows cascade away when their
// Recommendation is replaced, so a dismissal only persists until the
// next regeneration run.
type RecommendationFeedback struct {
	ID               uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	UserID           uuid.UUID `json:"user_id" db:"user_id" gorm:"not null;index;uniqueIndex:idx_feedback_user_rec"`
	RecommendationID uuid.UUID `json:"recommendation_id" db:"recommendation_id" gorm:"not null;index;uniqueIndex:idx_feedback_user_rec"`
	FeedbackType     string    `json:"feedback_type" db:"feedback_type" gorm:"not null"` // like, dislike, not_interested
	Comment          string    `json:"comment" db:"comment" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	User           User           `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
	Recommendation Recommendation `json:"recommendation,omitempty" gorm:"foreignKey:RecommendationID;references:ID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate assigns a UUID when none was provided
func (f *RecommendationFeedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// TableName sets the table name for the RecommendationFeedback model
func (RecommendationFeedback) TableName() string {
	return "recommendation_feedbacks"
}
