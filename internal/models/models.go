// Package models contains all data models for the cinefeed application
package models

import (
	"gorm.io/gorm"
)

// AllModels returns a slice of all model types for database migrations
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Genre{},
		&Movie{},
		&Favorite{},
		&Rating{},
		&Recommendation{},
		&RecommendationFeedback{},
	}
}

// AutoMigrate runs automatic migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
