// Package worker runs background regeneration of stale recommendation
// sets, decoupled from the request path. A failed run for one user is
// logged and retried on a later tick; the API never waits on it.
package worker

import (
	"context"
	"log"
	"sync"
	"time"

	"cinefeed/internal/events"
	"cinefeed/internal/models"
	"cinefeed/internal/recommendations"

	"gorm.io/gorm"
)

// Config tunes the regeneration worker
type Config struct {
	// Interval between regeneration sweeps
	Interval time.Duration
	// MaxAge after which a user's recommendation set counts as stale
	MaxAge time.Duration
	// BatchSize caps how many users one sweep regenerates
	BatchSize int
	// Limit is the recommendation list length requested per user
	Limit int
}

// DefaultConfig returns the worker defaults
func DefaultConfig() Config {
	return Config{
		Interval:  15 * time.Minute,
		MaxAge:    24 * time.Hour,
		BatchSize: 25,
		Limit:     20,
	}
}

// Service manages the background regeneration loop
type Service struct {
	db     *gorm.DB
	engine *recommendations.Engine
	hub    *events.Hub
	config Config

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	mu      sync.RWMutex
}

// NewService creates a new worker service
func NewService(db *gorm.DB, engine *recommendations.Engine, hub *events.Hub, config Config) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		db:     db,
		engine: engine,
		hub:    hub,
		config: config,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start launches the regeneration loop
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	log.Println("Starting recommendation regeneration worker...")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run()
	}()

	s.running = true
}

// Stop signals the loop to exit and waits for it
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	log.Println("Stopping recommendation regeneration worker...")
	s.cancel()
	s.wg.Wait()
	s.running = false
}

// IsRunning returns whether the worker loop is active
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

func (s *Service) run() {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if err := s.RegenerateStale(); err != nil {
				log.Printf("Regeneration sweep failed: %v", err)
			}
		}
	}
}

// RegenerateStale regenerates recommendations for active users whose
// sets were never generated or have aged past MaxAge
func (s *Service) RegenerateStale() error {
	cutoff := time.Now().Add(-s.config.MaxAge)

	var users []models.User
	err := s.db.Where("is_active = ?", true).
		Where("recs_last_generated IS NULL OR recs_last_generated < ?", cutoff).
		Order("recs_last_generated ASC NULLS FIRST").
		Limit(s.config.BatchSize).
		Find(&users).Error
	if err != nil {
		return err
	}

	for i := range users {
		user := users[i]

		recs, err := s.engine.Generate(user.ID, s.config.Limit)
		if err != nil {
			log.Printf("Failed to regenerate recommendations for user %s: %v", user.ID, err)
			continue
		}

		now := time.Now()
		err = s.db.Model(&user).Update("recs_last_generated", now).Error
		if err != nil {
			log.Printf("Failed to stamp regeneration for user %s: %v", user.ID, err)
		}

		if s.hub != nil {
			s.hub.RecommendationsReady(user.ID, len(recs))
		}
	}

	if len(users) > 0 {
		log.Printf("Regenerated recommendations for %d users", len(users))
	}
	return nil
}
