package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"nilai/internal/models"
	"nilai/internal/repositories"

	"gorm.io/gorm"
)

// RatingService handles rating submission and the user-facing store
// listing.
type RatingService struct {
	ratingRepo repositories.RatingRepository
	storeRepo  repositories.StoreRepository
	events     EventPublisher
}

// NewRatingService creates a new RatingService.
func NewRatingService(ratingRepo repositories.RatingRepository, storeRepo repositories.StoreRepository, events EventPublisher) *RatingService {
	return &RatingService{
		ratingRepo: ratingRepo,
		storeRepo:  storeRepo,
		events:     events,
	}
}

// SubmitRating records a user's 1-5 rating for a store, overwriting any
// previous rating by the same user. Submitting the same value twice
// leaves the stored state unchanged.
func (s *RatingService) SubmitRating(userID, storeID string, value int) error {
	if value < 1 || value > 5 {
		return ErrInvalidRating
	}

	if _, err := s.storeRepo.GetByID(storeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	rating := &models.Rating{
		UserID:  userID,
		StoreID: storeID,
		Rating:  value,
	}
	if err := s.ratingRepo.Upsert(rating); err != nil {
		return fmt.Errorf("failed to submit rating: %w", err)
	}

	if s.events != nil {
		body, err := json.Marshal(map[string]interface{}{
			"userID":  userID,
			"storeID": storeID,
			"rating":  value,
		})
		if err != nil {
			log.Printf("Failed to marshal rating event: %v", err)
		} else if err := s.events.Publish("rating.submitted", body); err != nil {
			log.Printf("Warning: failed to publish rating.submitted event: %v", err)
		}
	}

	return nil
}

// ListStoresForUser lists every store with its average rating and the
// requesting user's own rating, optionally filtered by a name/address
// substring.
func (s *RatingService) ListStoresForUser(userID, query string) ([]models.StoreWithRating, error) {
	stores, err := s.storeRepo.ListWithUserRating(userID, query)
	if err != nil {
		return nil, err
	}

	for i := range stores {
		stores[i].AvgRatingDisplay = formatAvg(stores[i].AvgRating)
	}
	return stores, nil
}
