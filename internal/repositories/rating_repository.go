package repositories

import "nilai/internal/models"

// RatingSort orders an owner-dashboard rating listing.
type RatingSort struct {
	ByRating bool // default is submission date
	Desc     bool
}

// RatingRepository defines the interface for rating data access.
type RatingRepository interface {
	// Upsert inserts the rating or, when the (user, store) pair already
	// has one, overwrites its value. Idempotent for equal values.
	Upsert(rating *models.Rating) error
	GetByUserAndStore(userID, storeID string) (*models.Rating, error)
	ListByStore(storeID string, sort RatingSort) ([]models.RatingWithUser, error)
	AverageForStore(storeID string) (float64, error)
	CountByStore(storeID string) (int64, error)
	Count() (int64, error)
}
