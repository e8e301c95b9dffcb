package repositories

import (
	"fmt"

	"nilai/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMRatingRepository is a GORM implementation of RatingRepository.
type GORMRatingRepository struct {
	db *gorm.DB
}

// NewGORMRatingRepository creates a new instance of GORMRatingRepository.
func NewGORMRatingRepository(db *gorm.DB) *GORMRatingRepository {
	return &GORMRatingRepository{
		db: db,
	}
}

// Upsert writes the rating, resolving a conflict on the (user_id,
// store_id) unique index by updating the existing row's value in place.
// The conflict resolution happens in the database, so concurrent
// submissions for the same pair cannot produce duplicates.
func (r *GORMRatingRepository) Upsert(rating *models.Rating) error {
	if rating.ID == "" {
		rating.ID = uuid.New().String()
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "store_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
	}).Create(rating).Error
	if err != nil {
		return fmt.Errorf("failed to upsert rating: %w", err)
	}
	return nil
}

// GetByUserAndStore retrieves the single rating a user gave a store.
func (r *GORMRatingRepository) GetByUserAndStore(userID, storeID string) (*models.Rating, error) {
	var rating models.Rating
	if err := r.db.First(&rating, "user_id = ? AND store_id = ?", userID, storeID).Error; err != nil {
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	return &rating, nil
}

// ListByStore returns a store's ratings joined to each reviewer's name
// and email.
func (r *GORMRatingRepository) ListByStore(storeID string, sort RatingSort) ([]models.RatingWithUser, error) {
	orderCol := "ratings.created_at"
	if sort.ByRating {
		orderCol = "ratings.rating"
	}
	direction := "ASC"
	if sort.Desc {
		direction = "DESC"
	}

	var ratings []models.RatingWithUser
	err := r.db.Model(&models.Rating{}).
		Select("ratings.id, ratings.rating, ratings.created_at, users.name AS user_name, users.email AS user_email").
		Joins("JOIN users ON users.id = ratings.user_id").
		Where("ratings.store_id = ?", storeID).
		Order(fmt.Sprintf("%s %s", orderCol, direction)).
		Scan(&ratings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings for store %s: %w", storeID, err)
	}
	return ratings, nil
}

// AverageForStore computes the store's average rating in the database.
// A store without ratings averages to 0.
func (r *GORMRatingRepository) AverageForStore(storeID string) (float64, error) {
	var avg float64
	err := r.db.Model(&models.Rating{}).
		Where("store_id = ?", storeID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error
	if err != nil {
		return 0, fmt.Errorf("failed to compute average for store %s: %w", storeID, err)
	}
	return avg, nil
}

// CountByStore returns the number of ratings a store has received.
func (r *GORMRatingRepository) CountByStore(storeID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Rating{}).Where("store_id = ?", storeID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count ratings for store %s: %w", storeID, err)
	}
	return count, nil
}

// Count returns the total number of ratings.
func (r *GORMRatingRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Rating{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count ratings: %w", err)
	}
	return count, nil
}
