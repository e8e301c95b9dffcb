package repositories

import (
	"fmt"
	"strings"

	"nilai/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMStoreRepository is a GORM implementation of StoreRepository.
type GORMStoreRepository struct {
	db *gorm.DB
}

// NewGORMStoreRepository creates a new instance of GORMStoreRepository.
func NewGORMStoreRepository(db *gorm.DB) *GORMStoreRepository {
	return &GORMStoreRepository{
		db: db,
	}
}

// Create creates a new store in the database.
func (r *GORMStoreRepository) Create(store *models.Store) error {
	if store.ID == "" {
		store.ID = uuid.New().String()
	}
	if err := r.db.Create(store).Error; err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	return nil
}

// GetByID retrieves a store by its ID from the database.
func (r *GORMStoreRepository) GetByID(id string) (*models.Store, error) {
	var store models.Store
	if err := r.db.First(&store, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get store by ID %s: %w", id, err)
	}
	return &store, nil
}

// GetByOwnerID retrieves the store owned by the given user.
func (r *GORMStoreRepository) GetByOwnerID(ownerID string) (*models.Store, error) {
	var store models.Store
	if err := r.db.First(&store, "owner_id = ?", ownerID).Error; err != nil {
		return nil, fmt.Errorf("failed to get store by owner: %w", err)
	}
	return &store, nil
}

// ListByOwnerID retrieves every store owned by the given user.
func (r *GORMStoreRepository) ListByOwnerID(ownerID string) ([]models.Store, error) {
	var stores []models.Store
	if err := r.db.Where("owner_id = ?", ownerID).Order("name ASC").Find(&stores).Error; err != nil {
		return nil, fmt.Errorf("failed to list stores by owner: %w", err)
	}
	return stores, nil
}

// ListWithAvg lists stores with their database-computed average rating.
// Stores without ratings report an average of 0.
func (r *GORMStoreRepository) ListWithAvg(filter StoreFilter) ([]models.StoreWithRating, error) {
	query := r.db.Model(&models.Store{}).
		Select("stores.id, stores.name, stores.email, stores.address, COALESCE(AVG(ratings.rating), 0) AS avg_rating").
		Joins("LEFT JOIN ratings ON ratings.store_id = stores.id").
		Group("stores.id, stores.name, stores.email, stores.address")

	if filter.Query != "" {
		pattern := "%" + strings.ToLower(filter.Query) + "%"
		query = query.Where("LOWER(stores.name) LIKE ? OR LOWER(stores.address) LIKE ?", pattern, pattern)
	}

	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	var stores []models.StoreWithRating
	if err := query.Order(fmt.Sprintf("stores.%s %s", filter.SortField, direction)).Scan(&stores).Error; err != nil {
		return nil, fmt.Errorf("failed to list stores with averages: %w", err)
	}
	return stores, nil
}

// ListWithUserRating lists stores with their average rating plus the
// requesting user's own rating as a correlated sub-select. The unique
// (user_id, store_id) index guarantees the sub-select matches at most
// one row.
func (r *GORMStoreRepository) ListWithUserRating(userID, search string) ([]models.StoreWithRating, error) {
	query := r.db.Model(&models.Store{}).
		Select(`stores.id, stores.name, stores.address,
			COALESCE(AVG(ratings.rating), 0) AS avg_rating,
			(SELECT r2.rating FROM ratings r2 WHERE r2.store_id = stores.id AND r2.user_id = ? LIMIT 1) AS my_rating`, userID).
		Joins("LEFT JOIN ratings ON ratings.store_id = stores.id").
		Group("stores.id, stores.name, stores.address")

	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(stores.name) LIKE ? OR LOWER(stores.address) LIKE ?", pattern, pattern)
	}

	var stores []models.StoreWithRating
	if err := query.Order("stores.name ASC").Scan(&stores).Error; err != nil {
		return nil, fmt.Errorf("failed to list stores for user: %w", err)
	}
	return stores, nil
}

// Count returns the total number of stores.
func (r *GORMStoreRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Store{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count stores: %w", err)
	}
	return count, nil
}
