package repositories

import "nilai/internal/models"

// StoreFilter narrows and orders admin store listings.
type StoreFilter struct {
	Query     string // case-insensitive substring over name/address
	SortField string // sanitized by the caller against the allow-list
	SortDesc  bool
}

// StoreRepository defines the interface for store data access, including
// the aggregation queries that attach rating data to listings. Averages
// are computed by the database, never in application code.
type StoreRepository interface {
	Create(store *models.Store) error
	GetByID(id string) (*models.Store, error)
	GetByOwnerID(ownerID string) (*models.Store, error)
	ListByOwnerID(ownerID string) ([]models.Store, error)
	ListWithAvg(filter StoreFilter) ([]models.StoreWithRating, error)
	ListWithUserRating(userID, query string) ([]models.StoreWithRating, error)
	Count() (int64, error)
}
