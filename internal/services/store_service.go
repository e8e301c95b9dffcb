package services

import (
	"errors"
	"fmt"
	"strings"

	"nilai/internal/models"
	"nilai/internal/repositories"

	"gorm.io/gorm"
)

// storeSortFields is the allow-list for admin store listings.
var storeSortFields = map[string]bool{
	"name":    true,
	"email":   true,
	"address": true,
}

// OwnerDashboard is what a store owner sees: the database-computed
// average, the rating count, and the individual ratings with reviewer
// details.
type OwnerDashboard struct {
	Avg          string                  `json:"avg"`
	TotalRatings int64                   `json:"totalRatings"`
	Ratings      []models.RatingWithUser `json:"ratings"`
}

// StoreService handles business logic related to stores.
type StoreService struct {
	storeRepo  repositories.StoreRepository
	userRepo   repositories.UserRepository
	ratingRepo repositories.RatingRepository
}

// NewStoreService creates a new StoreService.
func NewStoreService(storeRepo repositories.StoreRepository, userRepo repositories.UserRepository, ratingRepo repositories.RatingRepository) *StoreService {
	return &StoreService{
		storeRepo:  storeRepo,
		userRepo:   userRepo,
		ratingRepo: ratingRepo,
	}
}

// CreateStore creates a store after checking the owner exists. The
// owner's role is not constrained here; assignment of the store_owner
// role is the admin's concern.
func (s *StoreService) CreateStore(store *models.Store) error {
	if _, err := s.userRepo.GetByID(store.OwnerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	store.Name = strings.TrimSpace(store.Name)
	store.Email = strings.ToLower(strings.TrimSpace(store.Email))

	if err := s.storeRepo.Create(store); err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	return nil
}

// AdminListStores lists all stores with their average rating, filtered
// and sorted per the admin's query.
func (s *StoreService) AdminListStores(query, sort string) ([]models.StoreWithRating, error) {
	field, desc := parseSort(sort, storeSortFields, "name")

	stores, err := s.storeRepo.ListWithAvg(repositories.StoreFilter{
		Query:     query,
		SortField: field,
		SortDesc:  desc,
	})
	if err != nil {
		return nil, err
	}

	for i := range stores {
		stores[i].AvgRatingDisplay = formatAvg(stores[i].AvgRating)
	}
	return stores, nil
}

// GetOwnerDashboard builds the dashboard for the store owned by the
// given user. Sort accepts date|rating:asc|desc, defaulting to newest
// first.
func (s *StoreService) GetOwnerDashboard(ownerID, sort string) (*OwnerDashboard, error) {
	store, err := s.storeRepo.GetByOwnerID(ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	ratingSort := repositories.RatingSort{Desc: true}
	switch sort {
	case "date:asc":
		ratingSort = repositories.RatingSort{}
	case "rating:asc":
		ratingSort = repositories.RatingSort{ByRating: true}
	case "rating:desc":
		ratingSort = repositories.RatingSort{ByRating: true, Desc: true}
	}

	ratings, err := s.ratingRepo.ListByStore(store.ID, ratingSort)
	if err != nil {
		return nil, err
	}

	avg, err := s.ratingRepo.AverageForStore(store.ID)
	if err != nil {
		return nil, err
	}

	total, err := s.ratingRepo.CountByStore(store.ID)
	if err != nil {
		return nil, err
	}

	return &OwnerDashboard{
		Avg:          formatAvg(avg),
		TotalRatings: total,
		Ratings:      ratings,
	}, nil
}

// formatAvg renders an average rating with one decimal place; stores
// without ratings display as "0.0".
func formatAvg(avg float64) string {
	return fmt.Sprintf("%.1f", avg)
}
