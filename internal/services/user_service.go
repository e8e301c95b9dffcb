package services

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"nilai/internal/models"
	"nilai/internal/repositories"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// userSortFields is the allow-list for admin user listings; anything
// else silently falls back to the default sort field.
var userSortFields = map[string]bool{
	"name":    true,
	"email":   true,
	"address": true,
	"role":    true,
}

// DashboardCounts are the platform totals shown on the admin dashboard.
type DashboardCounts struct {
	TotalUsers   int64 `json:"totalUsers"`
	TotalStores  int64 `json:"totalStores"`
	TotalRatings int64 `json:"totalRatings"`
}

// OwnedStore is a store with its ratings, as shown on the admin user
// detail view.
type OwnedStore struct {
	models.Store
	Ratings []models.RatingWithUser `json:"ratings"`
}

// UserDetail is a user together with their owned stores and each
// store's ratings.
type UserDetail struct {
	models.User
	Stores []OwnedStore `json:"stores"`
}

// UserPage is one page of an admin user listing.
type UserPage struct {
	Users      []models.User
	Total      int64
	Page       int
	TotalPages int
}

// UserService handles admin-side user management.
type UserService struct {
	userRepo   repositories.UserRepository
	storeRepo  repositories.StoreRepository
	ratingRepo repositories.RatingRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository, storeRepo repositories.StoreRepository, ratingRepo repositories.RatingRepository) *UserService {
	return &UserService{
		userRepo:   userRepo,
		storeRepo:  storeRepo,
		ratingRepo: ratingRepo,
	}
}

// CreateUser creates a user with an admin-chosen role. The password
// arrives validated at the boundary and is hashed here before persistence.
func (s *UserService) CreateUser(user *models.User) error {
	if !user.Role.Valid() {
		return ErrInvalidRole
	}

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.Name = strings.TrimSpace(user.Name)

	if existing, err := s.userRepo.GetByEmail(user.Email); err == nil && existing != nil {
		return ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)

	if err := s.userRepo.Create(user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// ListUsers returns a filtered, sorted, paginated page of users. The
// sort parameter uses the "field:direction" form.
func (s *UserService) ListUsers(query, role, sort string, page, limit int) (*UserPage, error) {
	field, desc := parseSort(sort, userSortFields, "name")

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 5
	}

	users, total, err := s.userRepo.List(repositories.UserFilter{
		Query:     query,
		Role:      role,
		SortField: field,
		SortDesc:  desc,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}

	return &UserPage{
		Users:      users,
		Total:      total,
		Page:       page,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

// GetUserDetail loads a user together with their owned stores and each
// store's ratings.
func (s *UserService) GetUserDetail(id string) (*UserDetail, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	stores, err := s.storeRepo.ListByOwnerID(user.ID)
	if err != nil {
		return nil, err
	}

	detail := &UserDetail{User: *user, Stores: make([]OwnedStore, 0, len(stores))}
	for _, store := range stores {
		ratings, err := s.ratingRepo.ListByStore(store.ID, repositories.RatingSort{Desc: true})
		if err != nil {
			return nil, err
		}
		detail.Stores = append(detail.Stores, OwnedStore{Store: store, Ratings: ratings})
	}
	return detail, nil
}

// Dashboard returns the platform totals.
func (s *UserService) Dashboard() (*DashboardCounts, error) {
	totalUsers, err := s.userRepo.Count()
	if err != nil {
		return nil, err
	}
	totalStores, err := s.storeRepo.Count()
	if err != nil {
		return nil, err
	}
	totalRatings, err := s.ratingRepo.Count()
	if err != nil {
		return nil, err
	}
	return &DashboardCounts{
		TotalUsers:   totalUsers,
		TotalStores:  totalStores,
		TotalRatings: totalRatings,
	}, nil
}

// DeleteUser removes a user; the database cascades the delete to their
// stores and ratings.
func (s *UserService) DeleteUser(id string) error {
	if err := s.userRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// parseSort splits a "field:direction" sort parameter, falling back to
// the default field when the requested one is not allow-listed.
func parseSort(sort string, allowed map[string]bool, defaultField string) (field string, desc bool) {
	field = defaultField
	parts := strings.SplitN(sort, ":", 2)
	if allowed[parts[0]] {
		field = parts[0]
	}
	if len(parts) == 2 && parts[1] == "desc" {
		desc = true
	}
	return field, desc
}
