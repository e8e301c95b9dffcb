package repositories

import "nilai/internal/models"

// UserFilter narrows and orders admin user listings.
type UserFilter struct {
	Query     string // case-insensitive substring over name/email/address
	Role      string // exact role match, empty matches all
	SortField string // sanitized by the caller against the allow-list
	SortDesc  bool
	Page      int
	Limit     int
}

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	UpdatePassword(id, hashedPassword string) error
	List(filter UserFilter) ([]models.User, int64, error)
	Count() (int64, error)
	Delete(id string) error
}
