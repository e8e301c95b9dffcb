package services_test

import (
	"testing"

	"nilai/internal/models"
	"nilai/internal/repositories"
	"nilai/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_CreateUser(t *testing.T) {
	mockUsers := new(MockUserRepository)
	userService := services.NewUserService(mockUsers, nil, nil)

	// Unknown role is rejected before any storage access.
	err := userService.CreateUser(&models.User{
		Name:  "An Administrator Long Name",
		Email: "admin@example.com",
		Role:  models.Role("superuser"),
	})
	assert.ErrorIs(t, err, services.ErrInvalidRole)
	mockUsers.AssertNotCalled(t, "Create", mock.Anything)

	// Admin-chosen role survives creation and the password is hashed.
	mockUsers.On("GetByEmail", "owner@example.com").Return(nil, nil).Once()
	mockUsers.On("Create", mock.MatchedBy(func(u *models.User) bool {
		return u.Role == models.RoleStoreOwner &&
			bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("Abcdefg1!")) == nil
	})).Return(nil).Once()

	err = userService.CreateUser(&models.User{
		Name:     "A Store Owner With Long Name",
		Email:    "Owner@Example.com",
		Password: "Abcdefg1!",
		Role:     models.RoleStoreOwner,
	})
	assert.NoError(t, err)
	mockUsers.AssertExpectations(t)
}

func TestUserService_ListUsers(t *testing.T) {
	mockUsers := new(MockUserRepository)
	userService := services.NewUserService(mockUsers, nil, nil)

	// A sort field outside the allow-list silently falls back to name.
	mockUsers.On("List", repositories.UserFilter{
		Query:     "jo",
		Role:      "user",
		SortField: "name",
		SortDesc:  false,
		Page:      1,
		Limit:     5,
	}).Return([]models.User{{ID: "u1"}}, int64(11), nil).Once()

	page, err := userService.ListUsers("jo", "user", "password:asc", 1, 5)
	assert.NoError(t, err)
	assert.Equal(t, int64(11), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	mockUsers.AssertExpectations(t)

	// Allow-listed field with explicit direction passes through.
	mockUsers.On("List", repositories.UserFilter{
		SortField: "email",
		SortDesc:  true,
		Page:      2,
		Limit:     10,
	}).Return([]models.User{}, int64(0), nil).Once()

	page, err = userService.ListUsers("", "", "email:desc", 2, 10)
	assert.NoError(t, err)
	assert.Equal(t, 0, page.TotalPages)
	mockUsers.AssertExpectations(t)
}

func TestUserService_Dashboard(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockStores := new(MockStoreRepository)
	mockRatings := new(MockRatingRepository)
	userService := services.NewUserService(mockUsers, mockStores, mockRatings)

	mockUsers.On("Count").Return(int64(10), nil).Once()
	mockStores.On("Count").Return(int64(3), nil).Once()
	mockRatings.On("Count").Return(int64(25), nil).Once()

	counts, err := userService.Dashboard()
	assert.NoError(t, err)
	assert.Equal(t, int64(10), counts.TotalUsers)
	assert.Equal(t, int64(3), counts.TotalStores)
	assert.Equal(t, int64(25), counts.TotalRatings)
}
