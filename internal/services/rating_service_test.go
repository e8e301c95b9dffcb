package services_test

import (
	"fmt"
	"testing"

	"nilai/internal/models"
	"nilai/internal/repositories"
	"nilai/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockStoreRepository is a mock implementation of repositories.StoreRepository
type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) Create(store *models.Store) error {
	args := m.Called(store)
	return args.Error(0)
}

func (m *MockStoreRepository) GetByID(id string) (*models.Store, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Store), args.Error(1)
}

func (m *MockStoreRepository) GetByOwnerID(ownerID string) (*models.Store, error) {
	args := m.Called(ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Store), args.Error(1)
}

func (m *MockStoreRepository) ListByOwnerID(ownerID string) ([]models.Store, error) {
	args := m.Called(ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Store), args.Error(1)
}

func (m *MockStoreRepository) ListWithAvg(filter repositories.StoreFilter) ([]models.StoreWithRating, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StoreWithRating), args.Error(1)
}

func (m *MockStoreRepository) ListWithUserRating(userID, search string) ([]models.StoreWithRating, error) {
	args := m.Called(userID, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StoreWithRating), args.Error(1)
}

func (m *MockStoreRepository) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// MockRatingRepository is a mock implementation of repositories.RatingRepository
type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) Upsert(rating *models.Rating) error {
	args := m.Called(rating)
	return args.Error(0)
}

func (m *MockRatingRepository) GetByUserAndStore(userID, storeID string) (*models.Rating, error) {
	args := m.Called(userID, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingRepository) ListByStore(storeID string, sort repositories.RatingSort) ([]models.RatingWithUser, error) {
	args := m.Called(storeID, sort)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RatingWithUser), args.Error(1)
}

func (m *MockRatingRepository) AverageForStore(storeID string) (float64, error) {
	args := m.Called(storeID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockRatingRepository) CountByStore(storeID string) (int64, error) {
	args := m.Called(storeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRatingRepository) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func TestRatingService_SubmitRating(t *testing.T) {
	mockRatings := new(MockRatingRepository)
	mockStores := new(MockStoreRepository)
	ratingService := services.NewRatingService(mockRatings, mockStores, nil)

	// Out-of-range values are rejected before any storage access.
	for _, value := range []int{0, -1, 6, 100} {
		err := ratingService.SubmitRating("user-1", "store-1", value)
		assert.ErrorIs(t, err, services.ErrInvalidRating)
	}
	mockStores.AssertNotCalled(t, "GetByID", mock.Anything)
	mockRatings.AssertNotCalled(t, "Upsert", mock.Anything)

	// Unknown store
	mockStores.On("GetByID", "missing").Return(nil, fmt.Errorf("failed to get store: %w", gorm.ErrRecordNotFound)).Once()
	err := ratingService.SubmitRating("user-1", "missing", 4)
	assert.ErrorIs(t, err, services.ErrNotFound)
	mockStores.AssertExpectations(t)

	// Valid submission upserts on the (user, store) pair.
	mockStores.On("GetByID", "store-1").Return(&models.Store{ID: "store-1"}, nil).Once()
	mockRatings.On("Upsert", mock.MatchedBy(func(r *models.Rating) bool {
		return r.UserID == "user-1" && r.StoreID == "store-1" && r.Rating == 4
	})).Return(nil).Once()
	err = ratingService.SubmitRating("user-1", "store-1", 4)
	assert.NoError(t, err)
	mockStores.AssertExpectations(t)
	mockRatings.AssertExpectations(t)
}

func TestRatingService_SubmitRatingPublishesEvent(t *testing.T) {
	mockRatings := new(MockRatingRepository)
	mockStores := new(MockStoreRepository)
	mockEvents := new(MockEventPublisher)
	ratingService := services.NewRatingService(mockRatings, mockStores, mockEvents)

	mockStores.On("GetByID", "store-1").Return(&models.Store{ID: "store-1"}, nil).Once()
	mockRatings.On("Upsert", mock.Anything).Return(nil).Once()
	mockEvents.On("Publish", "rating.submitted", mock.Anything).Return(nil).Once()

	err := ratingService.SubmitRating("user-1", "store-1", 5)
	assert.NoError(t, err)
	mockEvents.AssertExpectations(t)
}

func TestRatingService_ListStoresForUser(t *testing.T) {
	mockRatings := new(MockRatingRepository)
	mockStores := new(MockStoreRepository)
	ratingService := services.NewRatingService(mockRatings, mockStores, nil)

	myRating := 4
	mockStores.On("ListWithUserRating", "user-1", "").Return([]models.StoreWithRating{
		{ID: "store-1", Name: "Corner Shop", AvgRating: 4, MyRating: &myRating},
		{ID: "store-2", Name: "Other Shop", AvgRating: 0},
	}, nil).Once()

	stores, err := ratingService.ListStoresForUser("user-1", "")
	assert.NoError(t, err)
	assert.Len(t, stores, 2)

	// Averages render with one decimal; a store without ratings shows "0.0".
	assert.Equal(t, "4.0", stores[0].AvgRatingDisplay)
	assert.Equal(t, 4, *stores[0].MyRating)
	assert.Equal(t, "0.0", stores[1].AvgRatingDisplay)
	assert.Nil(t, stores[1].MyRating)
	mockStores.AssertExpectations(t)
}
