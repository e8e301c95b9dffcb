package services_test

import (
	"fmt"
	"log"
	"os"
	"testing"

	"nilai/internal/models"
	"nilai/internal/repositories"
	"nilai/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(id, hashedPassword string) error {
	args := m.Called(id, hashedPassword)
	return args.Error(0)
}

func (m *MockUserRepository) List(filter repositories.UserFilter) ([]models.User, int64, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of services.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(eventType string, body []byte) error {
	args := m.Called(eventType, body)
	return args.Error(0)
}

// TestMain is used to setup the test environment
func TestMain(m *testing.M) {
	log.SetOutput(os.Stdout)
	code := m.Run()
	os.Exit(code)
}

func TestAuthService_Signup(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockEvents := new(MockEventPublisher)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret", mockEvents)

	user := &models.User{
		Name:     "A Customer With A Long Name",
		Email:    "Test@Example.com",
		Password: "Abcdefg1!",
		Address:  "x",
	}

	// Successful signup: the stored password must be a verifiable hash,
	// never the plaintext, and the role must be forced to "user".
	mockRepo.On("GetByEmail", "test@example.com").Return(nil, nil).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()
	mockEvents.On("Publish", "user.registered", mock.Anything).Return(nil).Once()

	token, err := authService.Signup(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Equal(t, "test@example.com", user.Email)
	assert.NotEqual(t, "Abcdefg1!", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("Abcdefg1!")))
	mockRepo.AssertExpectations(t)
	mockEvents.AssertExpectations(t)

	// Duplicate email
	mockRepo.On("GetByEmail", "test@example.com").Return(&models.User{ID: "existing"}, nil).Once()
	_, err = authService.Signup(&models.User{
		Name:     "A Customer With A Long Name",
		Email:    "test@example.com",
		Password: "Abcdefg1!",
	})
	assert.ErrorIs(t, err, services.ErrEmailTaken)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	mockRepo := new(MockUserRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, testJWTSecret, nil)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("Abcdefg1!"), 12)
	user := &models.User{
		ID:       "user-123",
		Name:     "A Customer With A Long Name",
		Email:    "test@example.com",
		Password: string(hashedPassword),
		Role:     models.RoleUser,
	}

	// Successful login
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	token, loggedIn, err := authService.Login("test@example.com", "Abcdefg1!")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, models.RoleUser, loggedIn.Role)

	// The token must carry the id and role claims and no expiry claim.
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	assert.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, user.ID, claims["id"])
	assert.Equal(t, "user", claims["role"])
	assert.Nil(t, claims["exp"])
	mockRepo.AssertExpectations(t)

	// Wrong password: the same generic error as an unknown email.
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	_, _, err = authService.Login("test@example.com", "wrongpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)

	// Unknown email
	mockRepo.On("GetByEmail", "nobody@example.com").Return(nil, fmt.Errorf("failed to get user by email: %w", gorm.ErrRecordNotFound)).Once()
	_, _, err = authService.Login("nobody@example.com", "Abcdefg1!")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ChangePassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret", nil)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("OldPass1!"), 12)
	user := &models.User{ID: "user-123", Password: string(hashedPassword)}

	// Wrong old password
	mockRepo.On("GetByID", "user-123").Return(user, nil).Once()
	err := authService.ChangePassword("user-123", "NotTheOldOne1!", "NewPass1!")
	assert.ErrorIs(t, err, services.ErrWrongOldPassword)
	mockRepo.AssertExpectations(t)

	// Successful change stores a hash of the new password.
	mockRepo.On("GetByID", "user-123").Return(user, nil).Once()
	mockRepo.On("UpdatePassword", "user-123", mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("NewPass1!")) == nil
	})).Return(nil).Once()
	err = authService.ChangePassword("user-123", "OldPass1!", "NewPass1!")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Unknown user
	mockRepo.On("GetByID", "missing").Return(nil, fmt.Errorf("failed to load: %w", gorm.ErrRecordNotFound)).Once()
	err = authService.ChangePassword("missing", "OldPass1!", "NewPass1!")
	assert.ErrorIs(t, err, services.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := services.NewAuthService(nil, "test_jwt_secret", nil)

	// Valid token round-trip
	token, err := authService.GenerateToken(&models.User{ID: "user-123", Role: models.RoleStoreOwner})
	assert.NoError(t, err)

	claims, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, models.RoleStoreOwner, claims.Role)

	// Malformed token
	_, err = authService.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Token signed with a different secret
	otherService := services.NewAuthService(nil, "another_secret", nil)
	foreignToken, err := otherService.GenerateToken(&models.User{ID: "user-123", Role: models.RoleUser})
	assert.NoError(t, err)
	_, err = authService.ValidateToken(foreignToken)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Token with an unknown role claim
	badRole := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   "user-123",
		"role": "superuser",
	})
	badRoleString, _ := badRole.SignedString([]byte("test_jwt_secret"))
	_, err = authService.ValidateToken(badRoleString)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}
