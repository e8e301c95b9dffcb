package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"nilai/internal/models"
	"nilai/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// bcryptCost is the fixed work factor for password hashing.
const bcryptCost = 12

// EventPublisher pushes domain events onto the message broker. A nil
// publisher disables event publication.
type EventPublisher interface {
	Publish(eventType string, body []byte) error
}

// TokenClaims is the identity a verified token asserts.
type TokenClaims struct {
	UserID string
	Role   models.Role
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	events    EventPublisher
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, events EventPublisher) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		events:    events,
	}
}

// Signup registers a new user with role "user", hashes their password,
// and returns a signed token for the fresh account.
func (s *AuthService) Signup(user *models.User) (string, error) {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.Name = strings.TrimSpace(user.Name)

	if existing, err := s.userRepo.GetByEmail(user.Email); err == nil && existing != nil {
		return "", ErrEmailTaken
	}

	if err := s.HashUserPassword(user); err != nil {
		return "", err
	}
	user.Role = models.RoleUser

	if err := s.userRepo.Create(user); err != nil {
		return "", fmt.Errorf("failed to register user: %w", err)
	}

	s.publishEvent("user.registered", map[string]interface{}{
		"userID": user.ID,
		"email":  user.Email,
		"role":   user.Role,
	})

	return s.GenerateToken(user)
}

// Login authenticates a user and returns a signed token. Unknown emails
// and wrong passwords yield the same error so the response does not
// reveal which one failed.
func (s *AuthService) Login(email, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ChangePassword replaces a user's password after verifying the old one.
// The new password arrives already validated at the boundary.
func (s *AuthService) ChangePassword(userID, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return ErrWrongOldPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(userID, string(hashed)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// HashUserPassword replaces the user's plaintext password with its
// bcrypt hash. Hashing is an explicit call on the write path, never an
// implicit persistence hook.
func (s *AuthService) HashUserPassword(user *models.User) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)
	return nil
}

// GenerateToken mints a signed token carrying the user's id and role.
// No expiry claim is set; issued tokens stay valid until the signing
// secret changes.
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   user.ID,
		"role": string(user.Role),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and verifies a token, returning the identity it
// asserts. Any malformed, tampered, or wrongly-signed token fails with
// ErrInvalidToken.
func (s *AuthService) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, _ := claims["id"].(string)
	roleStr, _ := claims["role"].(string)
	role := models.Role(roleStr)
	if userID == "" || !role.Valid() {
		return nil, ErrInvalidToken
	}

	return &TokenClaims{UserID: userID, Role: role}, nil
}

// publishEvent marshals and publishes a domain event, logging instead of
// failing the request when the broker is unavailable.
func (s *AuthService) publishEvent(eventType string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", eventType, err)
		return
	}
	if err := s.events.Publish(eventType, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", eventType, err)
	}
}
