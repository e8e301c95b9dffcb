package handlers

import (
	"errors"
	"log"

	"nilai/internal/middleware"
	"nilai/internal/models"
	"nilai/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles the routes available to accounts with role "user".
type UserHandler struct {
	ratingService *services.RatingService
	authService   *services.AuthService
	validate      *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(ratingService *services.RatingService, authService *services.AuthService) *UserHandler {
	return &UserHandler{
		ratingService: ratingService,
		authService:   authService,
		validate:      newValidator(),
	}
}

// RegisterRoutes registers the user routes behind the user role gate.
func (h *UserHandler) RegisterRoutes(router fiber.Router, authMW fiber.Handler) {
	userRoutes := router.Group("/user", authMW, middleware.Authorize(models.RoleUser))
	userRoutes.Get("/stores", h.HandleListStores)
	userRoutes.Post("/rate/:id", h.HandleRateStore)
	userRoutes.Put("/change-password", h.HandleChangePassword)
}

// HandleListStores lists all stores with each store's average rating and
// the caller's own rating.
func (h *UserHandler) HandleListStores(c *fiber.Ctx) error {
	stores, err := h.ratingService.ListStoresForUser(middleware.UserID(c), c.Query("q"))
	if err != nil {
		log.Printf("Error listing stores for user: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    stores,
	})
}

// RateRequest represents the request body for submitting a rating.
type RateRequest struct {
	Rating int `json:"rating"`
}

// HandleRateStore submits or overwrites the caller's rating for a store.
func (h *UserHandler) HandleRateStore(c *fiber.Ctx) error {
	var req RateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	err := h.ratingService.SubmitRating(middleware.UserID(c), c.Params("id"), req.Rating)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRating):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Rating must be between 1 and 5",
			})
		case errors.Is(err, services.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Store not found",
			})
		}
		log.Printf("Error submitting rating: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Rating submitted successfully",
	})
}

// HandleChangePassword changes the caller's password.
func (h *UserHandler) HandleChangePassword(c *fiber.Ctx) error {
	return changePassword(c, h.validate, h.authService)
}
