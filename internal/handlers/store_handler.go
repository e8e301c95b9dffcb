package handlers

import (
	"errors"
	"log"

	"nilai/internal/middleware"
	"nilai/internal/models"
	"nilai/internal/services"

	"github.com/gofiber/fiber/v2"
)

// StoreHandler handles the store-owner routes.
type StoreHandler struct {
	storeService *services.StoreService
}

// NewStoreHandler creates a new StoreHandler.
func NewStoreHandler(storeService *services.StoreService) *StoreHandler {
	return &StoreHandler{
		storeService: storeService,
	}
}

// RegisterRoutes registers the store-owner routes behind the
// store_owner role gate.
func (h *StoreHandler) RegisterRoutes(router fiber.Router, authMW fiber.Handler) {
	storeRoutes := router.Group("/store", authMW, middleware.Authorize(models.RoleStoreOwner))
	storeRoutes.Get("/dashboard", h.HandleDashboard)
}

// HandleDashboard returns the owner's store ratings and average. The
// response is not wrapped in the success envelope; clients of this
// endpoint consume the bare shape.
func (h *StoreHandler) HandleDashboard(c *fiber.Ctx) error {
	dashboard, err := h.storeService.GetOwnerDashboard(middleware.UserID(c), c.Query("sort", "date:desc"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Store not found",
			})
		}
		log.Printf("Error loading owner dashboard: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Server error",
		})
	}

	return c.JSON(dashboard)
}
