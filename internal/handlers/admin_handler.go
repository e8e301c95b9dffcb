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

// AdminHandler handles the admin-only management routes.
type AdminHandler struct {
	userService  *services.UserService
	storeService *services.StoreService
	validate     *validator.Validate
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(userService *services.UserService, storeService *services.StoreService) *AdminHandler {
	return &AdminHandler{
		userService:  userService,
		storeService: storeService,
		validate:     newValidator(),
	}
}

// RegisterRoutes registers the admin routes behind the admin role gate.
func (h *AdminHandler) RegisterRoutes(router fiber.Router, authMW fiber.Handler) {
	adminRoutes := router.Group("/admin", authMW, middleware.Authorize(models.RoleAdmin))
	adminRoutes.Get("/dashboard", h.HandleDashboard)
	adminRoutes.Post("/users", h.HandleCreateUser)
	adminRoutes.Get("/users", h.HandleListUsers)
	adminRoutes.Get("/users/:id", h.HandleUserDetail)
	adminRoutes.Delete("/users/:id", h.HandleDeleteUser)
	adminRoutes.Post("/stores", h.HandleCreateStore)
	adminRoutes.Get("/stores", h.HandleListStores)
}

// HandleDashboard returns the platform totals.
func (h *AdminHandler) HandleDashboard(c *fiber.Ctx) error {
	counts, err := h.userService.Dashboard()
	if err != nil {
		log.Printf("Error loading dashboard counts: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    counts,
	})
}

// CreateUserRequest represents the request body for admin user creation.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=20,max=60"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
	Address  string `json:"address" validate:"omitempty,max=400"`
	Role     string `json:"role" validate:"required"`
}

// HandleCreateUser creates a user with an admin-chosen role.
func (h *AdminHandler) HandleCreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
		Role:     models.Role(req.Role),
	}

	if err := h.userService.CreateUser(&user); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRole):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid role",
			})
		case errors.Is(err, services.ErrEmailTaken):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Email already exists",
			})
		}
		log.Printf("Error creating user: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    user,
	})
}

// HandleListUsers returns a filtered, sorted, paginated user listing.
func (h *AdminHandler) HandleListUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 5)

	result, err := h.userService.ListUsers(
		c.Query("q"),
		c.Query("role"),
		c.Query("sort", "name:asc"),
		page,
		limit,
	)
	if err != nil {
		log.Printf("Error listing users: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error",
		})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"total":      result.Total,
		"page":       result.Page,
		"totalPages": result.TotalPages,
		"data":       result.Users,
	})
}

// HandleUserDetail returns a user with their owned stores and ratings.
func (h *AdminHandler) HandleUserDetail(c *fiber.Ctx) error {
	detail, err := h.userService.GetUserDetail(c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "User not found",
			})
		}
		log.Printf("Error loading user detail: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    detail,
	})
}

// HandleDeleteUser removes a user along with their stores and ratings.
func (h *AdminHandler) HandleDeleteUser(c *fiber.Ctx) error {
	if err := h.userService.DeleteUser(c.Params("id")); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "User not found",
			})
		}
		log.Printf("Error deleting user: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User deleted successfully",
	})
}

// HandleCreateStore creates a store for an existing owner.
func (h *AdminHandler) HandleCreateStore(c *fiber.Ctx) error {
	var store models.Store
	if err := c.BodyParser(&store); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(store); err != nil {
		return validationError(c, err)
	}

	if err := h.storeService.CreateStore(&store); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Owner not found",
			})
		}
		log.Printf("Error creating store: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    store,
	})
}

// HandleListStores returns every store with its average rating.
func (h *AdminHandler) HandleListStores(c *fiber.Ctx) error {
	stores, err := h.storeService.AdminListStores(c.Query("q"), c.Query("sort", "name:asc"))
	if err != nil {
		log.Printf("Error listing stores: %v", err)
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
