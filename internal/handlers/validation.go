package handlers

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const passwordSpecials = "!@#$%^&*"

// newValidator builds the request validator with the platform's custom
// password rule registered.
func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails for a blank tag name.
	_ = v.RegisterValidation("password", validPassword)
	return v
}

// validPassword enforces the password policy: 8-16 characters with at
// least one uppercase letter and one of !@#$%^&*.
func validPassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < 8 || len(password) > 16 {
		return false
	}

	var hasUpper, hasSpecial bool
	for _, ch := range password {
		switch {
		case ch >= 'A' && ch <= 'Z':
			hasUpper = true
		case strings.ContainsRune(passwordSpecials, ch):
			hasSpecial = true
		}
	}
	return hasUpper && hasSpecial
}

// validationError converts validator failures into a 400 response with
// per-field messages.
func validationError(c *fiber.Ctx, err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
		})
	}

	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fieldMessage(e)
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "email":
		return "Invalid email format"
	case "password":
		return "Password must be 8-16 chars, include uppercase & special character"
	case "eqfield":
		return "Passwords do not match"
	case "min", "max":
		return fmt.Sprintf("%s length is out of range", e.Field())
	default:
		return fmt.Sprintf("Field '%s' failed on the '%s' rule", e.Field(), e.Tag())
	}
}
