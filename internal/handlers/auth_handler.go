package handlers

import (
	"errors"
	"fmt"
	"log"

	"laundrypoint/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for sign-up, sign-in, and sign-out.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/signup", h.HandleSignUp)
	authRoutes.Post("/signin", h.HandleSignIn)
	authRoutes.Post("/signout", h.HandleSignOut)
}

// HandleSignUp registers a new account and signs it in.
func (h *AuthHandler) HandleSignUp(c *fiber.Ctx) error {
	var req services.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing sign-up request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	user, err := h.authService.SignUp(c.Context(), req)
	if err != nil {
		log.Printf("Error signing up user: %v", err)
		if errors.Is(err, services.ErrEmailExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Sign-up failed",
				"error":   err.Error(),
			})
		}
		if errors.Is(err, services.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Sign-up failed",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not sign up",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Account created",
		"user":    user,
	})
}

// SignInRequest represents the request body for sign-in.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleSignIn authenticates a user and issues a session token.
func (h *AuthHandler) HandleSignIn(c *fiber.Ctx) error {
	var req SignInRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing sign-in request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	user, token, err := h.authService.SignIn(c.Context(), req.Email, req.Password)
	if err != nil {
		log.Printf("Error during sign-in for %s: %v", req.Email, err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication failed",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Signed in",
		"token":   token,
		"user":    user,
	})
}

// HandleSignOut clears the persisted session.
func (h *AuthHandler) HandleSignOut(c *fiber.Ctx) error {
	if err := h.authService.SignOut(c.Context()); err != nil {
		log.Printf("Error during sign-out: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not sign out",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Signed out"})
}
