package handlers

import (
	"errors"
	"fmt"
	"log"

	"laundrypoint/internal/models"
	"laundrypoint/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AddressHandler handles saved delivery addresses and the editable profile.
type AddressHandler struct {
	addresses repositories.AddressRepository
	profiles  repositories.ProfileRepository
	validate  *validator.Validate
}

// NewAddressHandler creates a new AddressHandler.
func NewAddressHandler(addresses repositories.AddressRepository, profiles repositories.ProfileRepository) *AddressHandler {
	return &AddressHandler{
		addresses: addresses,
		profiles:  profiles,
		validate:  validator.New(),
	}
}

// RegisterRoutes registers the address and profile routes with the Fiber app.
func (h *AddressHandler) RegisterRoutes(router fiber.Router) {
	addressRoutes := router.Group("/addresses")
	addressRoutes.Get("/", h.HandleListAddresses)
	addressRoutes.Post("/", h.HandleCreateAddress)
	addressRoutes.Delete("/:id", h.HandleDeleteAddress)
	addressRoutes.Put("/:id/default", h.HandleSetDefaultAddress)

	router.Get("/profile", h.HandleGetProfile)
	router.Put("/profile", h.HandleSaveProfile)
}

// HandleListAddresses returns all saved addresses.
func (h *AddressHandler) HandleListAddresses(c *fiber.Ctx) error {
	addresses, err := h.addresses.List(c.Context())
	if err != nil {
		log.Printf("Error listing addresses: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve addresses",
			"error":   err.Error(),
		})
	}
	if addresses == nil {
		addresses = []models.Address{}
	}
	return c.JSON(addresses)
}

// HandleCreateAddress saves a new delivery address.
func (h *AddressHandler) HandleCreateAddress(c *fiber.Ctx) error {
	var address models.Address
	if err := c.BodyParser(&address); err != nil {
		log.Printf("Error parsing address body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(address); err != nil {
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

	if err := h.addresses.Create(c.Context(), &address); err != nil {
		log.Printf("Error creating address: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not save address",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(address)
}

// HandleDeleteAddress removes a saved address.
func (h *AddressHandler) HandleDeleteAddress(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.addresses.Delete(c.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrAddressNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Address with ID %s not found", id),
			})
		}
		log.Printf("Error deleting address %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete address",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Address deleted"})
}

// HandleSetDefaultAddress marks one address as the default.
func (h *AddressHandler) HandleSetDefaultAddress(c *fiber.Ctx) error {
	id := c.Params("id")
	address, err := h.addresses.SetDefault(c.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrAddressNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Address with ID %s not found", id),
			})
		}
		log.Printf("Error setting default address %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not set default address",
			"error":   err.Error(),
		})
	}
	return c.JSON(address)
}

// HandleGetProfile returns the saved profile, or an empty object when none
// has been saved yet.
func (h *AddressHandler) HandleGetProfile(c *fiber.Ctx) error {
	profile, err := h.profiles.Get(c.Context())
	if err != nil {
		log.Printf("Error getting profile: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve profile",
			"error":   err.Error(),
		})
	}
	if profile == nil {
		profile = &models.Profile{}
	}
	return c.JSON(profile)
}

// HandleSaveProfile overwrites the profile blob.
func (h *AddressHandler) HandleSaveProfile(c *fiber.Ctx) error {
	var profile models.Profile
	if err := c.BodyParser(&profile); err != nil {
		log.Printf("Error parsing profile body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.profiles.Save(c.Context(), &profile); err != nil {
		log.Printf("Error saving profile: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not save profile",
			"error":   err.Error(),
		})
	}
	return c.JSON(profile)
}
