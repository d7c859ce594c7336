package handlers

import (
	"log"

	"laundrypoint/internal/models"
	"laundrypoint/internal/services"

	"github.com/gofiber/fiber/v2"
)

// LocationHandler handles pickup-location search and the recent cache.
type LocationHandler struct {
	locationService *services.LocationService
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(locationService *services.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

// RegisterRoutes registers the location routes with the Fiber app.
func (h *LocationHandler) RegisterRoutes(router fiber.Router) {
	locationRoutes := router.Group("/locations")
	locationRoutes.Get("/search", h.HandleSearch)
	locationRoutes.Post("/resolve", h.HandleResolve)
	locationRoutes.Get("/recent", h.HandleRecent)
}

// HandleSearch runs one autocomplete query for the typed text. Queries
// shorter than two characters return an empty list without calling out.
func (h *LocationHandler) HandleSearch(c *fiber.Ctx) error {
	query := c.Query("q")
	predictions, err := h.locationService.Predict(c.Context(), query)
	if err != nil {
		log.Printf("Error searching locations for %q: %v", query, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Location search failed",
			"error":   err.Error(),
		})
	}
	if predictions == nil {
		predictions = []models.PlacePrediction{}
	}
	return c.JSON(predictions)
}

// ResolveRequest selects one autocomplete prediction.
type ResolveRequest struct {
	PlaceID string `json:"placeId"`
}

// HandleResolve resolves a prediction into coordinates, records it in the
// recent cache, and returns the pickup selection.
func (h *LocationHandler) HandleResolve(c *fiber.Ctx) error {
	var req ResolveRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing resolve body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.PlaceID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "placeId is required",
		})
	}

	selection, err := h.locationService.SelectPlace(c.Context(), req.PlaceID)
	if err != nil {
		log.Printf("Error resolving place %s: %v", req.PlaceID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Could not resolve place",
			"error":   err.Error(),
		})
	}
	return c.JSON(selection)
}

// HandleRecent returns the recently selected pickup locations, most recent
// first.
func (h *LocationHandler) HandleRecent(c *fiber.Ctx) error {
	locations, err := h.locationService.Recent(c.Context())
	if err != nil {
		log.Printf("Error getting recent locations: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve recent locations",
			"error":   err.Error(),
		})
	}
	if locations == nil {
		locations = []models.SavedLocation{}
	}
	return c.JSON(locations)
}
