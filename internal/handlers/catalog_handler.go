package handlers

import (
	"laundrypoint/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves the read-only storefront reference data.
type CatalogHandler struct {
	catalogService *services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// RegisterRoutes registers the catalog routes with the Fiber app.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	catalogRoutes := router.Group("/catalog")
	catalogRoutes.Get("/shops", h.HandleGetShops)
	catalogRoutes.Get("/categories", h.HandleGetCategories)
	catalogRoutes.Get("/services", h.HandleGetServices)
}

// HandleGetShops lists all service centers.
func (h *CatalogHandler) HandleGetShops(c *fiber.Ctx) error {
	return c.JSON(h.catalogService.Shops())
}

// HandleGetCategories lists all service categories.
func (h *CatalogHandler) HandleGetCategories(c *fiber.Ctx) error {
	return c.JSON(h.catalogService.Categories())
}

// HandleGetServices lists all orderable services with their prices.
func (h *CatalogHandler) HandleGetServices(c *fiber.Ctx) error {
	return c.JSON(h.catalogService.Services())
}
