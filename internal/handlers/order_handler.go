package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"laundrypoint/internal/middleware"
	"laundrypoint/internal/models"
	"laundrypoint/internal/repositories"
	"laundrypoint/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	orderService   *services.OrderService
	catalogService *services.CatalogService
	authService    *services.AuthService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *services.OrderService, catalogService *services.CatalogService, authService *services.AuthService) *OrderHandler {
	return &OrderHandler{
		orderService:   orderService,
		catalogService: catalogService,
		authService:    authService,
	}
}

// RegisterRoutes registers the order routes with the Fiber app. Creation
// stays outside the auth gate so an unauthenticated confirm can answer
// with a sign-in prompt instead of a bare rejection.
func (h *OrderHandler) RegisterRoutes(public fiber.Router, protected fiber.Router) {
	public.Post("/orders", h.HandleCreateOrder)

	orderRoutes := protected.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Get("/:id/tracking", h.HandleGetTracking)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
	orderRoutes.Post("/:id/cancel", h.HandleCancelOrder)
}

// MediaPayload is the item-evidence part of an order request.
type MediaPayload struct {
	UploadType string   `json:"uploadType"`
	Images     []string `json:"images"`
	VideoURI   string   `json:"videoUri"`
}

// OrderItemRequest selects one catalog service and a quantity. Prices are
// snapshotted server-side from the catalog, never taken from the client.
type OrderItemRequest struct {
	ServiceID string `json:"serviceId"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderRequest is the confirm-order payload.
type CreateOrderRequest struct {
	Items           []OrderItemRequest       `json:"items"`
	Delivery        services.DeliveryDetails `json:"delivery"`
	Pickup          models.PickupSelection   `json:"pickup"`
	Media           MediaPayload             `json:"media"`
	ServiceID       string                   `json:"serviceId"`
	ServiceCenterID string                   `json:"serviceCenterId"`
}

// HandleCreateOrder validates and places a new order.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	// Rebuild the cart from catalog prices so the stored snapshot and the
	// total can never come from a stale or tampered client value.
	cart := services.NewCart()
	for _, item := range req.Items {
		service, err := h.catalogService.FindService(item.ServiceID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": fmt.Sprintf("Unknown service %s", item.ServiceID),
			})
		}
		cart.SetQuantity(*service, item.Quantity)
	}

	var media models.MediaEvidence
	switch models.UploadType(req.Media.UploadType) {
	case models.UploadImages:
		media.SelectImages()
		for _, uri := range req.Media.Images {
			media.AddImage(uri)
		}
	case models.UploadVideo:
		media.SelectVideo()
		media.SetVideo(req.Media.VideoURI)
	}

	var serviceCenter *models.Shop
	if req.ServiceCenterID != "" {
		shop, err := h.catalogService.FindShop(req.ServiceCenterID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": fmt.Sprintf("Unknown service center %s", req.ServiceCenterID),
			})
		}
		serviceCenter = shop
	}

	var selectedService *models.Service
	if req.ServiceID != "" {
		if service, err := h.catalogService.FindService(req.ServiceID); err == nil {
			selectedService = service
		}
	}

	order, err := h.orderService.PlaceOrder(c.Context(), services.ComposeRequest{
		Items:         cart.Lines(),
		Delivery:      req.Delivery,
		Pickup:        req.Pickup,
		Media:         media,
		Service:       selectedService,
		ServiceCenter: serviceCenter,
		User:          h.requestUser(c),
	})
	if err != nil {
		return h.composeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

// composeError maps each validation kind to its corrective prompt.
func (h *OrderHandler) composeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Please sign in or create an account to place an order.",
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrMissingServiceCenter),
		errors.Is(err, services.ErrIncompleteDeliveryDetails),
		errors.Is(err, services.ErrMissingPickupLocation),
		errors.Is(err, services.ErrMissingMedia),
		errors.Is(err, services.ErrEmptyMediaPayload):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": composePrompt(err),
			"error":   err.Error(),
		})
	default:
		log.Printf("Error creating order: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create order",
			"error":   err.Error(),
		})
	}
}

func composePrompt(err error) string {
	switch {
	case errors.Is(err, services.ErrEmptyCart):
		return "Please add at least one item to your cart."
	case errors.Is(err, services.ErrMissingServiceCenter):
		return "Please select a service center."
	case errors.Is(err, services.ErrIncompleteDeliveryDetails):
		return "Please fill all delivery details (Name, Mobile, Address)."
	case errors.Is(err, services.ErrMissingPickupLocation):
		return "Please select a pickup address."
	case errors.Is(err, services.ErrMissingMedia):
		return "Please upload images or a video of your items."
	case errors.Is(err, services.ErrEmptyMediaPayload):
		return "Please add at least one image or record a video of your items."
	default:
		return "Could not create order."
	}
}

// requestUser resolves the signed-in user for this request, or nil.
func (h *OrderHandler) requestUser(c *fiber.Ctx) *models.User {
	authHeader := c.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil
	}
	claims, err := h.authService.ValidateToken(parts[1])
	if err != nil {
		return nil
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return nil
	}
	email, _ := claims["email"].(string)
	return &models.User{ID: userID, Email: email}
}

// HandleGetOrders retrieves the signed-in user's orders, newest first.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Sign in to view your orders",
		})
	}
	orders, err := h.orderService.GetOrdersForUser(c.Context(), principal.UserID)
	if err != nil {
		log.Printf("Error getting orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.orderService.GetOrderByID(c.Context(), orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Order with ID %s not found", orderID),
			})
		}
		log.Printf("Error getting order %s: %v", orderID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve order",
			"error":   err.Error(),
		})
	}
	return c.JSON(order)
}

// HandleGetTracking returns the linear progress view for an order.
func (h *OrderHandler) HandleGetTracking(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.orderService.GetOrderByID(c.Context(), orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Order with ID %s not found", orderID),
			})
		}
		log.Printf("Error getting order %s: %v", orderID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve order",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"status": order.Status,
		"steps":  order.TrackingSteps(),
	})
}

// HandleUpdateOrderStatus applies an operator-driven status transition.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var updateData struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		log.Printf("Error parsing status update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}
	if updateData.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required for order status update.",
		})
	}

	order, err := h.orderService.UpdateOrderStatus(c.Context(), orderID, updateData.Status)
	if err != nil {
		return h.transitionError(c, orderID, err)
	}
	return c.JSON(order)
}

// HandleCancelOrder moves an order to the terminal Cancelled state.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.orderService.CancelOrder(c.Context(), orderID)
	if err != nil {
		return h.transitionError(c, orderID, err)
	}
	return c.JSON(order)
}

func (h *OrderHandler) transitionError(c *fiber.Ctx, orderID string, err error) error {
	switch {
	case errors.Is(err, repositories.ErrOrderNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Order with ID %s not found", orderID),
		})
	case errors.Is(err, services.ErrIllegalStatusTransition), errors.Is(err, services.ErrUnknownStatus):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Order status transition rejected",
			"error":   err.Error(),
		})
	default:
		log.Printf("Error updating order %s: %v", orderID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update order",
			"error":   err.Error(),
		})
	}
}
