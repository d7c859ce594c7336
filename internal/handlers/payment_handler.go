package handlers

import (
	"errors"
	"fmt"
	"log"

	"laundrypoint/internal/repositories"
	"laundrypoint/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles HTTP requests for the two payment paths.
type PaymentHandler struct {
	paymentService *services.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RegisterRoutes registers the payment routes with the Fiber app.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/orders/:id/checkout", h.HandleStartCheckout)
	router.Post("/orders/:id/checkout/result", h.HandleCheckoutResult)
	router.Get("/orders/:id/wallet-link", h.HandleWalletLink)
}

// HandleStartCheckout opens an embedded checkout session for an order.
func (h *PaymentHandler) HandleStartCheckout(c *fiber.Ctx) error {
	orderID := c.Params("id")
	session, err := h.paymentService.StartCheckout(c.Context(), orderID)
	if err != nil {
		return h.paymentError(c, orderID, err)
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

// CheckoutResultRequest is the message posted back by the embedded
// checkout surface.
type CheckoutResultRequest struct {
	Type              string `json:"type"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	Reason            string `json:"reason"`
}

// HandleCheckoutResult applies a checkout outcome to its order.
func (h *PaymentHandler) HandleCheckoutResult(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var req CheckoutResultRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing checkout result body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	outcome, err := h.paymentService.HandleCheckoutResult(c.Context(), orderID, services.CheckoutResult{
		Type:      req.Type,
		PaymentID: req.RazorpayPaymentID,
		Reason:    req.Reason,
	})
	if err != nil {
		if errors.Is(err, services.ErrUnknownResult) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Unrecognized checkout result",
				"error":   err.Error(),
			})
		}
		return h.paymentError(c, orderID, err)
	}
	return c.JSON(outcome)
}

// HandleWalletLink builds the UPI deep link for the wallet hand-off. The
// order is not marked paid; the response says so explicitly.
func (h *PaymentHandler) HandleWalletLink(c *fiber.Ctx) error {
	orderID := c.Params("id")
	outcome, link, err := h.paymentService.BuildWalletLink(c.Context(), orderID)
	if err != nil {
		return h.paymentError(c, orderID, err)
	}
	return c.JSON(fiber.Map{
		"link":    link,
		"outcome": outcome,
	})
}

func (h *PaymentHandler) paymentError(c *fiber.Ctx, orderID string, err error) error {
	switch {
	case errors.Is(err, repositories.ErrOrderNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Order with ID %s not found", orderID),
		})
	case errors.Is(err, services.ErrOrderAlreadyPaid):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Order is already paid",
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrPaymentInProgress):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "A checkout is already in progress for this order",
			"error":   err.Error(),
		})
	default:
		log.Printf("Payment error for order %s: %v", orderID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Payment operation failed",
			"error":   err.Error(),
		})
	}
}
