package handlers

import (
	"log"

	"laundrio/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles HTTP requests for the payment flow.
type PaymentHandler struct {
	service *services.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		service: service,
	}
}

// RegisterRoutes registers the payment routes with the Fiber app.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router) {
	paymentRoutes := router.Group("/payment")
	paymentRoutes.Post("/create-order", h.HandleCreateOrder)
	paymentRoutes.Post("/verify-payment", h.HandleVerifyPayment)
}

// HandleCreateOrder mints a Razorpay payment intent for an existing order.
func (h *PaymentHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var body struct {
		OrderID string `json:"orderId"`
	}
	if err := c.BodyParser(&body); err != nil {
		log.Printf("Error parsing create-order body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	intent, err := h.service.CreateIntent(c.Context(), identityFromCtx(c), body.OrderID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"razorpayOrder": intent.RazorpayOrder,
		"orderId":       intent.OrderID,
		"amount":        intent.Amount,
		"currency":      intent.Currency,
		"key_id":        intent.KeyID,
	})
}

// HandleVerifyPayment verifies the processor's proof signature and settles
// the order's payment status.
func (h *PaymentHandler) HandleVerifyPayment(c *fiber.Ctx) error {
	var body struct {
		RazorpayOrderID   string `json:"razorpay_order_id"`
		RazorpayPaymentID string `json:"razorpay_payment_id"`
		RazorpaySignature string `json:"razorpay_signature"`
		OrderID           string `json:"orderId"`
	}
	if err := c.BodyParser(&body); err != nil {
		log.Printf("Error parsing verify-payment body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	order, err := h.service.Verify(body.RazorpayOrderID, body.RazorpayPaymentID, body.RazorpaySignature, body.OrderID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Payment verified successfully.",
		"orderId": order.ID,
	})
}
