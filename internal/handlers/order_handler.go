package handlers

import (
	"log"

	"laundrio/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes with the Fiber app. All routes
// assume the auth middleware has already run; role checks live in the
// service layer.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", h.HandlePlaceOrder)
	// Registered before "/:id" so the literal path wins.
	orderRoutes.Get("/my-orders", h.HandleGetMyOrders)
	orderRoutes.Get("/", h.HandleGetAllOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Put("/:id/status", h.HandleUpdateStatus)
	orderRoutes.Put("/:id/dates", h.HandleSetDates)
}

// HandlePlaceOrder places a new laundry order for the authenticated user.
func (h *OrderHandler) HandlePlaceOrder(c *fiber.Ctx) error {
	var input services.PlaceOrderInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	order, err := h.service.PlaceOrder(identityFromCtx(c), input)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Order placed successfully.",
		"order":   order,
	})
}

// HandleGetMyOrders lists the authenticated user's orders, most recent first.
func (h *OrderHandler) HandleGetMyOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetMyOrders(identityFromCtx(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// HandleGetAllOrders lists every order in the system. Admin only.
func (h *OrderHandler) HandleGetAllOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetAllOrders(identityFromCtx(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order for its owner or an admin.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrderByID(identityFromCtx(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// HandleUpdateStatus sets the fulfillment status of an order. Admin only.
func (h *OrderHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		log.Printf("Error parsing status update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	order, err := h.service.UpdateStatus(identityFromCtx(c), c.Params("id"), body.Status)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Order status updated successfully.",
		"order":   order,
	})
}

// HandleSetDates corrects the pickup and delivery dates of an order.
// Admin only.
func (h *OrderHandler) HandleSetDates(c *fiber.Ctx) error {
	var body struct {
		PickupDate   string `json:"pickupDate"`
		DeliveryDate string `json:"deliveryDate"`
	}
	if err := c.BodyParser(&body); err != nil {
		log.Printf("Error parsing dates update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	order, err := h.service.SetDates(identityFromCtx(c), c.Params("id"), body.PickupDate, body.DeliveryDate)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Order pickup and delivery dates updated successfully.",
		"order":   order,
	})
}
