package services

import (
	"log"
	"math"
	"strings"
	"time"

	"laundrio/internal/apperrors"
	"laundrio/internal/models"
	"laundrio/internal/repositories"
	"laundrio/pkg/rabbitmq"

	"github.com/google/uuid"
)

// OrderService handles order placement (pricing, validation, persistence),
// order reads and the fulfillment-status lifecycle.
type OrderService struct {
	orderRepo repositories.OrderRepository
	catalog   *CatalogService
	mqClient  *rabbitmq.Client
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, catalog *CatalogService, mqClient *rabbitmq.Client) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		catalog:   catalog,
		mqClient:  mqClient,
	}
}

// OrderItemInput is one requested line item. Type is the variant label;
// when absent it falls back to a "-<variant>" suffix on ServiceID, then to
// the default variant.
type OrderItemInput struct {
	ServiceID string `json:"serviceId"`
	Quantity  int    `json:"quantity"`
	Type      string `json:"type"`
}

// PlaceOrderInput is the full order-placement request. Dates are raw
// strings so the temporal validation step owns their parsing.
type PlaceOrderInput struct {
	Services     []OrderItemInput `json:"services"`
	Address      *models.Address  `json:"address"`
	Notes        string           `json:"notes"`
	PickupDate   string           `json:"pickupDate"`
	DeliveryDate string           `json:"deliveryDate"`
}

// round2 rounds to 2 decimal places, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// splitServiceID strips an optional "-<variant>" suffix from a line-item
// service identifier, returning the pure catalog key and the suffix.
func splitServiceID(raw string) (id, suffix string) {
	if i := strings.Index(raw, "-"); i >= 0 && len(raw) > 36 {
		// UUIDs contain dashes themselves; only text past the canonical
		// 36-character form is a variant suffix.
		return raw[:36], strings.TrimPrefix(raw[36:], "-")
	}
	return raw, ""
}

// PlaceOrder validates and prices a requested line-item list against the
// catalog and persists the resulting order. Validation is fail-fast: the
// first violation wins. Unit prices are snapshotted per item and the total
// is rounded to 2 decimals.
func (s *OrderService) PlaceOrder(identity models.Identity, in PlaceOrderInput) (*models.Order, error) {
	if len(in.Services) == 0 || in.Address == nil || in.PickupDate == "" || in.DeliveryDate == "" {
		return nil, apperrors.Validationf("Please provide services, address, pickup date, and delivery date.")
	}

	now := time.Now()
	pickup, pickupErr := time.Parse(time.RFC3339, in.PickupDate)
	delivery, deliveryErr := time.Parse(time.RFC3339, in.DeliveryDate)
	if pickupErr != nil || deliveryErr != nil ||
		!pickup.After(now) || !delivery.After(now) || !delivery.After(pickup) {
		return nil, apperrors.Validationf("Pickup and delivery dates must be valid future dates, and delivery must be after pickup.")
	}

	if identity.ID == "" {
		return nil, apperrors.Unauthorizedf("User authentication failed.")
	}

	if in.Address.Street == "" || in.Address.City == "" || in.Address.State == "" || in.Address.ZipCode == "" {
		return nil, apperrors.Validationf("Address must include street, city, state, and zip code.")
	}
	address := *in.Address
	if address.Country == "" {
		address.Country = models.DefaultCountry
	}

	var totalAmount float64
	items := make([]models.OrderItem, 0, len(in.Services))

	for _, item := range in.Services {
		if item.ServiceID == "" || item.Quantity == 0 {
			return nil, apperrors.Validationf("Each service item must have a serviceId and quantity.")
		}
		if item.Quantity < 1 {
			return nil, apperrors.Validationf("Quantity for service %s must be at least 1.", item.ServiceID)
		}

		serviceID, suffix := splitServiceID(item.ServiceID)
		if _, err := uuid.Parse(serviceID); err != nil {
			return nil, apperrors.Validationf("Invalid service ID format: %s", item.ServiceID)
		}

		variant := item.Type
		if variant == "" {
			variant = suffix
		}
		if variant == "" {
			variant = models.DefaultVariant
		}

		price, err := s.catalog.ResolvePrice(serviceID, variant)
		if err != nil {
			return nil, err
		}

		totalAmount += price * float64(item.Quantity)
		items = append(items, models.OrderItem{
			Service:      serviceID,
			Quantity:     item.Quantity,
			PriceAtOrder: price,
			ItemType:     variant,
		})
	}

	order := &models.Order{
		ID:            uuid.New().String(),
		UserID:        identity.ID,
		Services:      items,
		TotalAmount:   round2(totalAmount),
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentPending,
		PickupDate:    pickup,
		DeliveryDate:  delivery,
		Address:       address,
		Notes:         in.Notes,
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}

	s.publish(rabbitmq.EventOrderCreated, map[string]interface{}{
		"orderID": order.ID,
		"userID":  order.UserID,
		"status":  order.Status,
		"total":   order.TotalAmount,
	})

	return order, nil
}

// GetMyOrders retrieves the caller's orders, most recent first.
func (s *OrderService) GetMyOrders(identity models.Identity) ([]models.Order, error) {
	if identity.ID == "" {
		return nil, apperrors.Unauthorizedf("User authentication failed.")
	}
	return s.orderRepo.GetByUser(identity.ID)
}

// GetAllOrders retrieves every order, most recent first. Admin only.
func (s *OrderService) GetAllOrders(identity models.Identity) ([]models.Order, error) {
	if !identity.IsAdmin() {
		return nil, apperrors.Forbiddenf("Forbidden: admin access required.")
	}
	return s.orderRepo.GetAll()
}

// GetOrderByID retrieves one order. The caller must be an admin or the
// order's owner; anyone else is refused, never silently filtered.
func (s *OrderService) GetOrderByID(identity models.Identity, id string) (*models.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.Validationf("Invalid order ID format.")
	}
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !identity.IsAdmin() && order.UserID != identity.ID {
		return nil, apperrors.Forbiddenf("Forbidden: You are not authorized to view this order.")
	}
	return order, nil
}

// UpdateStatus sets the fulfillment status of an order. The transition set
// is unrestricted: any member of the allowed set may be applied, in any
// direction. Admin only.
func (s *OrderService) UpdateStatus(identity models.Identity, orderID, status string) (*models.Order, error) {
	if !models.IsValidStatus(status) {
		return nil, apperrors.Validationf("Invalid status. Allowed values: %s", strings.Join(models.AllowedStatuses, ", "))
	}
	if !identity.IsAdmin() {
		return nil, apperrors.Forbiddenf("Forbidden: only admins may update order status.")
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}

	order.Status = status
	if err := s.orderRepo.Save(order); err != nil {
		return nil, err
	}

	s.publish(rabbitmq.EventStatusUpdated, map[string]interface{}{
		"orderID": order.ID,
		"status":  order.Status,
	})

	return order, nil
}

// SetDates corrects an order's pickup and delivery dates. Ordering is
// re-validated but, unlike placement, the dates need not be in the future.
// Admin only.
func (s *OrderService) SetDates(identity models.Identity, orderID, pickupDate, deliveryDate string) (*models.Order, error) {
	if !identity.IsAdmin() {
		return nil, apperrors.Forbiddenf("Forbidden: only admins may update order dates.")
	}
	if pickupDate == "" || deliveryDate == "" {
		return nil, apperrors.Validationf("Both pickupDate and deliveryDate are required.")
	}

	pickup, pickupErr := time.Parse(time.RFC3339, pickupDate)
	delivery, deliveryErr := time.Parse(time.RFC3339, deliveryDate)
	if pickupErr != nil || deliveryErr != nil {
		return nil, apperrors.Validationf("Invalid date format. Please use a valid date string (e.g., YYYY-MM-DDTHH:MM:SSZ).")
	}
	if !delivery.After(pickup) {
		return nil, apperrors.Validationf("Delivery date must be after pickup date.")
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}

	order.PickupDate = pickup
	order.DeliveryDate = delivery
	if err := s.orderRepo.Save(order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) publish(event string, data map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	if err := s.mqClient.PublishEvent(event, data); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", event, err)
	}
}
