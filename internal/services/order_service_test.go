package services_test

import (
	"net/http"
	"testing"
	"time"

	"laundrio/internal/apperrors"
	"laundrio/internal/models"
	"laundrio/internal/repositories"
	"laundrio/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	owner    = models.Identity{ID: "user-1", Role: models.RoleUser}
	stranger = models.Identity{ID: "user-2", Role: models.RoleUser}
	admin    = models.Identity{ID: "admin-1", Role: models.RoleAdmin}
)

// newOrderFixture wires an order service over in-memory repositories with
// one active catalog service and returns the pieces tests poke at.
func newOrderFixture(t *testing.T) (*services.OrderService, *repositories.MockOrderRepository, *repositories.MockServiceRepository, *models.Service) {
	t.Helper()

	serviceRepo := repositories.NewMockServiceRepository()
	laundry := &models.Service{
		Name:     "Everyday Laundry",
		IsActive: true,
		Prices: map[string]float64{
			"Wash & Fold": 3.99,
			"Dry Clean":   8.99,
		},
	}
	require.NoError(t, serviceRepo.Create(laundry))

	orderRepo := repositories.NewMockOrderRepository()
	orderService := services.NewOrderService(orderRepo, services.NewCatalogService(serviceRepo), nil)
	return orderService, orderRepo, serviceRepo, laundry
}

func futureDates() (string, string) {
	pickup := time.Now().Add(24 * time.Hour).Format(time.RFC3339)
	delivery := time.Now().Add(48 * time.Hour).Format(time.RFC3339)
	return pickup, delivery
}

func validInput(serviceID string) services.PlaceOrderInput {
	pickup, delivery := futureDates()
	return services.PlaceOrderInput{
		Services: []services.OrderItemInput{
			{ServiceID: serviceID, Quantity: 2, Type: "Wash & Fold"},
		},
		Address: &models.Address{
			Street:  "12 MG Road",
			City:    "Bengaluru",
			State:   "Karnataka",
			ZipCode: "560001",
		},
		PickupDate:   pickup,
		DeliveryDate: delivery,
	}
}

func TestOrderService_PlaceOrder(t *testing.T) {
	orderService, orderRepo, _, laundry := newOrderFixture(t)

	order, err := orderService.PlaceOrder(owner, validInput(laundry.ID))
	require.NoError(t, err)

	// 2 x 3.99 = 7.98, rounded to 2 decimals
	assert.Equal(t, 7.98, order.TotalAmount)
	assert.Equal(t, owner.ID, order.UserID)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.NotEmpty(t, order.ID)
	assert.False(t, order.CreatedAt.IsZero())
	assert.Equal(t, models.DefaultCountry, order.Address.Country)

	require.Len(t, order.Services, 1)
	assert.Equal(t, laundry.ID, order.Services[0].Service)
	assert.Equal(t, 3.99, order.Services[0].PriceAtOrder)
	assert.Equal(t, "Wash & Fold", order.Services[0].ItemType)

	persisted, err := orderRepo.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.TotalAmount, persisted.TotalAmount)
}

func TestOrderService_PlaceOrder_TotalAcrossItems(t *testing.T) {
	orderService, _, _, laundry := newOrderFixture(t)

	in := validInput(laundry.ID)
	in.Services = append(in.Services, services.OrderItemInput{
		ServiceID: laundry.ID, Quantity: 3, Type: "Dry Clean",
	})

	order, err := orderService.PlaceOrder(owner, in)
	require.NoError(t, err)
	// 2*3.99 + 3*8.99 = 34.95
	assert.Equal(t, 34.95, order.TotalAmount)
}

func TestOrderService_PlaceOrder_MissingFields(t *testing.T) {
	orderService, orderRepo, _, laundry := newOrderFixture(t)

	cases := map[string]func(*services.PlaceOrderInput){
		"no services":      func(in *services.PlaceOrderInput) { in.Services = nil },
		"no address":       func(in *services.PlaceOrderInput) { in.Address = nil },
		"no pickup date":   func(in *services.PlaceOrderInput) { in.PickupDate = "" },
		"no delivery date": func(in *services.PlaceOrderInput) { in.DeliveryDate = "" },
	}

	for name, mutate := range cases {
		in := validInput(laundry.ID)
		mutate(&in)
		_, err := orderService.PlaceOrder(owner, in)
		assert.Error(t, err, name)
		assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err), name)
	}

	orders, _ := orderRepo.GetAll()
	assert.Empty(t, orders, "no order may be created on validation failure")
}

func TestOrderService_PlaceOrder_DateValidation(t *testing.T) {
	orderService, orderRepo, _, laundry := newOrderFixture(t)

	past := time.Now().Add(-24 * time.Hour).Format(time.RFC3339)
	pickup, delivery := futureDates()

	// Pickup in the past
	in := validInput(laundry.ID)
	in.PickupDate = past
	_, err := orderService.PlaceOrder(owner, in)
	assert.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))

	// Delivery not after pickup
	in = validInput(laundry.ID)
	in.PickupDate = delivery
	in.DeliveryDate = pickup
	_, err = orderService.PlaceOrder(owner, in)
	assert.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))

	// Unparseable date
	in = validInput(laundry.ID)
	in.DeliveryDate = "next tuesday"
	_, err = orderService.PlaceOrder(owner, in)
	assert.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))

	orders, _ := orderRepo.GetAll()
	assert.Empty(t, orders)
}

func TestOrderService_PlaceOrder_Unauthenticated(t *testing.T) {
	orderService, _, _, laundry := newOrderFixture(t)

	_, err := orderService.PlaceOrder(models.Identity{}, validInput(laundry.ID))
	assert.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperrors.StatusCode(err))
}

func TestOrderService_PlaceOrder_LineItemValidation(t *testing.T) {
	orderService, _, _, laundry := newOrderFixture(t)

	// Zero quantity is rejected, not clamped
	in := validInput(laundry.ID)
	in.Services[0].Quantity = 0
	_, err := orderService.PlaceOrder(owner, in)
	assert.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))

	// Negative quantity likewise
	in = validInput(laundry.ID)
	in.Services[0].Quantity = -3
	_, err = orderService.PlaceOrder(owner, in)
	assert.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))

	// Malformed service identifier
	in = validInput(laundry.ID)
	in.Services[0].ServiceID = "not-a-valid-id"
	_, err = orderService.PlaceOrder(owner, in)
	assert.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))
	assert.Contains(t, err.Error(), "not-a-valid-id")
}

func TestOrderService_PlaceOrder_UnknownAndInactiveService(t *testing.T) {
	orderService, _, serviceRepo, laundry := newOrderFixture(t)

	// Unknown but well-formed service ID
	in := validInput("4fa85f64-5717-4562-b3fc-2c963f66afa6")
	_, err := orderService.PlaceOrder(owner, in)
	assert.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperrors.StatusCode(err))

	// Deactivated service
	laundry.IsActive = false
	require.NoError(t, serviceRepo.Update(laundry))
	_, err = orderService.PlaceOrder(owner, validInput(laundry.ID))
	assert.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperrors.StatusCode(err))
}

func TestOrderService_PlaceOrder_VariantDefaulting(t *testing.T) {
	orderService, _, _, laundry := newOrderFixture(t)

	// No type at all falls back to Wash & Fold
	in := validInput(laundry.ID)
	in.Services[0].Type = ""
	order, err := orderService.PlaceOrder(owner, in)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultVariant, order.Services[0].ItemType)
	assert.Equal(t, 3.99, order.Services[0].PriceAtOrder)

	// A "-<variant>" suffix on the identifier supplies the variant when
	// the type field is absent
	in = validInput(laundry.ID)
	in.Services[0].ServiceID = laundry.ID + "-Dry Clean"
	in.Services[0].Type = ""
	order, err = orderService.PlaceOrder(owner, in)
	require.NoError(t, err)
	assert.Equal(t, "Dry Clean", order.Services[0].ItemType)
	assert.Equal(t, 8.99, order.Services[0].PriceAtOrder)
	assert.Equal(t, laundry.ID, order.Services[0].Service)
}

func TestOrderService_PlaceOrder_SnapshotImmutability(t *testing.T) {
	orderService, orderRepo, serviceRepo, laundry := newOrderFixture(t)

	order, err := orderService.PlaceOrder(owner, validInput(laundry.ID))
	require.NoError(t, err)

	// Reprice the catalog after the order was placed
	laundry.Prices["Wash & Fold"] = 9.99
	require.NoError(t, serviceRepo.Update(laundry))

	persisted, err := orderRepo.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.99, persisted.Services[0].PriceAtOrder)
	assert.Equal(t, 7.98, persisted.TotalAmount)
}

func TestOrderService_GetOrderByID_Authorization(t *testing.T) {
	orderService, _, _, laundry := newOrderFixture(t)

	order, err := orderService.PlaceOrder(owner, validInput(laundry.ID))
	require.NoError(t, err)

	// Owner and admin may read
	_, err = orderService.GetOrderByID(owner, order.ID)
	assert.NoError(t, err)
	_, err = orderService.GetOrderByID(admin, order.ID)
	assert.NoError(t, err)

	// Anyone else is refused
	_, err = orderService.GetOrderByID(stranger, order.ID)
	assert.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperrors.StatusCode(err))

	// Malformed ID is checked before querying
	_, err = orderService.GetOrderByID(owner, "not-an-id")
	assert.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))

	// Well-formed but absent
	_, err = orderService.GetOrderByID(owner, "4fa85f64-5717-4562-b3fc-2c963f66afa6")
	assert.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperrors.StatusCode(err))
}

func TestOrderService_ListOrders(t *testing.T) {
	orderService, _, _, laundry := newOrderFixture(t)

	first, err := orderService.PlaceOrder(owner, validInput(laundry.ID))
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	second, err := orderService.PlaceOrder(owner, validInput(laundry.ID))
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	_, err = orderService.PlaceOrder(stranger, validInput(laundry.ID))
	require.NoError(t, err)

	// Owner sees only their orders, most recent first
	mine, err := orderService.GetMyOrders(owner)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)

	// Listing everything is privileged
	_, err = orderService.GetAllOrders(owner)
	assert.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperrors.StatusCode(err))

	all, err := orderService.GetAllOrders(admin)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	orderService, _, _, laundry := newOrderFixture(t)

	order, err := orderService.PlaceOrder(owner, validInput(laundry.ID))
	require.NoError(t, err)

	// Status outside the allowed set
	_, err = orderService.UpdateStatus(admin, order.ID, "Shipped")
	assert.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))

	// Only admins may drive the lifecycle, owners included
	_, err = orderService.UpdateStatus(owner, order.ID, models.StatusPickedUp)
	assert.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperrors.StatusCode(err))

	updated, err := orderService.UpdateStatus(admin, order.ID, models.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, updated.Status)

	// The transition set is unrestricted: moving backward from Delivered
	// to Pending is allowed for operator correction.
	updated, err = orderService.UpdateStatus(admin, updated.ID, models.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, updated.Status)

	_, err = orderService.UpdateStatus(admin, "4fa85f64-5717-4562-b3fc-2c963f66afa6", models.StatusPickedUp)
	assert.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperrors.StatusCode(err))
}

func TestOrderService_SetDates(t *testing.T) {
	orderService, _, _, laundry := newOrderFixture(t)

	order, err := orderService.PlaceOrder(owner, validInput(laundry.ID))
	require.NoError(t, err)

	_, err = orderService.SetDates(owner, order.ID, "2026-09-01T10:00:00Z", "2026-09-03T10:00:00Z")
	assert.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperrors.StatusCode(err))

	_, err = orderService.SetDates(admin, order.ID, "", "2026-09-03T10:00:00Z")
	assert.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))

	_, err = orderService.SetDates(admin, order.ID, "not a date", "2026-09-03T10:00:00Z")
	assert.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))

	_, err = orderService.SetDates(admin, order.ID, "2026-09-03T10:00:00Z", "2026-09-01T10:00:00Z")
	assert.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))

	// Unlike placement, corrected dates may be in the past
	updated, err := orderService.SetDates(admin, order.ID, "2020-01-01T10:00:00Z", "2020-01-02T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 2020, updated.PickupDate.Year())
	assert.True(t, updated.DeliveryDate.After(updated.PickupDate))
}
