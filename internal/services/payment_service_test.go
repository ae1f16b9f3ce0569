package services_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"laundrio/internal/apperrors"
	"laundrio/internal/models"
	"laundrio/internal/repositories"
	"laundrio/internal/services"
	"laundrio/pkg/razorpay"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testKeyID     = "rzp_test_key"
	testKeySecret = "rzp_test_secret"
)

// MockPaymentGateway is a mock implementation of services.PaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreateOrder(ctx context.Context, orderReq razorpay.OrderRequest) (*razorpay.Order, error) {
	args := m.Called(ctx, orderReq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*razorpay.Order), args.Error(1)
}

// newPaymentFixture seeds one pending order for owner and wires a payment
// service around it.
func newPaymentFixture(t *testing.T, gateway services.PaymentGateway) (*services.PaymentService, *repositories.MockOrderRepository, *models.Order) {
	t.Helper()

	orderRepo := repositories.NewMockOrderRepository()
	order := &models.Order{
		UserID:        owner.ID,
		TotalAmount:   7.98,
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentPending,
		Services: []models.OrderItem{
			{Service: "svc-1", Quantity: 2, PriceAtOrder: 3.99, ItemType: "Wash & Fold"},
		},
	}
	require.NoError(t, orderRepo.Create(order))

	paymentService := services.NewPaymentService(orderRepo, gateway, testKeyID, testKeySecret, nil)
	return paymentService, orderRepo, order
}

func TestPaymentService_CreateIntent(t *testing.T) {
	gateway := new(MockPaymentGateway)
	paymentService, orderRepo, order := newPaymentFixture(t, gateway)

	gateway.On("CreateOrder", mock.Anything, mock.MatchedBy(func(req razorpay.OrderRequest) bool {
		// 7.98 becomes 798 paise, an integer in the smallest unit
		return req.Amount == 798 &&
			req.Currency == "INR" &&
			req.Receipt == "receipt_order_"+order.ID
	})).Return(&razorpay.Order{ID: "order_rzp123", Amount: 798, Currency: "INR"}, nil).Once()

	intent, err := paymentService.CreateIntent(context.Background(), owner, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "order_rzp123", intent.RazorpayOrder.ID)
	assert.Equal(t, order.ID, intent.OrderID)
	assert.Equal(t, 7.98, intent.Amount)
	assert.Equal(t, "INR", intent.Currency)
	assert.Equal(t, testKeyID, intent.KeyID)

	// The external reference is persisted for later verification
	persisted, err := orderRepo.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, "order_rzp123", persisted.PaymentDetails.OrderID)
	assert.Equal(t, models.PaymentPending, persisted.PaymentStatus)

	gateway.AssertExpectations(t)
}

func TestPaymentService_CreateIntent_Failures(t *testing.T) {
	gateway := new(MockPaymentGateway)
	paymentService, orderRepo, order := newPaymentFixture(t, gateway)

	// Missing order ID
	_, err := paymentService.CreateIntent(context.Background(), owner, "")
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))

	// Unknown order
	_, err = paymentService.CreateIntent(context.Background(), owner, "4fa85f64-5717-4562-b3fc-2c963f66afa6")
	assert.Equal(t, http.StatusNotFound, apperrors.StatusCode(err))

	// Only the order's owner may pay for it
	_, err = paymentService.CreateIntent(context.Background(), stranger, order.ID)
	assert.Equal(t, http.StatusForbidden, apperrors.StatusCode(err))

	gateway.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)

	// A settled order cannot be paid again
	paid, err := orderRepo.GetByID(order.ID)
	require.NoError(t, err)
	paid.PaymentStatus = models.PaymentPaid
	require.NoError(t, orderRepo.Save(paid))

	_, err = paymentService.CreateIntent(context.Background(), owner, order.ID)
	assert.Equal(t, http.StatusConflict, apperrors.StatusCode(err))
}

func TestPaymentService_CreateIntent_UpstreamFailureLeavesOrderUnchanged(t *testing.T) {
	gateway := new(MockPaymentGateway)
	paymentService, orderRepo, order := newPaymentFixture(t, gateway)

	gateway.On("CreateOrder", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("razorpay returned status 502")).Once()

	_, err := paymentService.CreateIntent(context.Background(), owner, order.ID)
	assert.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, apperrors.StatusCode(err))

	// Mutation happens only after a successful external response
	persisted, getErr := orderRepo.GetByID(order.ID)
	require.NoError(t, getErr)
	assert.Empty(t, persisted.PaymentDetails.OrderID)
	assert.Equal(t, models.PaymentPending, persisted.PaymentStatus)
	gateway.AssertExpectations(t)
}

func TestPaymentService_Verify(t *testing.T) {
	paymentService, orderRepo, order := newPaymentFixture(t, new(MockPaymentGateway))

	signature := razorpay.SignPayload(testKeySecret, "order_rzp123", "pay_abc")

	verified, err := paymentService.Verify("order_rzp123", "pay_abc", signature, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, verified.PaymentStatus)
	assert.Equal(t, "order_rzp123", verified.PaymentDetails.OrderID)
	assert.Equal(t, "pay_abc", verified.PaymentDetails.PaymentID)
	assert.Equal(t, signature, verified.PaymentDetails.Signature)

	persisted, err := orderRepo.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, persisted.PaymentStatus)
}

func TestPaymentService_Verify_Idempotent(t *testing.T) {
	paymentService, orderRepo, order := newPaymentFixture(t, new(MockPaymentGateway))

	signature := razorpay.SignPayload(testKeySecret, "order_rzp123", "pay_abc")

	_, err := paymentService.Verify("order_rzp123", "pay_abc", signature, order.ID)
	require.NoError(t, err)

	// Replaying the same valid proof settles to the same final state
	verified, err := paymentService.Verify("order_rzp123", "pay_abc", signature, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, verified.PaymentStatus)

	persisted, err := orderRepo.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, persisted.PaymentStatus)
}

func TestPaymentService_Verify_TamperedSignature(t *testing.T) {
	paymentService, orderRepo, order := newPaymentFixture(t, new(MockPaymentGateway))

	signature := razorpay.SignPayload(testKeySecret, "order_rzp123", "pay_abc")
	tampered := signature[:len(signature)-1] + string(signature[len(signature)-1]^1)

	_, err := paymentService.Verify("order_rzp123", "pay_abc", tampered, order.ID)
	assert.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))

	// The rejection is recorded, never silent
	persisted, getErr := orderRepo.GetByID(order.ID)
	require.NoError(t, getErr)
	assert.Equal(t, models.PaymentFailed, persisted.PaymentStatus)
}

func TestPaymentService_Verify_BadProofNeverRegressesPaid(t *testing.T) {
	paymentService, orderRepo, order := newPaymentFixture(t, new(MockPaymentGateway))

	signature := razorpay.SignPayload(testKeySecret, "order_rzp123", "pay_abc")
	_, err := paymentService.Verify("order_rzp123", "pay_abc", signature, order.ID)
	require.NoError(t, err)

	_, err = paymentService.Verify("order_rzp123", "pay_abc", "forged-signature", order.ID)
	assert.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))

	persisted, getErr := orderRepo.GetByID(order.ID)
	require.NoError(t, getErr)
	assert.Equal(t, models.PaymentPaid, persisted.PaymentStatus)
}

func TestPaymentService_Verify_InputValidation(t *testing.T) {
	paymentService, _, order := newPaymentFixture(t, new(MockPaymentGateway))

	signature := razorpay.SignPayload(testKeySecret, "order_rzp123", "pay_abc")

	// Any missing field is rejected before signature work
	_, err := paymentService.Verify("", "pay_abc", signature, order.ID)
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))
	_, err = paymentService.Verify("order_rzp123", "", signature, order.ID)
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))
	_, err = paymentService.Verify("order_rzp123", "pay_abc", "", order.ID)
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))
	_, err = paymentService.Verify("order_rzp123", "pay_abc", signature, "")
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))

	// Unknown internal order
	_, err = paymentService.Verify("order_rzp123", "pay_abc", signature, "4fa85f64-5717-4562-b3fc-2c963f66afa6")
	assert.Equal(t, http.StatusNotFound, apperrors.StatusCode(err))
}
