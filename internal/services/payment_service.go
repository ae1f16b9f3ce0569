package services

import (
	"context"
	"log"
	"math"

	"laundrio/internal/apperrors"
	"laundrio/internal/models"
	"laundrio/internal/repositories"
	"laundrio/pkg/rabbitmq"
	"laundrio/pkg/razorpay"
)

// PaymentGateway is the external payment processor boundary. The real
// implementation is the Razorpay client; tests substitute a mock.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, orderReq razorpay.OrderRequest) (*razorpay.Order, error)
}

// PaymentService drives the payment lifecycle of an order: minting an
// intent with the external processor and verifying its proof of completion.
// paymentStatus moves Pending→Paid on a verified proof or Pending→Failed on
// a rejected one; Paid is terminal.
type PaymentService struct {
	orderRepo repositories.OrderRepository
	gateway   PaymentGateway
	keyID     string
	keySecret string // shared with the processor, keys the proof HMAC
	mqClient  *rabbitmq.Client
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(orderRepo repositories.OrderRepository, gateway PaymentGateway, keyID, keySecret string, mqClient *rabbitmq.Client) *PaymentService {
	return &PaymentService{
		orderRepo: orderRepo,
		gateway:   gateway,
		keyID:     keyID,
		keySecret: keySecret,
		mqClient:  mqClient,
	}
}

// PaymentIntent is returned to the client to continue checkout with the
// processor.
type PaymentIntent struct {
	RazorpayOrder *razorpay.Order
	OrderID       string
	Amount        float64
	Currency      string
	KeyID         string
}

// Currency all intents are denominated in.
const intentCurrency = "INR"

// CreateIntent mints a payment intent for an order with the external
// processor. Only the order's owner may pay; an already-paid order is
// refused. The order is mutated only after the processor call succeeds, so
// an upstream failure leaves state unchanged.
func (s *PaymentService) CreateIntent(ctx context.Context, identity models.Identity, orderID string) (*PaymentIntent, error) {
	if orderID == "" {
		return nil, apperrors.Validationf("Order ID is required to create a payment order.")
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != identity.ID {
		return nil, apperrors.Forbiddenf("Forbidden: You are not authorized to pay for this order.")
	}
	if order.PaymentStatus == models.PaymentPaid {
		return nil, apperrors.Conflictf("This order has already been paid.")
	}

	// Processor amounts are integral, in the smallest currency unit.
	amountInPaise := int64(math.Round(order.TotalAmount * 100))

	razorpayOrder, err := s.gateway.CreateOrder(ctx, razorpay.OrderRequest{
		Amount:   amountInPaise,
		Currency: intentCurrency,
		Receipt:  "receipt_order_" + order.ID,
		Notes: map[string]string{
			"orderId": order.ID,
			"userId":  identity.ID,
		},
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUpstream, err, "Failed to create Razorpay order.")
	}

	order.PaymentDetails.OrderID = razorpayOrder.ID
	if err := s.orderRepo.Save(order); err != nil {
		return nil, err
	}

	return &PaymentIntent{
		RazorpayOrder: razorpayOrder,
		OrderID:       order.ID,
		Amount:        order.TotalAmount,
		Currency:      intentCurrency,
		KeyID:         s.keyID,
	}, nil
}

// Verify checks the processor's proof of a completed payment. The expected
// signature is an HMAC-SHA256 over "<externalOrderRef>|<externalPaymentRef>"
// keyed by the shared secret, compared in constant time. A match settles
// the order as Paid; a mismatch marks it Failed (unless already Paid) and
// the caller is always told verification failed.
func (s *PaymentService) Verify(razorpayOrderID, razorpayPaymentID, signature, orderID string) (*models.Order, error) {
	if razorpayOrderID == "" || razorpayPaymentID == "" || signature == "" || orderID == "" {
		return nil, apperrors.Validationf("Missing payment verification parameters.")
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}

	if !razorpay.VerifySignature(s.keySecret, razorpayOrderID, razorpayPaymentID, signature) {
		// A settled payment is never regressed by a bad or replayed proof.
		if order.PaymentStatus != models.PaymentPaid {
			order.PaymentStatus = models.PaymentFailed
			if saveErr := s.orderRepo.Save(order); saveErr != nil {
				log.Printf("Warning: failed to record payment failure for order %s: %v", order.ID, saveErr)
			}
			s.publish(rabbitmq.EventPaymentFailed, map[string]interface{}{
				"orderID": order.ID,
			})
		}
		return nil, apperrors.Validationf("Payment verification failed. Invalid signature.")
	}

	order.PaymentStatus = models.PaymentPaid
	order.PaymentDetails.OrderID = razorpayOrderID
	order.PaymentDetails.PaymentID = razorpayPaymentID
	order.PaymentDetails.Signature = signature
	if err := s.orderRepo.Save(order); err != nil {
		return nil, err
	}

	s.publish(rabbitmq.EventPaymentCaptured, map[string]interface{}{
		"orderID":   order.ID,
		"paymentID": razorpayPaymentID,
		"amount":    order.TotalAmount,
	})

	return order, nil
}

func (s *PaymentService) publish(event string, data map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	if err := s.mqClient.PublishEvent(event, data); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", event, err)
	}
}
