package models

import "time"

// Fulfillment statuses. Admins may set any member at any time, including
// moving backward; there is no forward-only transition rule.
const (
	StatusPending        = "Pending"
	StatusPickedUp       = "Picked Up"
	StatusInProgress     = "In Progress"
	StatusOutForDelivery = "Out for Delivery"
	StatusDelivered      = "Delivered"
	StatusCancelled      = "Cancelled"
)

// Payment settlement statuses.
const (
	PaymentPending = "Pending"
	PaymentPaid    = "Paid"
	PaymentFailed  = "Failed"
)

// AllowedStatuses is the full fulfillment-status set, in lifecycle order.
var AllowedStatuses = []string{
	StatusPending,
	StatusPickedUp,
	StatusInProgress,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
}

// IsValidStatus reports whether s is a member of AllowedStatuses.
func IsValidStatus(s string) bool {
	for _, allowed := range AllowedStatuses {
		if s == allowed {
			return true
		}
	}
	return false
}

// DefaultVariant is the service variant assumed when a line item does not
// name one.
const DefaultVariant = "Wash & Fold"

// DefaultCountry is applied when an order address omits the country.
const DefaultCountry = "India"

// OrderItem is a single service-and-quantity entry within an order.
// PriceAtOrder is a snapshot taken at placement time; it never changes
// even if the catalog price later does.
type OrderItem struct {
	Service      string  `json:"service"` // catalog service ID
	Quantity     int     `json:"quantity"`
	PriceAtOrder float64 `json:"priceAtOrder"`
	ItemType     string  `json:"itemType"` // variant label the price was resolved with
}

// Address is the pickup/delivery address captured with an order.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// PaymentDetails is populated progressively during the payment flow.
type PaymentDetails struct {
	OrderID   string `json:"orderId"`   // external processor order reference
	PaymentID string `json:"paymentId"` // external processor payment reference
	Signature string `json:"signature"` // proof signature from the processor
}

// Order is a placed request for one or more laundry services, with
// pricing, schedule, address and a two-axis status (fulfillment and
// payment). Field names and status literals are the wire contract.
type Order struct {
	ID             string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID         string         `json:"user" gorm:"index;type:varchar(36)"`
	Services       []OrderItem    `json:"services" gorm:"serializer:json"`
	TotalAmount    float64        `json:"totalAmount"`
	Status         string         `json:"status"`
	PickupDate     time.Time      `json:"pickupDate"`
	DeliveryDate   time.Time      `json:"deliveryDate"`
	PaymentStatus  string         `json:"paymentStatus"`
	PaymentDetails PaymentDetails `json:"paymentDetails" gorm:"embedded;embeddedPrefix:payment_"`
	Address        Address        `json:"address" gorm:"embedded;embeddedPrefix:address_"`
	Notes          string         `json:"notes"`
	Version        int64          `json:"-"` // optimistic-concurrency counter
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"-"`
}
