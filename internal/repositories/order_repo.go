package repositories

import (
	"laundrio/internal/models"
)

// OrderRepository defines the interface for order data access. Orders are
// never deleted; mutations go through Save, which performs a versioned
// compare-and-swap so concurrent edits cannot silently overwrite each other.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	GetByUser(userID string) ([]models.Order, error)
	GetAll() ([]models.Order, error)
	Save(order *models.Order) error
}
