package repositories

import (
	"errors"
	"time"

	"laundrio/internal/apperrors"
	"laundrio/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create persists a new order, assigning an ID, creation time and the
// initial version if not already set.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	if order.Version == 0 {
		order.Version = 1
	}
	if err := r.db.Create(order).Error; err != nil {
		return apperrors.Wrap(apperrors.KindInternal, err, "failed to create order")
	}
	return nil
}

// GetByID retrieves a single order by its ID.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("Order not found.")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to get order by ID %s", id)
	}
	return &order, nil
}

// GetByUser retrieves all orders belonging to userID, most recent first.
func (r *GORMOrderRepository) GetByUser(userID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Where("user_id = ?", userID).Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to get orders for user %s", userID)
	}
	return orders, nil
}

// GetAll retrieves every order, most recent first.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to get all orders")
	}
	return orders, nil
}

// Save persists an in-place mutation of an existing order. The write only
// lands if the stored version still matches the one the order was read at;
// a stale write surfaces as a conflict instead of silently losing updates.
func (r *GORMOrderRepository) Save(order *models.Order) error {
	readVersion := order.Version
	order.Version = readVersion + 1
	order.UpdatedAt = time.Now()

	res := r.db.Model(&models.Order{}).
		Where("id = ? AND version = ?", order.ID, readVersion).
		Select("*").Omit("id", "created_at").
		Updates(order)
	if res.Error != nil {
		order.Version = readVersion
		return apperrors.Wrap(apperrors.KindInternal, res.Error, "failed to save order %s", order.ID)
	}
	if res.RowsAffected == 0 {
		order.Version = readVersion
		return apperrors.Conflictf("Order %s was modified concurrently, please retry.", order.ID)
	}
	return nil
}
