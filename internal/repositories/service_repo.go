package repositories

import (
	"laundrio/internal/models"
)

// ServiceRepository defines the interface for catalog data access.
type ServiceRepository interface {
	GetAll() ([]models.Service, error)
	GetByID(id string) (*models.Service, error)
	Create(service *models.Service) error
	Update(service *models.Service) error
	Delete(id string) error
}
