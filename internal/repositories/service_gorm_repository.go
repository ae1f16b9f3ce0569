package repositories

import (
	"errors"

	"laundrio/internal/apperrors"
	"laundrio/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMServiceRepository is a GORM implementation of ServiceRepository.
type GORMServiceRepository struct {
	db *gorm.DB
}

// NewGORMServiceRepository creates a new instance of GORMServiceRepository.
func NewGORMServiceRepository(db *gorm.DB) *GORMServiceRepository {
	return &GORMServiceRepository{
		db: db,
	}
}

// GetAll retrieves all catalog services from the database.
func (r *GORMServiceRepository) GetAll() ([]models.Service, error) {
	var services []models.Service
	if err := r.db.Find(&services).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to get all services")
	}
	return services, nil
}

// GetByID retrieves a single catalog service by its ID.
func (r *GORMServiceRepository) GetByID(id string) (*models.Service, error) {
	var service models.Service
	if err := r.db.First(&service, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("Service with ID %s not found.", id)
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to get service by ID %s", id)
	}
	return &service, nil
}

// Create creates a new catalog service in the database.
func (r *GORMServiceRepository) Create(service *models.Service) error {
	if service.ID == "" {
		service.ID = uuid.New().String()
	}
	if err := r.db.Create(service).Error; err != nil {
		return apperrors.Wrap(apperrors.KindInternal, err, "failed to create service")
	}
	return nil
}

// Update updates an existing catalog service in the database.
func (r *GORMServiceRepository) Update(service *models.Service) error {
	res := r.db.Model(&models.Service{}).Where("id = ?", service.ID).
		Select("*").Omit("id", "created_at").Updates(service)
	if res.Error != nil {
		return apperrors.Wrap(apperrors.KindInternal, res.Error, "failed to update service")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundf("Service with ID %s not found.", service.ID)
	}
	return nil
}

// Delete deletes a catalog service by its ID from the database.
func (r *GORMServiceRepository) Delete(id string) error {
	res := r.db.Delete(&models.Service{}, "id = ?", id)
	if res.Error != nil {
		return apperrors.Wrap(apperrors.KindInternal, res.Error, "failed to delete service")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundf("Service with ID %s not found.", id)
	}
	return nil
}
