package repositories

import (
	"sync"

	"laundrio/internal/apperrors"
	"laundrio/internal/models"

	"github.com/google/uuid"
)

// MockServiceRepository is an in-memory implementation of ServiceRepository.
type MockServiceRepository struct {
	services map[string]models.Service
	mu       sync.RWMutex
}

// NewMockServiceRepository creates a new instance of MockServiceRepository.
func NewMockServiceRepository() *MockServiceRepository {
	return &MockServiceRepository{
		services: make(map[string]models.Service),
	}
}

// GetAll returns all catalog services.
func (r *MockServiceRepository) GetAll() ([]models.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	services := make([]models.Service, 0, len(r.services))
	for _, s := range r.services {
		services = append(services, s)
	}
	return services, nil
}

// GetByID returns a catalog service by its ID.
func (r *MockServiceRepository) GetByID(id string) (*models.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	service, ok := r.services[id]
	if !ok {
		return nil, apperrors.NotFoundf("Service with ID %s not found.", id)
	}
	return &service, nil
}

// Create adds a new catalog service.
func (r *MockServiceRepository) Create(service *models.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if service.ID == "" {
		service.ID = uuid.New().String()
	}
	r.services[service.ID] = *service
	return nil
}

// Update modifies an existing catalog service.
func (r *MockServiceRepository) Update(service *models.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.services[service.ID]; !ok {
		return apperrors.NotFoundf("Service with ID %s not found.", service.ID)
	}
	r.services[service.ID] = *service
	return nil
}

// Delete removes a catalog service by its ID.
func (r *MockServiceRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.services[id]; !ok {
		return apperrors.NotFoundf("Service with ID %s not found.", id)
	}
	delete(r.services, id)
	return nil
}
