package services

import (
	"math"

	"laundrio/internal/apperrors"
	"laundrio/internal/models"
	"laundrio/internal/repositories"
)

// CatalogService handles business logic for the cleaning-service catalog,
// including price resolution for the order pricing engine.
type CatalogService struct {
	repo repositories.ServiceRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo repositories.ServiceRepository) *CatalogService {
	return &CatalogService{
		repo: repo,
	}
}

// ResolvePrice looks up the unit price of an active service for the given
// variant label. It has no side effects. An unknown or inactive service is
// reported as not found; a missing or invalid price entry is a catalog
// integrity fault, never treated as zero.
func (s *CatalogService) ResolvePrice(serviceID, variant string) (float64, error) {
	service, err := s.repo.GetByID(serviceID)
	if err != nil {
		return 0, err
	}
	if !service.IsActive {
		return 0, apperrors.NotFoundf("Service with ID %s not found or is inactive.", serviceID)
	}

	price, ok := service.Prices[variant]
	if !ok || math.IsNaN(price) || price < 0 {
		return 0, apperrors.Internalf("Invalid or missing price for %q with type %q.", service.Name, variant)
	}
	return price, nil
}

// GetAllServices retrieves the full catalog.
func (s *CatalogService) GetAllServices() ([]models.Service, error) {
	return s.repo.GetAll()
}

// GetActiveServices retrieves only services currently offered.
func (s *CatalogService) GetActiveServices() ([]models.Service, error) {
	services, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	active := make([]models.Service, 0, len(services))
	for _, svc := range services {
		if svc.IsActive {
			active = append(active, svc)
		}
	}
	return active, nil
}

// GetServiceByID retrieves a single catalog service.
func (s *CatalogService) GetServiceByID(id string) (*models.Service, error) {
	return s.repo.GetByID(id)
}

// CreateService adds a new service to the catalog.
func (s *CatalogService) CreateService(service *models.Service) error {
	for variant, price := range service.Prices {
		if math.IsNaN(price) || price < 0 {
			return apperrors.Validationf("Price for type %q must be a non-negative number.", variant)
		}
	}
	return s.repo.Create(service)
}

// UpdateService updates an existing catalog service.
func (s *CatalogService) UpdateService(service *models.Service) error {
	for variant, price := range service.Prices {
		if math.IsNaN(price) || price < 0 {
			return apperrors.Validationf("Price for type %q must be a non-negative number.", variant)
		}
	}
	return s.repo.Update(service)
}

// DeleteService removes a service from the catalog. Already-placed orders
// keep their price snapshots.
func (s *CatalogService) DeleteService(id string) error {
	return s.repo.Delete(id)
}
