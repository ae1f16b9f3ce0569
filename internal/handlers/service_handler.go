package handlers

import (
	"fmt"
	"log"

	"laundrio/internal/models"
	"laundrio/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ServiceHandler handles HTTP requests for the cleaning-service catalog.
type ServiceHandler struct {
	catalog  *services.CatalogService
	validate *validator.Validate
}

// NewServiceHandler creates a new ServiceHandler.
func NewServiceHandler(catalog *services.CatalogService) *ServiceHandler {
	return &ServiceHandler{
		catalog:  catalog,
		validate: validator.New(),
	}
}

// RegisterPublicRoutes registers the catalog routes any caller may use.
func (h *ServiceHandler) RegisterPublicRoutes(router fiber.Router) {
	serviceRoutes := router.Group("/services")
	serviceRoutes.Get("/", h.HandleGetServices)
	serviceRoutes.Get("/:id", h.HandleGetServiceByID)
}

// RegisterAdminRoutes registers catalog management routes; the caller is
// expected to wrap them with the admin middleware.
func (h *ServiceHandler) RegisterAdminRoutes(router fiber.Router) {
	serviceRoutes := router.Group("/services")
	serviceRoutes.Post("/", h.HandleCreateService)
	serviceRoutes.Put("/:id", h.HandleUpdateService)
	serviceRoutes.Delete("/:id", h.HandleDeleteService)
}

// HandleGetServices lists the services currently offered.
func (h *ServiceHandler) HandleGetServices(c *fiber.Ctx) error {
	catalogServices, err := h.catalog.GetActiveServices()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(catalogServices)
}

// HandleGetServiceByID retrieves a single catalog service.
func (h *ServiceHandler) HandleGetServiceByID(c *fiber.Ctx) error {
	service, err := h.catalog.GetServiceByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(service)
}

// HandleCreateService adds a new service to the catalog. Admin only.
func (h *ServiceHandler) HandleCreateService(c *fiber.Ctx) error {
	var service models.Service
	if err := c.BodyParser(&service); err != nil {
		log.Printf("Error parsing service body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(service); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	if err := h.catalog.CreateService(&service); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Service created successfully.",
		"service": service,
	})
}

// HandleUpdateService updates an existing catalog service. Admin only.
func (h *ServiceHandler) HandleUpdateService(c *fiber.Ctx) error {
	var service models.Service
	if err := c.BodyParser(&service); err != nil {
		log.Printf("Error parsing service body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	service.ID = c.Params("id")

	if err := h.validate.Struct(service); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	if err := h.catalog.UpdateService(&service); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Service updated successfully.",
		"service": service,
	})
}

// HandleDeleteService removes a service from the catalog. Admin only.
func (h *ServiceHandler) HandleDeleteService(c *fiber.Ctx) error {
	if err := h.catalog.DeleteService(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Service deleted successfully.",
	})
}
