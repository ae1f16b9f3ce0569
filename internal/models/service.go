package models

import "gorm.io/gorm"

// Service represents a cleaning service in the catalog. Prices maps a
// variant label (e.g. "Wash & Fold", "Dry Clean") to a unit price.
type Service struct {
	ID          string             `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string             `json:"name" validate:"required,min=3,max=100"`
	Description string             `json:"description" validate:"omitempty,max=500"`
	IsActive    bool               `json:"isActive"`
	Prices      map[string]float64 `json:"prices" gorm:"serializer:json" validate:"required,min=1"`
	gorm.Model  `json:"-"` // CreatedAt, UpdatedAt, DeletedAt
}
