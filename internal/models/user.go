package models

import "gorm.io/gorm"

// Roles a user account can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an account of the laundry service.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username   string `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password   string `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	Role       string `json:"role" gorm:"type:varchar(20);default:user"`
	gorm.Model `json:"-"` // CreatedAt, UpdatedAt, DeletedAt
}

// Identity is the authenticated caller passed explicitly into every core
// operation. The core never reads ambient state to discover who is calling.
type Identity struct {
	ID   string
	Role string
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
