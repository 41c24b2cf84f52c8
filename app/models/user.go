package models

import "gorm.io/gorm"

// Account roles. Admin and cashier are staff; customer tokens carry the
// customer role and never reach staff endpoints.
const (
	RoleAdmin    = "admin"
	RoleCashier  = "cashier"
	RoleCustomer = "customer"
)

// User is a staff member (admin or cashier).
type User struct {
	gorm.Model
	Name     string `gorm:"size:255;not null"             json:"name"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string `gorm:"size:255;not null"             json:"-"` // hashed, never serialised
	Phone    string `gorm:"size:20"                       json:"phone"`
	Role     string `gorm:"size:50;not null;default:cashier" json:"role"`
	IsActive bool   `gorm:"not null;default:true"         json:"is_active"`
}

// Customer is a storefront account.
type Customer struct {
	gorm.Model
	Name     string `gorm:"size:255;not null"             json:"name"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string `gorm:"size:255;not null"             json:"-"`
	Phone    string `gorm:"size:20"                       json:"phone"`
	Address  string `gorm:"type:text"                     json:"address"`
}
