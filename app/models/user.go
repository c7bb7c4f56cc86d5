package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID        string         `gorm:"size:36;not null;uniqueIndex;primary_key" json:"_id"`
	Name      string         `gorm:"size:200;not null" json:"name"`
	Email     string         `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;default:'customer';not null" json:"role"`
	Addresses []Address      `gorm:"-" json:"addresses"`
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `json:"-"`
}

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// NormalizeRole maps anything other than admin to customer.
func NormalizeRole(role string) string {
	if role == RoleAdmin {
		return RoleAdmin
	}
	return RoleCustomer
}
