package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// User is the login record. A customer user points at exactly one Customer profile.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:100;not null" json:"username"`
	PasswordHash string         `gorm:"size:255;not null" json:"-"`
	Role         string         `gorm:"size:20;not null;default:'customer'" json:"role"` // "admin" or "customer"
	IsAdmin      bool           `gorm:"not null;default:false" json:"is_admin"`
	CustomerID   *uint          `gorm:"index" json:"customer_id"`
	Customer     *Customer      `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Addresses    []Address      `gorm:"foreignKey:UserID" json:"addresses,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// Admin reports whether the user may use the back office.
func (u User) Admin() bool {
	return u.IsAdmin || u.Role == RoleAdmin
}
