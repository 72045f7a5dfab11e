package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer is the profile behind a casillero. PricePerLb overrides the company default when set.
type Customer struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Names      string         `gorm:"size:200;not null" json:"names"`
	Email      string         `gorm:"size:200;index" json:"email"`
	DNI        string         `gorm:"column:dni;size:30;index" json:"dni"`
	Mobile     string         `gorm:"size:30" json:"mobile"`
	Phone      string         `gorm:"size:30" json:"phone"`
	Address    string         `gorm:"size:255" json:"address"`
	PricePerLb *float64       `gorm:"column:price_per_lb;type:decimal(10,2)" json:"price_per_lb"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
