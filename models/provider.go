package models

import (
	"time"

	"gorm.io/gorm"
)

// Provider is the marketplace or warehouse a package ships from (Amazon, Shein, ...).
type Provider struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	TrackingCode string         `gorm:"size:50;index" json:"tracking_code"`
	Name         string         `gorm:"size:150;not null" json:"name"`
	Address      string         `gorm:"size:255" json:"address"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Provider model
func (Provider) TableName() string {
	return "providers"
}
