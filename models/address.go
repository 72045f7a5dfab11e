package models

import "time"

// Address is a delivery address owned by a user.
type Address struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Address   string    `gorm:"size:255;not null" json:"address"`
	City      string    `gorm:"size:100" json:"city"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Address model
func (Address) TableName() string {
	return "addresses"
}
