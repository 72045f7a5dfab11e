package models

import "time"

const (
	InvoicePending = "pending"
	InvoicePaid    = "paid"
	InvoiceVoid    = "void"
)

// Invoice bills one order. Unpaid invoices make up accounts receivable.
type Invoice struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Number    string     `gorm:"uniqueIndex;size:40;not null" json:"number"`
	OrderID   uint       `gorm:"not null;uniqueIndex" json:"order_id"`
	Order     *Order     `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	Subtotal  float64    `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Tax       float64    `gorm:"type:decimal(10,2);not null" json:"tax"`
	Total     float64    `gorm:"type:decimal(10,2);not null" json:"total"`
	Status    string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	IssuedAt  time.Time  `json:"issued_at"`
	PaidAt    *time.Time `json:"paid_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}
