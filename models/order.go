package models

import (
	"time"

	"gorm.io/gorm"
)

// Order statuses, in the order a package normally moves through them.
const (
	StatusPreAlert       = "Pre alerta"
	StatusReceived       = "Captado en agencia"
	StatusDispatched     = "Despachado"
	StatusInCustoms      = "En aduana"
	StatusAwaitingPay    = "En espera de pago"
	StatusPaymentApprove = "Pago aprobado"
	StatusDelivered      = "Entregado"
)

// Warehouse locations.
const (
	LocationMiami = "miami"
	LocationDoral = "doral"
)

// OrderStatuses lists every valid status in lifecycle order.
var OrderStatuses = []string{
	StatusPreAlert,
	StatusReceived,
	StatusDispatched,
	StatusInCustoms,
	StatusAwaitingPay,
	StatusPaymentApprove,
	StatusDelivered,
}

// Locations lists every valid warehouse location.
var Locations = []string{LocationMiami, LocationDoral}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	for _, status := range OrderStatuses {
		if status == s {
			return true
		}
	}
	return false
}

// ValidLocation reports whether l is a known warehouse location.
func ValidLocation(l string) bool {
	for _, location := range Locations {
		if location == l {
			return true
		}
	}
	return false
}

// Order is a shipment identified by its guide.
type Order struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Guide        string         `gorm:"uniqueIndex;size:64;not null" json:"guide"`
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	User         *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	AddressID    uint           `gorm:"not null;index" json:"address_id"`
	Address      *Address       `gorm:"foreignKey:AddressID" json:"address,omitempty"`
	ProviderID   *uint          `gorm:"index" json:"provider_id"`
	Provider     *Provider      `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
	TrackingCode string         `gorm:"size:100;index" json:"tracking_code"`
	Description  string         `gorm:"size:255" json:"description"`
	Status       string         `gorm:"size:40;not null;index" json:"status"`
	WeightLbs    *float64       `gorm:"column:weight_lbs;type:decimal(10,2)" json:"weight_lbs"`
	PricePerLb   *float64       `gorm:"column:price_per_lb;type:decimal(10,2)" json:"price_per_lb"` // rate applied when total was computed
	Location     string         `gorm:"size:20;not null;index" json:"location"`
	Total        float64        `gorm:"type:decimal(10,2);not null;default:0" json:"total"`
	ReceiptKey   *string        `gorm:"size:255" json:"-"`
	ReceiptURL   *string        `gorm:"-" json:"receipt_url,omitempty"` // presigned, filled on read
	History      []OrderHistory `gorm:"foreignKey:OrderID" json:"history,omitempty"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderHistory is one entry of an order's tracking trail.
type OrderHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	Status    string    `gorm:"size:40;not null" json:"status"`
	Location  string    `gorm:"size:20" json:"location"`
	Note      string    `gorm:"size:255" json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the OrderHistory model
func (OrderHistory) TableName() string {
	return "order_history"
}
