package models

import "time"

// CompanySettingsID is the primary key of the singleton settings row.
const CompanySettingsID = 1

// CompanySettings holds global configuration: pricing defaults, warehouse addresses, invoice metadata.
type CompanySettings struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	CompanyName        string    `gorm:"size:200" json:"company_name"`
	TaxID              string    `gorm:"size:50" json:"tax_id"`
	Email              string    `gorm:"size:200" json:"email"`
	Phone              string    `gorm:"size:50" json:"phone"`
	Address            string    `gorm:"size:255" json:"address"`
	DefaultPricePerLb  float64   `gorm:"column:default_price_per_lb;type:decimal(10,2);not null" json:"default_price_per_lb"`
	AutoCalculatePrice bool      `gorm:"not null;default:true" json:"auto_calculate_price"`
	DefaultLocation    string    `gorm:"size:20;not null;default:'miami'" json:"default_location"`
	MiamiAddress       string    `gorm:"size:255" json:"miami_address"`
	DoralAddress       string    `gorm:"size:255" json:"doral_address"`
	TaxRate            float64   `gorm:"type:decimal(5,4);not null;default:0" json:"tax_rate"` // fraction, 0.12 = 12%
	InvoicePrefix      string    `gorm:"size:20;not null;default:'AB'" json:"invoice_prefix"`
	NextInvoiceNumber  uint      `gorm:"not null;default:1" json:"next_invoice_number"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TableName specifies the table name for the CompanySettings model
func (CompanySettings) TableName() string {
	return "company_settings"
}

// LocationAddress returns the configured warehouse address for a location.
func (s CompanySettings) LocationAddress(location string) string {
	switch location {
	case LocationDoral:
		return s.DoralAddress
	default:
		return s.MiamiAddress
	}
}
