package models

import "time"

const (
	ComplaintOpen       = "open"
	ComplaintInProgress = "in_progress"
	ComplaintResolved   = "resolved"
	ComplaintClosed     = "closed"
)

// ComplaintStatuses lists valid complaint statuses.
var ComplaintStatuses = []string{ComplaintOpen, ComplaintInProgress, ComplaintResolved, ComplaintClosed}

// ComplaintPriorities lists valid complaint priorities.
var ComplaintPriorities = []string{"low", "medium", "high"}

// Complaint is a customer claim, optionally about a specific order.
type Complaint struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"not null;index" json:"user_id"`
	User          *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	OrderID       *uint      `gorm:"index" json:"order_id"`
	Subject       string     `gorm:"size:200;not null" json:"subject"`
	Description   string     `gorm:"type:text;not null" json:"description"`
	Status        string     `gorm:"size:20;not null;default:'open';index" json:"status"`
	Priority      string     `gorm:"size:20;not null;default:'medium'" json:"priority"`
	AdminResponse *string    `gorm:"type:text" json:"admin_response"`
	AdminUserID   *uint      `json:"admin_user_id"`
	RespondedAt   *time.Time `json:"responded_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the Complaint model
func (Complaint) TableName() string {
	return "complaints"
}
