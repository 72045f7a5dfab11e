package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/americanbox/americanbox-api/logger"
	"github.com/americanbox/americanbox-api/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrComplaintNotFound is returned for unknown complaints.
var ErrComplaintNotFound = newError(http.StatusNotFound, "COMPLAINT_NOT_FOUND", "Complaint not found")

// CreateComplaintInput is a complaint filed by a customer.
type CreateComplaintInput struct {
	OrderID     *uint  `json:"order_id"`
	Subject     string `json:"subject" binding:"required,max=200"`
	Description string `json:"description" binding:"required"`
	Priority    string `json:"priority"`
}

// UpdateComplaintInput is the back-office answer to a complaint.
type UpdateComplaintInput struct {
	Status        *string `json:"status"`
	Priority      *string `json:"priority"`
	AdminResponse *string `json:"admin_response"`
}

// ComplaintService handles customer complaints.
type ComplaintService struct {
	db *gorm.DB
}

// NewComplaintService creates a complaint service on db.
func NewComplaintService(db *gorm.DB) *ComplaintService {
	return &ComplaintService{db: db}
}

func validPriority(p string) bool {
	for _, priority := range models.ComplaintPriorities {
		if priority == p {
			return true
		}
	}
	return false
}

func validComplaintStatus(s string) bool {
	for _, status := range models.ComplaintStatuses {
		if status == s {
			return true
		}
	}
	return false
}

// Create files a complaint for userID. A referenced order must belong to the user.
func (s *ComplaintService) Create(ctx context.Context, userID uint, input CreateComplaintInput) (*models.Complaint, error) {
	priority := input.Priority
	if priority == "" {
		priority = "medium"
	}
	if !validPriority(priority) {
		return nil, newError(http.StatusBadRequest, "INVALID_PRIORITY", "Priority must be low, medium or high")
	}

	if input.OrderID != nil {
		var count int64
		err := s.db.WithContext(ctx).Model(&models.Order{}).
			Where("id = ? AND user_id = ?", *input.OrderID, userID).
			Count(&count).Error
		if err != nil {
			return nil, fmt.Errorf("failed to check order: %w", err)
		}
		if count == 0 {
			return nil, ErrOrderNotFound
		}
	}

	complaint := models.Complaint{
		UserID:      userID,
		OrderID:     input.OrderID,
		Subject:     strings.TrimSpace(input.Subject),
		Description: strings.TrimSpace(input.Description),
		Status:      models.ComplaintOpen,
		Priority:    priority,
	}
	if err := s.db.WithContext(ctx).Create(&complaint).Error; err != nil {
		return nil, fmt.Errorf("failed to create complaint: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"complaint_id": complaint.ID,
		"user_id":      userID,
	}).Info("complaint filed")
	return &complaint, nil
}

// List returns complaints, newest first, optionally for one user or status.
func (s *ComplaintService) List(ctx context.Context, userID *uint, status string) ([]models.Complaint, error) {
	query := s.db.WithContext(ctx).Preload("User.Customer")
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var complaints []models.Complaint
	if err := query.Order("created_at DESC, id DESC").Find(&complaints).Error; err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}
	return complaints, nil
}

// Respond updates a complaint and records which admin answered it.
func (s *ComplaintService) Respond(ctx context.Context, id, adminUserID uint, input UpdateComplaintInput) (*models.Complaint, error) {
	if input.Status != nil && !validComplaintStatus(*input.Status) {
		return nil, newError(http.StatusBadRequest, "INVALID_STATUS", "Unknown complaint status")
	}
	if input.Priority != nil && !validPriority(*input.Priority) {
		return nil, newError(http.StatusBadRequest, "INVALID_PRIORITY", "Priority must be low, medium or high")
	}

	var complaint models.Complaint
	err := s.db.WithContext(ctx).First(&complaint, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrComplaintNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load complaint: %w", err)
	}

	if input.Status != nil {
		complaint.Status = *input.Status
	}
	if input.Priority != nil {
		complaint.Priority = *input.Priority
	}
	if input.AdminResponse != nil {
		response := strings.TrimSpace(*input.AdminResponse)
		now := time.Now()
		complaint.AdminResponse = &response
		complaint.RespondedAt = &now
	}
	complaint.AdminUserID = &adminUserID

	if err := s.db.WithContext(ctx).Save(&complaint).Error; err != nil {
		return nil, fmt.Errorf("failed to update complaint: %w", err)
	}
	return &complaint, nil
}
