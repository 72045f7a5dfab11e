package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/americanbox/americanbox-api/models"
	"gorm.io/gorm"
)

// AddressInput is a new delivery address.
type AddressInput struct {
	Address string `json:"address" binding:"required"`
	City    string `json:"city"`
}

// AddressService manages a user's delivery addresses.
type AddressService struct {
	db *gorm.DB
}

// NewAddressService creates an address service on db.
func NewAddressService(db *gorm.DB) *AddressService {
	return &AddressService{db: db}
}

// List returns the user's addresses, first one first.
func (s *AddressService) List(ctx context.Context, userID uint) ([]models.Address, error) {
	var addresses []models.Address
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&addresses).Error; err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	return addresses, nil
}

// Create adds an address for userID.
func (s *AddressService) Create(ctx context.Context, userID uint, input AddressInput) (*models.Address, error) {
	address := models.Address{
		UserID:  userID,
		Address: strings.TrimSpace(input.Address),
		City:    strings.TrimSpace(input.City),
	}
	if address.Address == "" {
		return nil, newError(http.StatusBadRequest, "VALIDATION_ERROR", "Address is required")
	}
	if err := s.db.WithContext(ctx).Create(&address).Error; err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}
	return &address, nil
}
