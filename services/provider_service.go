package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/americanbox/americanbox-api/models"
	"gorm.io/gorm"
)

// ProviderInput creates or replaces a provider.
type ProviderInput struct {
	TrackingCode string `json:"tracking_code"`
	Name         string `json:"name" binding:"required"`
	Address      string `json:"address"`
}

// ProviderService manages the marketplace list.
type ProviderService struct {
	db *gorm.DB
}

// NewProviderService creates a provider service on db.
func NewProviderService(db *gorm.DB) *ProviderService {
	return &ProviderService{db: db}
}

// List returns providers sorted by name.
func (s *ProviderService) List(ctx context.Context) ([]models.Provider, error) {
	var providers []models.Provider
	if err := s.db.WithContext(ctx).Order("name ASC, id ASC").Find(&providers).Error; err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}
	return providers, nil
}

// Get loads a provider. Unlike order validation, a missing provider here is a 404.
func (s *ProviderService) Get(ctx context.Context, id uint) (*models.Provider, error) {
	var provider models.Provider
	err := s.db.WithContext(ctx).First(&provider, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(http.StatusNotFound, "PROVIDER_NOT_FOUND", "Provider not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load provider: %w", err)
	}
	return &provider, nil
}

// Create stores a provider.
func (s *ProviderService) Create(ctx context.Context, input ProviderInput) (*models.Provider, error) {
	provider := models.Provider{
		TrackingCode: strings.TrimSpace(input.TrackingCode),
		Name:         strings.TrimSpace(input.Name),
		Address:      strings.TrimSpace(input.Address),
	}
	if provider.Name == "" {
		return nil, newError(http.StatusBadRequest, "VALIDATION_ERROR", "Provider name is required")
	}
	if err := s.db.WithContext(ctx).Create(&provider).Error; err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}
	return &provider, nil
}

// Update replaces a provider's fields.
func (s *ProviderService) Update(ctx context.Context, id uint, input ProviderInput) (*models.Provider, error) {
	provider, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	provider.TrackingCode = strings.TrimSpace(input.TrackingCode)
	provider.Name = strings.TrimSpace(input.Name)
	provider.Address = strings.TrimSpace(input.Address)
	if provider.Name == "" {
		return nil, newError(http.StatusBadRequest, "VALIDATION_ERROR", "Provider name is required")
	}

	if err := s.db.WithContext(ctx).Save(provider).Error; err != nil {
		return nil, fmt.Errorf("failed to update provider: %w", err)
	}
	return provider, nil
}

// Delete soft-deletes a provider. Orders keep their provider_id.
func (s *ProviderService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Provider{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete provider: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return newError(http.StatusNotFound, "PROVIDER_NOT_FOUND", "Provider not found")
	}
	return nil
}
