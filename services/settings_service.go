package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/americanbox/americanbox-api/cache"
	"github.com/americanbox/americanbox-api/config"
	"github.com/americanbox/americanbox-api/logger"
	"github.com/americanbox/americanbox-api/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const settingsCacheKey = "company_settings"

// UpdateSettingsInput lists editable company settings; nil fields are left unchanged.
type UpdateSettingsInput struct {
	CompanyName        *string  `json:"company_name"`
	TaxID              *string  `json:"tax_id"`
	Email              *string  `json:"email" binding:"omitempty,email"`
	Phone              *string  `json:"phone"`
	Address            *string  `json:"address"`
	DefaultPricePerLb  *float64 `json:"default_price_per_lb" binding:"omitempty,gt=0,lte=99999999.99"`
	AutoCalculatePrice *bool    `json:"auto_calculate_price"`
	DefaultLocation    *string  `json:"default_location"`
	MiamiAddress       *string  `json:"miami_address"`
	DoralAddress       *string  `json:"doral_address"`
	TaxRate            *float64 `json:"tax_rate" binding:"omitempty,gte=0,lt=1"`
	InvoicePrefix      *string  `json:"invoice_prefix"`
}

// SettingsService reads and writes the company_settings singleton.
type SettingsService struct {
	db    *gorm.DB
	cache cache.Store
	ttl   time.Duration
}

// NewSettingsService binds the service to db, which may be a transaction.
func NewSettingsService(db *gorm.DB) *SettingsService {
	ttl := 5 * time.Minute
	if cfg := config.GetConfig(); cfg != nil && cfg.CacheTTL > 0 {
		ttl = cfg.CacheTTL
	}
	return &SettingsService{db: db, cache: GetCache(), ttl: ttl}
}

// fallbackPrice is the only place the hard default rate is read.
func fallbackPrice() float64 {
	if cfg := config.GetConfig(); cfg != nil && cfg.DefaultPricePerLb > 0 {
		return cfg.DefaultPricePerLb
	}
	return config.DefaultPricePerLb
}

// Defaults returns the settings used when no row exists yet.
func Defaults() models.CompanySettings {
	return models.CompanySettings{
		ID:                 models.CompanySettingsID,
		CompanyName:        "AmericanBox",
		DefaultPricePerLb:  fallbackPrice(),
		AutoCalculatePrice: true,
		DefaultLocation:    models.LocationMiami,
		InvoicePrefix:      "AB",
		NextInvoiceNumber:  1,
	}
}

// Get returns the company settings, from cache when possible. A missing row yields Defaults.
func (s *SettingsService) Get(ctx context.Context) (*models.CompanySettings, error) {
	var settings models.CompanySettings

	if s.cache != nil {
		err := s.cache.Get(ctx, settingsCacheKey, &settings)
		if err == nil {
			return &settings, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			logger.Log.WithError(err).Warn("settings cache read failed")
		}
	}

	err := s.db.WithContext(ctx).First(&settings, models.CompanySettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = Defaults()
	} else if err != nil {
		return nil, fmt.Errorf("failed to load company settings: %w", err)
	}

	if settings.DefaultPricePerLb <= 0 {
		settings.DefaultPricePerLb = fallbackPrice()
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, settingsCacheKey, settings, s.ttl); err != nil {
			logger.Log.WithError(err).Warn("settings cache write failed")
		}
	}
	return &settings, nil
}

// Update applies input to the settings row, creating it from Defaults when absent.
func (s *SettingsService) Update(ctx context.Context, input UpdateSettingsInput) (*models.CompanySettings, error) {
	if input.DefaultLocation != nil && !models.ValidLocation(*input.DefaultLocation) {
		return nil, ErrInvalidLocation
	}

	var settings models.CompanySettings
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&settings, models.CompanySettingsID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			settings = Defaults()
			if err := tx.Create(&settings).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		applySettings(&settings, input)
		// The invoice counter only moves through NextInvoiceNumber.
		return tx.Omit("next_invoice_number").Save(&settings).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update company settings: %w", err)
	}

	s.invalidate(ctx)
	logger.Log.WithFields(logrus.Fields{
		"default_price_per_lb": settings.DefaultPricePerLb,
		"default_location":     settings.DefaultLocation,
	}).Info("company settings updated")
	return &settings, nil
}

// NextInvoiceNumber reserves and returns the next invoice number. The counter
// is bumped in place first so the row stays locked until the caller's
// transaction ends and concurrent callers never share a number.
func (s *SettingsService) NextInvoiceNumber(ctx context.Context) (string, *models.CompanySettings, error) {
	var settings models.CompanySettings
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reserved, err := bumpInvoiceCounter(tx)
		if err != nil {
			return err
		}
		if !reserved {
			defaults := Defaults()
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&defaults).Error; err != nil {
				return err
			}
			if _, err := bumpInvoiceCounter(tx); err != nil {
				return err
			}
		}
		return tx.First(&settings, models.CompanySettingsID).Error
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to reserve invoice number: %w", err)
	}

	s.invalidate(ctx)
	number := fmt.Sprintf("%s-%06d", settings.InvoicePrefix, settings.NextInvoiceNumber-1)
	return number, &settings, nil
}

func bumpInvoiceCounter(tx *gorm.DB) (bool, error) {
	result := tx.Model(&models.CompanySettings{}).
		Where("id = ?", models.CompanySettingsID).
		Update("next_invoice_number", gorm.Expr("next_invoice_number + ?", 1))
	return result.RowsAffected > 0, result.Error
}

func (s *SettingsService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, settingsCacheKey); err != nil {
		logger.Log.WithError(err).Warn("settings cache invalidation failed")
	}
}

func applySettings(settings *models.CompanySettings, input UpdateSettingsInput) {
	if input.CompanyName != nil {
		settings.CompanyName = strings.TrimSpace(*input.CompanyName)
	}
	if input.TaxID != nil {
		settings.TaxID = strings.TrimSpace(*input.TaxID)
	}
	if input.Email != nil {
		settings.Email = strings.TrimSpace(*input.Email)
	}
	if input.Phone != nil {
		settings.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Address != nil {
		settings.Address = strings.TrimSpace(*input.Address)
	}
	if input.DefaultPricePerLb != nil {
		settings.DefaultPricePerLb = RoundMoney(*input.DefaultPricePerLb)
	}
	if input.AutoCalculatePrice != nil {
		settings.AutoCalculatePrice = *input.AutoCalculatePrice
	}
	if input.DefaultLocation != nil {
		settings.DefaultLocation = *input.DefaultLocation
	}
	if input.MiamiAddress != nil {
		settings.MiamiAddress = strings.TrimSpace(*input.MiamiAddress)
	}
	if input.DoralAddress != nil {
		settings.DoralAddress = strings.TrimSpace(*input.DoralAddress)
	}
	if input.TaxRate != nil {
		settings.TaxRate = *input.TaxRate
	}
	if input.InvoicePrefix != nil && strings.TrimSpace(*input.InvoicePrefix) != "" {
		settings.InvoicePrefix = strings.TrimSpace(*input.InvoicePrefix)
	}
}
