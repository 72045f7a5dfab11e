package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/americanbox/americanbox-api/logger"
	"github.com/americanbox/americanbox-api/models"
	"gorm.io/gorm"
)

// DefaultProviders are the marketplaces most packages ship from.
var DefaultProviders = []models.Provider{
	{Name: "Amazon", TrackingCode: "AMZ"},
	{Name: "Shein", TrackingCode: "SHN"},
	{Name: "eBay", TrackingCode: "EBY"},
	{Name: "Walmart", TrackingCode: "WMT"},
	{Name: "AliExpress", TrackingCode: "ALX"},
	{Name: "Temu", TrackingCode: "TMU"},
}

// Seed creates the settings row and the default providers when missing. It is safe to run twice.
func Seed(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var settings models.CompanySettings
		err := tx.First(&settings, models.CompanySettingsID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			settings = Defaults()
			if err := tx.Create(&settings).Error; err != nil {
				return fmt.Errorf("failed to seed company settings: %w", err)
			}
			logger.Log.Info("seeded company settings")
		} else if err != nil {
			return err
		}

		for _, provider := range DefaultProviders {
			p := provider
			if err := tx.Where(models.Provider{Name: p.Name}).FirstOrCreate(&p).Error; err != nil {
				return fmt.Errorf("failed to seed provider %s: %w", p.Name, err)
			}
		}
		return nil
	})
}
