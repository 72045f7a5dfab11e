package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/americanbox/americanbox-api/models"
	"gorm.io/gorm"
)

// Price sources reported by a quote.
const (
	PriceSourceCustomer = "customer"
	PriceSourceCompany  = "company"
)

// Quote is the resolved pricing for a user, with a total when a weight was given.
type Quote struct {
	UserID     uint     `json:"user_id"`
	CustomerID *uint    `json:"customer_id"`
	PricePerLb float64  `json:"price_per_lb"`
	Source     string   `json:"source"`
	WeightLbs  *float64 `json:"weight_lbs,omitempty"`
	Total      *float64 `json:"total,omitempty"`
}

// PricingService resolves the customer, the per-pound rate and the delivery address for a user.
type PricingService struct {
	db       *gorm.DB
	settings *SettingsService
}

// NewPricingService binds the service to db, which may be a transaction.
func NewPricingService(db *gorm.DB) *PricingService {
	return &PricingService{db: db, settings: NewSettingsService(db)}
}

// MaxAmount is the largest value a decimal(10,2) column holds.
const MaxAmount = 99999999.99

// ValidWeight reports whether w is a finite positive weight that fits the schema.
func ValidWeight(w float64) bool {
	return !math.IsNaN(w) && !math.IsInf(w, 0) && w > 0 && w <= MaxAmount
}

// ValidAmount reports whether v is a finite non-negative amount that fits the schema.
func ValidAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0 && v <= MaxAmount
}

// RoundMoney rounds half away from zero to cents.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// CalculateTotal prices weight at pricePerLb, rounded to cents.
func CalculateTotal(weightLbs, pricePerLb float64) float64 {
	return RoundMoney(weightLbs * pricePerLb)
}

// priceWeight is CalculateTotal with ErrInvalidWeight when the total does not fit the schema.
func priceWeight(weightLbs, pricePerLb float64) (float64, error) {
	total := CalculateTotal(weightLbs, pricePerLb)
	if !ValidAmount(total) {
		return 0, ErrInvalidWeight
	}
	return total, nil
}

// ResolveCustomerID returns users.customer_id, nil when the user has no profile.
func (p *PricingService) ResolveCustomerID(ctx context.Context, userID uint) (*uint, error) {
	var user models.User
	err := p.db.WithContext(ctx).Select("id", "customer_id").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user.CustomerID, nil
}

// ResolvePricePerLb returns the customer override when set, otherwise the company default.
// A missing customer profile falls through to the default.
func (p *PricingService) ResolvePricePerLb(ctx context.Context, userID uint) (float64, string, *uint, error) {
	customerID, err := p.ResolveCustomerID(ctx, userID)
	if err != nil {
		return 0, "", nil, err
	}

	if customerID != nil {
		var customer models.Customer
		err := p.db.WithContext(ctx).Select("id", "price_per_lb").First(&customer, *customerID).Error
		switch {
		case err == nil:
			if customer.PricePerLb != nil {
				return *customer.PricePerLb, PriceSourceCustomer, customerID, nil
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return 0, "", nil, fmt.Errorf("failed to load customer: %w", err)
		}
	}

	settings, err := p.settings.Get(ctx)
	if err != nil {
		return 0, "", nil, err
	}
	return settings.DefaultPricePerLb, PriceSourceCompany, customerID, nil
}

// ResolveAddress returns addressID when it belongs to the user, otherwise the
// user's first address. ErrAddressRequired when neither exists.
func (p *PricingService) ResolveAddress(ctx context.Context, userID uint, addressID *uint) (*models.Address, error) {
	var address models.Address
	query := p.db.WithContext(ctx).Where("user_id = ?", userID)

	var err error
	if addressID != nil {
		err = query.Where("id = ?", *addressID).First(&address).Error
	} else {
		err = query.Order("id ASC").First(&address).Error
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAddressRequired
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve address: %w", err)
	}
	return &address, nil
}

// Quote resolves the rate for userID and prices weightLbs when given.
func (p *PricingService) Quote(ctx context.Context, userID uint, weightLbs *float64) (*Quote, error) {
	if weightLbs != nil && !ValidWeight(*weightLbs) {
		return nil, ErrInvalidWeight
	}

	price, source, customerID, err := p.ResolvePricePerLb(ctx, userID)
	if err != nil {
		return nil, err
	}

	quote := &Quote{
		UserID:     userID,
		CustomerID: customerID,
		PricePerLb: price,
		Source:     source,
		WeightLbs:  weightLbs,
	}
	if weightLbs != nil {
		total, err := priceWeight(*weightLbs, price)
		if err != nil {
			return nil, err
		}
		quote.Total = &total
	}
	return quote, nil
}
