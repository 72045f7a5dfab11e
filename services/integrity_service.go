package services

import (
	"context"
	"fmt"

	"github.com/americanbox/americanbox-api/models"
	"gorm.io/gorm"
)

// PriceMismatch is an order whose stored total disagrees with its weight and rate.
type PriceMismatch struct {
	OrderID  uint    `json:"order_id"`
	Guide    string  `json:"guide"`
	Stored   float64 `json:"stored"`
	Expected float64 `json:"expected"`
}

// IntegrityReport is the result of CheckOrders.
type IntegrityReport struct {
	Summary           StatusSummary   `json:"summary"`
	CountedTotal      int64           `json:"counted_total"`
	CountsMatch       bool            `json:"counts_match"`
	WithoutAddress    []string        `json:"without_address"`
	PriceMismatches   []PriceMismatch `json:"price_mismatches"`
	UsersWithoutAddrs []string        `json:"users_without_addresses"`
}

// OK reports whether no problem was found.
func (r *IntegrityReport) OK() bool {
	return r.CountsMatch && len(r.WithoutAddress) == 0 && len(r.PriceMismatches) == 0 && len(r.UsersWithoutAddrs) == 0
}

// IntegrityService checks stored data against the business rules.
type IntegrityService struct {
	db *gorm.DB
}

// NewIntegrityService creates an integrity checker on db.
func NewIntegrityService(db *gorm.DB) *IntegrityService {
	return &IntegrityService{db: db}
}

// CheckOrders verifies that status counts add up, that every order has an
// address, and that priced orders carry weight*rate as total.
func (s *IntegrityService) CheckOrders(ctx context.Context) (*IntegrityReport, error) {
	summary, err := NewOrderService(s.db).StatusCounts(ctx, nil)
	if err != nil {
		return nil, err
	}

	report := &IntegrityReport{Summary: *summary}
	if err := s.db.WithContext(ctx).Model(&models.Order{}).Count(&report.CountedTotal).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	report.CountsMatch = report.CountedTotal == summary.Total

	err = s.db.WithContext(ctx).Model(&models.Order{}).
		Joins("LEFT JOIN addresses ON addresses.id = orders.address_id").
		Where("addresses.id IS NULL").
		Pluck("orders.guide", &report.WithoutAddress).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find orders without address: %w", err)
	}

	var priced []models.Order
	err = s.db.WithContext(ctx).
		Where("weight_lbs IS NOT NULL AND price_per_lb IS NOT NULL").
		Find(&priced).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load priced orders: %w", err)
	}
	for _, order := range priced {
		expected := CalculateTotal(*order.WeightLbs, *order.PricePerLb)
		if RoundMoney(order.Total) != expected {
			report.PriceMismatches = append(report.PriceMismatches, PriceMismatch{
				OrderID:  order.ID,
				Guide:    order.Guide,
				Stored:   order.Total,
				Expected: expected,
			})
		}
	}

	err = s.db.WithContext(ctx).Model(&models.User{}).
		Joins("LEFT JOIN addresses ON addresses.user_id = users.id").
		Where("users.role = ? AND addresses.id IS NULL", models.RoleCustomer).
		Pluck("users.username", &report.UsersWithoutAddrs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find users without address: %w", err)
	}

	return report, nil
}
