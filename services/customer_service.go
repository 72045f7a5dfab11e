package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/americanbox/americanbox-api/models"
	"gorm.io/gorm"
)

// UpdateCustomerInput changes a customer profile; nil fields are left unchanged.
// ClearPricePerLb removes the override so the company default applies again.
type UpdateCustomerInput struct {
	Names           *string  `json:"names"`
	Email           *string  `json:"email" binding:"omitempty,email"`
	DNI             *string  `json:"dni"`
	Mobile          *string  `json:"mobile"`
	Phone           *string  `json:"phone"`
	Address         *string  `json:"address"`
	PricePerLb      *float64 `json:"price_per_lb" binding:"omitempty,gt=0,lte=99999999.99"`
	ClearPricePerLb bool     `json:"clear_price_per_lb"`
}

// CustomerSummary is a customer with its login.
type CustomerSummary struct {
	models.Customer
	UserID   *uint  `json:"user_id"`
	Username string `json:"username"`
}

// CustomerService manages customer profiles.
type CustomerService struct {
	db *gorm.DB
}

// NewCustomerService creates a customer service on db.
func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{db: db}
}

// List returns customers matching search (names, email, dni or username) with their login.
func (s *CustomerService) List(ctx context.Context, search string, page, limit int) ([]CustomerSummary, int64, error) {
	base := func() *gorm.DB {
		query := s.db.WithContext(ctx).Table("customers").
			Joins("LEFT JOIN users ON users.customer_id = customers.id AND users.deleted_at IS NULL").
			Where("customers.deleted_at IS NULL")
		if search = strings.TrimSpace(search); search != "" {
			like := "%" + search + "%"
			query = query.Where("customers.names LIKE ? OR customers.email LIKE ? OR customers.dni LIKE ? OR users.username LIKE ?",
				like, like, like, like)
		}
		return query
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	page, limit = normalizePage(page, limit)
	var rows []CustomerSummary
	err := base().
		Select("customers.*, users.id AS user_id, users.username AS username").
		Order("customers.id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}
	return rows, total, nil
}

// Create registers a customer on behalf of an admin: profile with its price
// override, login and first address, all in one transaction.
func (s *CustomerService) Create(ctx context.Context, input RegisterInput) (*CustomerSummary, error) {
	user, err := NewAuthService(s.db).Register(ctx, input)
	if err != nil {
		return nil, err
	}

	return &CustomerSummary{
		Customer: *user.Customer,
		UserID:   &user.ID,
		Username: user.Username,
	}, nil
}

// Get loads one customer.
func (s *CustomerService) Get(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.WithContext(ctx).First(&customer, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}
	return &customer, nil
}

// ForUser loads the customer profile of a user.
func (s *CustomerService) ForUser(ctx context.Context, userID uint) (*models.Customer, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Select("id", "customer_id").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.CustomerID == nil {
		return nil, ErrCustomerNotFound
	}
	return s.Get(ctx, *user.CustomerID)
}

// Update applies input to a customer.
func (s *CustomerService) Update(ctx context.Context, id uint, input UpdateCustomerInput) (*models.Customer, error) {
	customer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Names != nil {
		customer.Names = strings.TrimSpace(*input.Names)
	}
	if input.Email != nil {
		customer.Email = strings.TrimSpace(*input.Email)
	}
	if input.DNI != nil {
		customer.DNI = strings.TrimSpace(*input.DNI)
	}
	if input.Mobile != nil {
		customer.Mobile = strings.TrimSpace(*input.Mobile)
	}
	if input.Phone != nil {
		customer.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Address != nil {
		customer.Address = strings.TrimSpace(*input.Address)
	}
	if input.ClearPricePerLb {
		customer.PricePerLb = nil
	} else if input.PricePerLb != nil {
		price := RoundMoney(*input.PricePerLb)
		customer.PricePerLb = &price
	}

	if err := s.db.WithContext(ctx).Save(customer).Error; err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return customer, nil
}

// Delete soft-deletes a customer and its login.
func (s *CustomerService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Customer{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCustomerNotFound
		}
		return tx.Where("customer_id = ?", id).Delete(&models.User{}).Error
	})
}
