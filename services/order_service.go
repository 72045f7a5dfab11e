package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/americanbox/americanbox-api/logger"
	"github.com/americanbox/americanbox-api/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CreateOrderInput is an order as submitted by an admin or a customer pre-alert.
type CreateOrderInput struct {
	UserID       uint     `json:"user_id" binding:"required"`
	Guide        string   `json:"guide"`
	AddressID    *uint    `json:"address_id"`
	ProviderID   *uint    `json:"provider_id"`
	TrackingCode string   `json:"tracking_code"`
	Description  string   `json:"description"`
	Status       string   `json:"status"`
	WeightLbs    *float64 `json:"weight_lbs"`
	Location     string   `json:"location"`
	Total        *float64 `json:"total"`
	Note         string   `json:"note"`
}

// UpdateOrderInput changes an order; nil fields are left unchanged.
type UpdateOrderInput struct {
	AddressID    *uint    `json:"address_id"`
	ProviderID   *uint    `json:"provider_id"`
	TrackingCode *string  `json:"tracking_code"`
	Description  *string  `json:"description"`
	Status       *string  `json:"status"`
	WeightLbs    *float64 `json:"weight_lbs"`
	Location     *string  `json:"location"`
	Total        *float64 `json:"total"`
	Note         string   `json:"note"`
}

// BulkUpdateInput moves many orders, picked by id or guide, to one status.
type BulkUpdateInput struct {
	IDs      []uint   `json:"ids"`
	Guides   []string `json:"guides"`
	Status   string   `json:"status" binding:"required"`
	Location *string  `json:"location"`
	Note     string   `json:"note"`
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	Status   string
	Location string
	UserID   *uint
	Search   string
	From     *time.Time
	To       *time.Time
	Page     int
	Limit    int

	// Open leaves out delivered orders.
	Open bool
}

// StatusSummary counts orders per status. The counts always add up to Total.
type StatusSummary struct {
	Counts map[string]int64 `json:"counts"`
	Total  int64            `json:"total"`
}

// OrderService holds order business rules.
type OrderService struct {
	db *gorm.DB
}

// NewOrderService creates an order service on db.
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// GenerateGuide returns a new tracking label such as AB261019-3F9A1C2E.
func GenerateGuide(now time.Time) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("AB%s-%s", now.Format("060102"), id[:8])
}

// Create stores a new order. Customer, address and price are resolved and the
// order and its first history entry are written in one transaction.
func (s *OrderService) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.WeightLbs != nil && !ValidWeight(*input.WeightLbs) {
		return nil, ErrInvalidWeight
	}
	if input.Total != nil && !ValidAmount(*input.Total) {
		return nil, ErrInvalidTotal
	}
	if input.Status == "" {
		input.Status = models.StatusPreAlert
	}
	if !models.ValidStatus(input.Status) {
		return nil, ErrInvalidStatus
	}
	if input.Location != "" && !models.ValidLocation(input.Location) {
		return nil, ErrInvalidLocation
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pricing := NewPricingService(tx)

		var user models.User
		if err := tx.Select("id").First(&user, input.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		address, err := pricing.ResolveAddress(ctx, input.UserID, input.AddressID)
		if err != nil {
			return err
		}

		if err := checkProvider(tx, input.ProviderID); err != nil {
			return err
		}

		settings, err := pricing.settings.Get(ctx)
		if err != nil {
			return err
		}
		if input.Location == "" {
			input.Location = settings.DefaultLocation
		}

		guide := strings.TrimSpace(input.Guide)
		if guide == "" {
			guide = GenerateGuide(time.Now())
		}
		if err := ensureGuideFree(tx, guide); err != nil {
			return err
		}

		order = models.Order{
			Guide:        guide,
			UserID:       input.UserID,
			AddressID:    address.ID,
			ProviderID:   input.ProviderID,
			TrackingCode: strings.TrimSpace(input.TrackingCode),
			Description:  strings.TrimSpace(input.Description),
			Status:       input.Status,
			WeightLbs:    input.WeightLbs,
			Location:     input.Location,
		}
		if input.Total != nil {
			order.Total = *input.Total
		}

		if order.WeightLbs != nil && (input.Total == nil || settings.AutoCalculatePrice) {
			price, _, _, err := pricing.ResolvePricePerLb(ctx, input.UserID)
			if err != nil {
				return err
			}
			total, err := priceWeight(*order.WeightLbs, price)
			if err != nil {
				return err
			}
			order.PricePerLb = &price
			order.Total = total
		}

		if err := tx.Create(&order).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrGuideExists
			}
			return err
		}

		return tx.Create(&models.OrderHistory{
			OrderID:  order.ID,
			Status:   order.Status,
			Location: order.Location,
			Note:     input.Note,
		}).Error
	})
	if err != nil {
		if _, ok := AsAppError(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"guide":    order.Guide,
		"user_id":  order.UserID,
		"total":    order.Total,
	}).Info("order created")

	return s.Get(ctx, order.ID)
}

// Get loads an order with its address, provider, user and history.
func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := s.preloaded(ctx).First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return &order, nil
}

// FindByGuide loads an order by guide. When userID is set the order must belong to that user.
func (s *OrderService) FindByGuide(ctx context.Context, guide string, userID *uint) (*models.Order, error) {
	query := s.preloaded(ctx).Where("guide = ?", strings.TrimSpace(guide))
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	var order models.Order
	err := query.First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return &order, nil
}

// List returns a page of orders and the total matching count.
func (s *OrderService) List(ctx context.Context, filter OrderFilter) ([]models.Order, int64, error) {
	base := func() *gorm.DB {
		return applyOrderFilter(s.db.WithContext(ctx).Model(&models.Order{}), filter)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	page, limit := normalizePage(filter.Page, filter.Limit)
	var orders []models.Order
	err := base().
		Preload("User.Customer").
		Preload("Address").
		Preload("Provider").
		Order("orders.created_at DESC, orders.id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

// Update applies input to an order. A status or location change appends a
// history entry; a weight change re-prices when auto calculation is on.
func (s *OrderService) Update(ctx context.Context, id uint, input UpdateOrderInput) (*models.Order, error) {
	if input.WeightLbs != nil && !ValidWeight(*input.WeightLbs) {
		return nil, ErrInvalidWeight
	}
	if input.Total != nil && !ValidAmount(*input.Total) {
		return nil, ErrInvalidTotal
	}
	if input.Status != nil && !models.ValidStatus(*input.Status) {
		return nil, ErrInvalidStatus
	}
	if input.Location != nil && !models.ValidLocation(*input.Location) {
		return nil, ErrInvalidLocation
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		pricing := NewPricingService(tx)
		if input.AddressID != nil {
			address, err := pricing.ResolveAddress(ctx, order.UserID, input.AddressID)
			if err != nil {
				return err
			}
			order.AddressID = address.ID
		}
		if input.ProviderID != nil {
			if err := checkProvider(tx, input.ProviderID); err != nil {
				return err
			}
			order.ProviderID = input.ProviderID
		}
		if input.TrackingCode != nil {
			order.TrackingCode = strings.TrimSpace(*input.TrackingCode)
		}
		if input.Description != nil {
			order.Description = strings.TrimSpace(*input.Description)
		}

		moved := false
		if input.Status != nil && *input.Status != order.Status {
			order.Status = *input.Status
			moved = true
		}
		if input.Location != nil && *input.Location != order.Location {
			order.Location = *input.Location
			moved = true
		}

		if input.Total != nil {
			order.Total = *input.Total
			order.PricePerLb = nil
		}
		if input.WeightLbs != nil {
			order.WeightLbs = input.WeightLbs
			settings, err := pricing.settings.Get(ctx)
			if err != nil {
				return err
			}
			if input.Total == nil || settings.AutoCalculatePrice {
				price, _, _, err := pricing.ResolvePricePerLb(ctx, order.UserID)
				if err != nil {
					return err
				}
				total, err := priceWeight(*order.WeightLbs, price)
				if err != nil {
					return err
				}
				order.PricePerLb = &price
				order.Total = total
			}
		}

		if err := tx.Save(&order).Error; err != nil {
			return err
		}

		if moved {
			return tx.Create(&models.OrderHistory{
				OrderID:  order.ID,
				Status:   order.Status,
				Location: order.Location,
				Note:     input.Note,
			}).Error
		}
		return nil
	})
	if err != nil {
		if _, ok := AsAppError(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	return s.Get(ctx, id)
}

// Delete soft-deletes an order.
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Order{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// BulkUpdate moves every selected order to input.Status in one transaction and
// returns how many orders changed. Orders already in the target state are skipped.
func (s *OrderService) BulkUpdate(ctx context.Context, input BulkUpdateInput) (int, error) {
	if len(input.IDs) == 0 && len(input.Guides) == 0 {
		return 0, ErrNothingToUpdate
	}
	if !models.ValidStatus(input.Status) {
		return 0, ErrInvalidStatus
	}
	if input.Location != nil && !models.ValidLocation(*input.Location) {
		return 0, ErrInvalidLocation
	}

	updated := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&models.Order{})
		switch {
		case len(input.IDs) > 0 && len(input.Guides) > 0:
			query = query.Where("id IN ? OR guide IN ?", input.IDs, input.Guides)
		case len(input.IDs) > 0:
			query = query.Where("id IN ?", input.IDs)
		default:
			query = query.Where("guide IN ?", input.Guides)
		}

		var orders []models.Order
		if err := query.Find(&orders).Error; err != nil {
			return err
		}

		for _, order := range orders {
			location := order.Location
			if input.Location != nil {
				location = *input.Location
			}
			if order.Status == input.Status && order.Location == location {
				continue
			}

			if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
				Updates(map[string]interface{}{"status": input.Status, "location": location}).Error; err != nil {
				return err
			}
			if err := tx.Create(&models.OrderHistory{
				OrderID:  order.ID,
				Status:   input.Status,
				Location: location,
				Note:     input.Note,
			}).Error; err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to bulk update orders: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"status":  input.Status,
		"updated": updated,
	}).Info("bulk order status update")
	return updated, nil
}

// StatusCounts counts orders per status, for one user when userID is set.
// Every known status is present in the result, zero when unused.
func (s *OrderService) StatusCounts(ctx context.Context, userID *uint) (*StatusSummary, error) {
	type row struct {
		Status string
		Count  int64
	}

	query := s.db.WithContext(ctx).Model(&models.Order{})
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	var rows []row
	if err := query.Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders by status: %w", err)
	}

	summary := &StatusSummary{Counts: make(map[string]int64, len(models.OrderStatuses))}
	for _, status := range models.OrderStatuses {
		summary.Counts[status] = 0
	}
	for _, r := range rows {
		summary.Counts[r.Status] += r.Count
		summary.Total += r.Count
	}
	return summary, nil
}

func (s *OrderService) preloaded(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("User.Customer").
		Preload("Address").
		Preload("Provider").
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		})
}

func applyOrderFilter(query *gorm.DB, filter OrderFilter) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("orders.status = ?", filter.Status)
	}
	if filter.Location != "" {
		query = query.Where("orders.location = ?", filter.Location)
	}
	if filter.Open {
		query = query.Where("orders.status <> ?", models.StatusDelivered)
	}
	if filter.UserID != nil {
		query = query.Where("orders.user_id = ?", *filter.UserID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("orders.guide LIKE ? OR orders.tracking_code LIKE ?", like, like)
	}
	if filter.From != nil {
		query = query.Where("orders.created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("orders.created_at < ?", *filter.To)
	}
	return query
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	return page, limit
}

func checkProvider(tx *gorm.DB, providerID *uint) error {
	if providerID == nil {
		return nil
	}
	var count int64
	if err := tx.Model(&models.Provider{}).Where("id = ?", *providerID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrProviderNotFound
	}
	return nil
}

func ensureGuideFree(tx *gorm.DB, guide string) error {
	var count int64
	if err := tx.Unscoped().Model(&models.Order{}).Where("guide = ?", guide).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrGuideExists
	}
	return nil
}
