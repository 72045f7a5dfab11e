package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/americanbox/americanbox-api/logger"
	"github.com/americanbox/americanbox-api/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// InvoiceService issues and settles invoices.
type InvoiceService struct {
	db *gorm.DB
}

// NewInvoiceService creates an invoice service on db.
func NewInvoiceService(db *gorm.DB) *InvoiceService {
	return &InvoiceService{db: db}
}

// Issue bills an order: subtotal is the order total, tax uses the company rate.
func (s *InvoiceService) Issue(ctx context.Context, orderID uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		var existing int64
		if err := tx.Model(&models.Invoice{}).Where("order_id = ?", order.ID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrInvoiceExists
		}

		number, settings, err := NewSettingsService(tx).NextInvoiceNumber(ctx)
		if err != nil {
			return err
		}

		tax := RoundMoney(order.Total * settings.TaxRate)
		invoice = models.Invoice{
			Number:   number,
			OrderID:  order.ID,
			UserID:   order.UserID,
			Subtotal: order.Total,
			Tax:      tax,
			Total:    RoundMoney(order.Total + tax),
			Status:   models.InvoicePending,
			IssuedAt: time.Now().UTC(),
		}
		return tx.Create(&invoice).Error
	})
	if err != nil {
		if _, ok := AsAppError(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("failed to issue invoice: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"invoice":  invoice.Number,
		"order_id": invoice.OrderID,
		"total":    invoice.Total,
	}).Info("invoice issued")
	return &invoice, nil
}

// MarkPaid settles a pending invoice.
func (s *InvoiceService) MarkPaid(ctx context.Context, id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := s.db.WithContext(ctx).First(&invoice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	if invoice.Status != models.InvoicePending {
		return nil, newError(http.StatusConflict, "INVOICE_NOT_PENDING", "Only pending invoices can be paid")
	}

	now := time.Now().UTC()
	invoice.Status = models.InvoicePaid
	invoice.PaidAt = &now
	if err := s.db.WithContext(ctx).Save(&invoice).Error; err != nil {
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}
	return &invoice, nil
}

// List returns invoices, optionally for one user or status.
func (s *InvoiceService) List(ctx context.Context, userID *uint, status string) ([]models.Invoice, error) {
	query := s.db.WithContext(ctx).Preload("Order")
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var invoices []models.Invoice
	if err := query.Order("issued_at DESC, id DESC").Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}
