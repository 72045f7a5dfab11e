package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/americanbox/americanbox-api/logger"
	"github.com/americanbox/americanbox-api/models"
	"github.com/americanbox/americanbox-api/utils"
	"gorm.io/gorm"
)

// ErrStorageUnavailable is returned when no object storage is configured.
var ErrStorageUnavailable = newError(http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "File storage is not configured")

// ReceiptService attaches purchase receipts (the customer's store invoice) to orders.
type ReceiptService struct {
	db      *gorm.DB
	storage S3Interface
}

// NewReceiptService uses the global S3 service.
func NewReceiptService(db *gorm.DB) *ReceiptService {
	return &ReceiptService{db: db, storage: GetS3Service()}
}

// ReceiptKey builds the object key for an order receipt.
func ReceiptKey(orderID uint, filename string, now time.Time) string {
	return fmt.Sprintf("receipts/%d/%d_%s", orderID, now.Unix(), utils.SanitizeFilename(filename))
}

// Attach validates and uploads a receipt for an order owned by userID, replacing any previous one.
func (s *ReceiptService) Attach(ctx context.Context, orderID, userID uint, fileHeader *multipart.FileHeader) (*models.Order, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}
	if err := utils.ValidateReceiptFile(fileHeader); err != nil {
		return nil, err
	}

	var order models.Order
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	key := ReceiptKey(order.ID, fileHeader.Filename, time.Now())
	if err := s.storage.UploadFile(ctx, key, fileHeader); err != nil {
		return nil, err
	}

	previous := order.ReceiptKey
	if err := s.db.WithContext(ctx).Model(&order).Update("receipt_key", key).Error; err != nil {
		return nil, fmt.Errorf("failed to save receipt: %w", err)
	}
	if previous != nil && *previous != key {
		if err := s.storage.DeleteFile(ctx, *previous); err != nil {
			logger.Log.WithError(err).WithField("key", *previous).Warn("failed to delete replaced receipt")
		}
	}

	order.ReceiptKey = &key
	s.FillURL(ctx, &order)
	return &order, nil
}

// FillURL sets the presigned receipt URL on an order when it has a receipt.
func (s *ReceiptService) FillURL(ctx context.Context, order *models.Order) {
	if s.storage == nil || order.ReceiptKey == nil || *order.ReceiptKey == "" {
		return
	}
	url, err := s.storage.GetPresignedURL(ctx, *order.ReceiptKey)
	if err != nil {
		logger.Log.WithError(err).WithField("order_id", order.ID).Warn("failed to presign receipt")
		return
	}
	order.ReceiptURL = &url
}
