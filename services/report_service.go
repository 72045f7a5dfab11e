package services

import (
	"context"
	"fmt"
	"time"

	"github.com/americanbox/americanbox-api/models"
	"gorm.io/gorm"
)

// PackageRow is one line of the packages report.
type PackageRow struct {
	ID           uint      `json:"id"`
	Guide        string    `json:"guide"`
	TrackingCode string    `json:"tracking_code"`
	Status       string    `json:"status"`
	Location     string    `json:"location"`
	WeightLbs    *float64  `json:"weight_lbs"`
	Total        float64   `json:"total"`
	Username     string    `json:"username"`
	CustomerName string    `json:"customer_name"`
	ProviderName string    `json:"provider_name"`
	Address      string    `json:"address"`
	CreatedAt    time.Time `json:"created_at"`
}

// ClientRow aggregates a customer's orders.
type ClientRow struct {
	UserID       uint    `json:"user_id"`
	Username     string  `json:"username"`
	CustomerID   *uint   `json:"customer_id"`
	CustomerName string  `json:"customer_name"`
	Email        string  `json:"email"`
	Orders       int64   `json:"orders"`
	WeightLbs    float64 `json:"weight_lbs"`
	Total        float64 `json:"total"`
}

// ReceivableRow sums a customer's unpaid invoices.
type ReceivableRow struct {
	UserID       uint    `json:"user_id"`
	Username     string  `json:"username"`
	CustomerName string  `json:"customer_name"`
	Invoices     int64   `json:"invoices"`
	Outstanding  float64 `json:"outstanding"`
}

// ClientStats is the dashboard summary for one user.
type ClientStats struct {
	StatusSummary
	TotalSpent  float64 `json:"total_spent"`
	TotalWeight float64 `json:"total_weight"`
	InTransit   int64   `json:"in_transit"`
	Delivered   int64   `json:"delivered"`
}

// ReportService builds the back-office reports.
type ReportService struct {
	db *gorm.DB
}

// NewReportService creates a report service on db.
func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// Packages lists orders with customer and provider names.
func (s *ReportService) Packages(ctx context.Context, filter OrderFilter) ([]PackageRow, error) {
	query := s.db.WithContext(ctx).Table("orders").
		Select(`orders.id, orders.guide, orders.tracking_code, orders.status, orders.location,
			orders.weight_lbs, orders.total, orders.created_at,
			users.username AS username,
			COALESCE(customers.names, '') AS customer_name,
			COALESCE(providers.name, '') AS provider_name,
			COALESCE(addresses.address, '') AS address`).
		Joins("JOIN users ON users.id = orders.user_id").
		Joins("LEFT JOIN customers ON customers.id = users.customer_id").
		Joins("LEFT JOIN providers ON providers.id = orders.provider_id").
		Joins("LEFT JOIN addresses ON addresses.id = orders.address_id").
		Where("orders.deleted_at IS NULL")
	query = applyOrderFilter(query, filter)

	var rows []PackageRow
	if err := query.Order("orders.created_at DESC, orders.id DESC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to build packages report: %w", err)
	}
	return rows, nil
}

// Clients aggregates order count, weight and total per customer user.
func (s *ReportService) Clients(ctx context.Context) ([]ClientRow, error) {
	var rows []ClientRow
	err := s.db.WithContext(ctx).Table("users").
		Select(`users.id AS user_id, users.username, users.customer_id,
			COALESCE(customers.names, '') AS customer_name,
			COALESCE(customers.email, '') AS email,
			COUNT(orders.id) AS orders,
			COALESCE(SUM(orders.weight_lbs), 0) AS weight_lbs,
			COALESCE(SUM(orders.total), 0) AS total`).
		Joins("LEFT JOIN customers ON customers.id = users.customer_id").
		Joins("LEFT JOIN orders ON orders.user_id = users.id AND orders.deleted_at IS NULL").
		Where("users.deleted_at IS NULL AND users.role = ?", models.RoleCustomer).
		Group("users.id, users.username, users.customer_id, customers.names, customers.email").
		Order("total DESC, users.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to build clients report: %w", err)
	}
	for i := range rows {
		rows[i].Total = RoundMoney(rows[i].Total)
		rows[i].WeightLbs = RoundMoney(rows[i].WeightLbs)
	}
	return rows, nil
}

// OrdersByClient lists every order of one user.
func (s *ReportService) OrdersByClient(ctx context.Context, userID uint) ([]PackageRow, error) {
	return s.Packages(ctx, OrderFilter{UserID: &userID})
}

// Receivables sums pending invoices per user.
func (s *ReportService) Receivables(ctx context.Context) ([]ReceivableRow, error) {
	var rows []ReceivableRow
	err := s.db.WithContext(ctx).Table("invoices").
		Select(`invoices.user_id, users.username,
			COALESCE(customers.names, '') AS customer_name,
			COUNT(invoices.id) AS invoices,
			COALESCE(SUM(invoices.total), 0) AS outstanding`).
		Joins("JOIN users ON users.id = invoices.user_id").
		Joins("LEFT JOIN customers ON customers.id = users.customer_id").
		Where("invoices.status = ?", models.InvoicePending).
		Group("invoices.user_id, users.username, customers.names").
		Order("outstanding DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to build receivables report: %w", err)
	}
	for i := range rows {
		rows[i].Outstanding = RoundMoney(rows[i].Outstanding)
	}
	return rows, nil
}

// ClientStats summarizes one user's orders for the dashboard.
func (s *ReportService) ClientStats(ctx context.Context, userID uint) (*ClientStats, error) {
	summary, err := NewOrderService(s.db).StatusCounts(ctx, &userID)
	if err != nil {
		return nil, err
	}

	var totals struct {
		Spent  float64
		Weight float64
	}
	err = s.db.WithContext(ctx).Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0) AS spent, COALESCE(SUM(weight_lbs), 0) AS weight").
		Where("user_id = ?", userID).
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum client orders: %w", err)
	}

	stats := &ClientStats{
		StatusSummary: *summary,
		TotalSpent:    RoundMoney(totals.Spent),
		TotalWeight:   RoundMoney(totals.Weight),
		Delivered:     summary.Counts[models.StatusDelivered],
	}
	stats.InTransit = summary.Total - summary.Counts[models.StatusDelivered] - summary.Counts[models.StatusPreAlert]
	return stats, nil
}
