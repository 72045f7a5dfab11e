package testutil

import (
	"testing"
	"time"

	"github.com/americanbox/americanbox-api/cache"
	"github.com/americanbox/americanbox-api/config"
	"github.com/americanbox/americanbox-api/models"
	"github.com/americanbox/americanbox-api/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestPassword is the password of every fixture user
const TestPassword = "secret123"

// TestConfig returns a configuration for tests and installs it globally
func TestConfig() *config.Config {
	cfg := &config.Config{
		DatabaseURL:           ":memory:",
		Port:                  "8080",
		GoEnv:                 "test",
		JWTSecret:             "test-secret",
		SessionCookie:         "americanbox_session",
		SessionTTL:            time.Hour,
		DefaultPricePerLb:     config.DefaultPricePerLb,
		CacheTTL:              time.Minute,
		CORSOrigins:           []string{"http://localhost:5173"},
		LoginRatePerMinute:    100,
		TrackingRatePerMinute: 100,
		AWSRegion:             "us-east-1",
		LogLevel:              "error",
	}
	config.SetConfig(cfg)
	return cfg
}

// NewTestDB opens a migrated in-memory SQLite database. The pool is held to one
// connection because every new :memory: connection is a separate empty database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true})
	require.NoError(t, err, "Failed to connect to test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...), "Failed to migrate test database")

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

// UseTestDB installs a fresh database and an empty cache as the globals controllers use
func UseTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := NewTestDB(t)
	config.SetDB(db)
	services.SetCache(cache.NewMemoryStore())
	return db
}

func hashPassword(t *testing.T) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

// CreateCustomer creates a customer profile, its login and one address
func CreateCustomer(t *testing.T, db *gorm.DB, username string, pricePerLb *float64) *models.User {
	t.Helper()

	customer := models.Customer{
		Names:      "Customer " + username,
		Email:      username + "@example.com",
		DNI:        "0102030405",
		Address:    "Av. Amazonas 123",
		PricePerLb: pricePerLb,
	}
	require.NoError(t, db.Create(&customer).Error)

	user := models.User{
		Username:     username,
		PasswordHash: hashPassword(t),
		Role:         models.RoleCustomer,
		CustomerID:   &customer.ID,
	}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&models.Address{UserID: user.ID, Address: customer.Address, City: "Quito"}).Error)

	user.Customer = &customer
	return &user
}

// CreateAdmin creates a back-office user
func CreateAdmin(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := models.User{
		Username:     username,
		PasswordHash: hashPassword(t),
		Role:         models.RoleAdmin,
		IsAdmin:      true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// CreateProvider creates a provider
func CreateProvider(t *testing.T, db *gorm.DB, name string) *models.Provider {
	t.Helper()
	provider := models.Provider{Name: name, TrackingCode: name[:3]}
	require.NoError(t, db.Create(&provider).Error)
	return &provider
}

// CreateOrder stores an order for user at its first address, with one history entry
func CreateOrder(t *testing.T, db *gorm.DB, user *models.User, guide, status string, total float64) *models.Order {
	t.Helper()

	var address models.Address
	require.NoError(t, db.Where("user_id = ?", user.ID).Order("id ASC").First(&address).Error)

	order := models.Order{
		Guide:     guide,
		UserID:    user.ID,
		AddressID: address.ID,
		Status:    status,
		Location:  models.LocationMiami,
		Total:     total,
	}
	require.NoError(t, db.Create(&order).Error)
	require.NoError(t, db.Create(&models.OrderHistory{
		OrderID:  order.ID,
		Status:   status,
		Location: order.Location,
	}).Error)
	return &order
}

// Float returns a pointer to v
func Float(v float64) *float64 {
	return &v
}

// Uint returns a pointer to v
func Uint(v uint) *uint {
	return &v
}
