package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/americanbox/americanbox-api/cache"
	"github.com/americanbox/americanbox-api/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupServiceDB opens a migrated in-memory database held to one connection
// and resets the settings cache.
func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	SetCache(cache.NewMemoryStore())
	return db
}

func floatPtr(v float64) *float64 { return &v }

func uintPtr(v uint) *uint { return &v }

func strPtr(v string) *string { return &v }

// seedSettings stores the settings row with the given default price.
func seedSettings(t *testing.T, db *gorm.DB, defaultPrice float64) *models.CompanySettings {
	t.Helper()
	settings, err := NewSettingsService(db).Update(context.Background(), UpdateSettingsInput{
		DefaultPricePerLb: &defaultPrice,
		MiamiAddress:      strPtr("8500 NW 25th St, Miami FL"),
		DoralAddress:      strPtr("2000 NW 84th Ave, Doral FL"),
	})
	require.NoError(t, err)
	return settings
}

// createCustomerUser stores customer, user and one address.
func createCustomerUser(t *testing.T, db *gorm.DB, username string, pricePerLb *float64) *models.User {
	t.Helper()

	customer := models.Customer{Names: "Customer " + username, Email: username + "@example.com", PricePerLb: pricePerLb}
	require.NoError(t, db.Create(&customer).Error)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{Username: username, PasswordHash: string(hash), Role: models.RoleCustomer, CustomerID: &customer.ID}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&models.Address{UserID: user.ID, Address: "Av. Amazonas 123", City: "Quito"}).Error)
	return &user
}

func newFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("receipt", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["receipt"][0]
}
