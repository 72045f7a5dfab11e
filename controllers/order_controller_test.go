package controllers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/americanbox/americanbox-api/models"
	"github.com/americanbox/americanbox-api/services"
	"github.com/americanbox/americanbox-api/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAdminOrderRouter(t *testing.T) (*gin.Engine, *gorm.DB, *models.User) {
	t.Helper()
	db := setupControllerTest(t)
	price := 5.00
	_, err := services.NewSettingsService(db).Update(context.Background(), services.UpdateSettingsInput{DefaultPricePerLb: &price})
	require.NoError(t, err)

	admin := testutil.CreateAdmin(t, db, "admin")
	router := setupTestRouter()
	group := router.Group("/api/admin", testutil.MockAuthMiddleware(admin.ID, models.RoleAdmin))
	{
		group.GET("/orders", ListOrders)
		group.POST("/orders", CreateOrder)
		group.GET("/orders/bulk", GetBulkOrders)
		group.PUT("/orders/bulk", BulkUpdateOrders)
		group.GET("/orders/stats", GetOrderStats)
		group.GET("/orders/:id", GetOrder)
		group.PUT("/orders/:id", UpdateOrder)
		group.DELETE("/orders/:id", DeleteOrder)
		group.POST("/orders/:id/invoice", IssueInvoice)
		group.GET("/quote", AdminQuote)
	}
	return router, db, admin
}

func TestCreateOrder(t *testing.T) {
	router, db, _ := setupAdminOrderRouter(t)
	maria := testutil.CreateCustomer(t, db, "maria", testutil.Float(3.50))
	jose := testutil.CreateCustomer(t, db, "jose", nil)
	provider := testutil.CreateProvider(t, db, "Amazon")

	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedCode   string
		checkResponse  func(t *testing.T, data map[string]interface{})
	}{
		{
			name: "Customer rate is applied",
			requestBody: map[string]interface{}{
				"user_id":       maria.ID,
				"provider_id":   provider.ID,
				"tracking_code": "TBA123",
				"weight_lbs":    3.75,
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, data map[string]interface{}) {
				assert.Equal(t, 13.13, data["total"])
				assert.Equal(t, 3.5, data["price_per_lb"])
				assert.Equal(t, models.StatusPreAlert, data["status"])
				assert.Len(t, data["history"], 1)
			},
		},
		{
			name:           "Company default applies without override",
			requestBody:    map[string]interface{}{"user_id": jose.ID, "weight_lbs": 2},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, data map[string]interface{}) {
				assert.Equal(t, float64(10), data["total"])
			},
		},
		{
			name:           "Missing user_id",
			requestBody:    map[string]interface{}{"weight_lbs": 2},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "Unknown status",
			requestBody:    map[string]interface{}{"user_id": maria.ID, "status": "Perdido"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_STATUS",
		},
		{
			name:           "Overflowing weight",
			requestBody:    map[string]interface{}{"user_id": maria.ID, "weight_lbs": 1e308},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_WEIGHT",
		},
		{
			name:           "Unknown user",
			requestBody:    map[string]interface{}{"user_id": 9999},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "USER_NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, http.MethodPost, "/api/admin/orders", tt.requestBody)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedCode != "" {
				response := decodeResponse(t, w)
				assert.Equal(t, false, response["ok"])
				assert.Equal(t, tt.expectedCode, response["code"])
				return
			}
			tt.checkResponse(t, responseData(t, w))
		})
	}
}

func TestCreateOrder_AddressRequired(t *testing.T) {
	router, db, _ := setupAdminOrderRouter(t)
	customer := testutil.CreateCustomer(t, db, "maria", nil)
	require.NoError(t, db.Where("user_id = ?", customer.ID).Delete(&models.Address{}).Error)

	w := performRequest(router, http.MethodPost, "/api/admin/orders", map[string]interface{}{"user_id": customer.ID, "weight_lbs": 1})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "ADDRESS_REQUIRED", decodeResponse(t, w)["code"])

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestListOrders(t *testing.T) {
	router, db, _ := setupAdminOrderRouter(t)
	maria := testutil.CreateCustomer(t, db, "maria", nil)
	jose := testutil.CreateCustomer(t, db, "jose", nil)
	for i := 0; i < 3; i++ {
		testutil.CreateOrder(t, db, maria, fmt.Sprintf("M-%d", i), models.StatusPreAlert, 10)
	}
	testutil.CreateOrder(t, db, jose, "J-1", models.StatusDelivered, 5)

	tests := []struct {
		name          string
		query         string
		expectedCount int
		expectedTotal float64
	}{
		{"All orders", "", 4, 4},
		{"By status", "?status=" + "Entregado", 1, 1},
		{"By customer", fmt.Sprintf("?user_id=%d", maria.ID), 3, 3},
		{"By guide", "?guide=J-1", 1, 1},
		{"Paged", "?limit=2&page=2", 2, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, http.MethodGet, "/api/admin/orders"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			response := decodeResponse(t, w)
			assert.Len(t, response["data"], tt.expectedCount)
			pagination := response["pagination"].(map[string]interface{})
			assert.Equal(t, tt.expectedTotal, pagination["total"])
		})
	}

	t.Run("Invalid user_id", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/api/admin/orders?user_id=abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetUpdateDeleteOrder(t *testing.T) {
	router, db, _ := setupAdminOrderRouter(t)
	maria := testutil.CreateCustomer(t, db, "maria", testutil.Float(3.50))
	order := testutil.CreateOrder(t, db, maria, "AB-1", models.StatusPreAlert, 0)
	path := fmt.Sprintf("/api/admin/orders/%d", order.ID)

	w := performRequest(router, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "AB-1", responseData(t, w)["guide"])

	w = performRequest(router, http.MethodPut, path, map[string]interface{}{
		"status":     models.StatusReceived,
		"weight_lbs": 3.75,
		"note":       "Recibido en Miami",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := responseData(t, w)
	assert.Equal(t, models.StatusReceived, data["status"])
	assert.Equal(t, 13.13, data["total"])
	assert.Len(t, data["history"], 2)

	w = performRequest(router, http.MethodGet, "/api/admin/orders/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(router, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(router, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBulkOrders(t *testing.T) {
	router, db, _ := setupAdminOrderRouter(t)
	maria := testutil.CreateCustomer(t, db, "maria", nil)
	a := testutil.CreateOrder(t, db, maria, "A-1", models.StatusReceived, 10)
	testutil.CreateOrder(t, db, maria, "A-2", models.StatusReceived, 10)
	testutil.CreateOrder(t, db, maria, "A-3", models.StatusDelivered, 10)

	w := performRequest(router, http.MethodGet, "/api/admin/orders/bulk", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := responseData(t, w)
	assert.Len(t, data["statuses"], len(models.OrderStatuses))
	assert.Len(t, data["orders"], 2, "delivered orders are not offered for bulk updates")

	w = performRequest(router, http.MethodPut, "/api/admin/orders/bulk", map[string]interface{}{
		"ids":    []uint{a.ID},
		"guides": []string{"A-2"},
		"status": models.StatusDispatched,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data = responseData(t, w)
	assert.Equal(t, float64(2), data["updated"])

	w = performRequest(router, http.MethodPut, "/api/admin/orders/bulk", map[string]interface{}{"status": models.StatusDispatched})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "NO_ORDERS_SELECTED", decodeResponse(t, w)["code"])
}

func TestGetOrderStats(t *testing.T) {
	router, db, _ := setupAdminOrderRouter(t)
	maria := testutil.CreateCustomer(t, db, "maria", nil)
	testutil.CreateOrder(t, db, maria, "S-1", models.StatusPreAlert, 10)
	testutil.CreateOrder(t, db, maria, "S-2", models.StatusInCustoms, 10)
	testutil.CreateOrder(t, db, maria, "S-3", models.StatusInCustoms, 10)

	w := performRequest(router, http.MethodGet, "/api/admin/orders/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := responseData(t, w)
	counts := data["counts"].(map[string]interface{})
	var sum float64
	for _, count := range counts {
		sum += count.(float64)
	}
	assert.Equal(t, float64(3), data["total"])
	assert.Equal(t, data["total"], sum)
	assert.Equal(t, float64(2), counts[models.StatusInCustoms])
	assert.Equal(t, float64(0), counts[models.StatusDelivered])
}

func TestAdminQuote(t *testing.T) {
	router, db, _ := setupAdminOrderRouter(t)
	maria := testutil.CreateCustomer(t, db, "maria", testutil.Float(3.50))

	w := performRequest(router, http.MethodGet, fmt.Sprintf("/api/admin/quote?user_id=%d&weight=3.75", maria.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := responseData(t, w)
	assert.Equal(t, 3.5, data["price_per_lb"])
	assert.Equal(t, 13.13, data["total"])
	assert.Equal(t, services.PriceSourceCustomer, data["source"])

	w = performRequest(router, http.MethodGet, "/api/admin/quote?weight=1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIssueInvoice(t *testing.T) {
	router, db, _ := setupAdminOrderRouter(t)
	maria := testutil.CreateCustomer(t, db, "maria", nil)
	order := testutil.CreateOrder(t, db, maria, "F-1", models.StatusAwaitingPay, 20)
	path := fmt.Sprintf("/api/admin/orders/%d/invoice", order.ID)

	w := performRequest(router, http.MethodPost, path, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := responseData(t, w)
	assert.Equal(t, "AB-000001", data["number"])
	assert.Equal(t, float64(20), data["total"])

	w = performRequest(router, http.MethodPost, path, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}
