package controllers

import (
	"net/http"
	"testing"

	"github.com/americanbox/americanbox-api/models"
	"github.com/americanbox/americanbox-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackOrder(t *testing.T) {
	db := setupControllerTest(t)
	customer := testutil.CreateCustomer(t, db, "maria", nil)
	provider := testutil.CreateProvider(t, db, "Amazon")
	order := testutil.CreateOrder(t, db, customer, "AB-0001", models.StatusPreAlert, 13.13)
	require.NoError(t, db.Model(order).Update("provider_id", provider.ID).Error)
	require.NoError(t, db.Create(&models.OrderHistory{OrderID: order.ID, Status: models.StatusReceived, Location: models.LocationMiami}).Error)
	require.NoError(t, db.Model(order).Update("status", models.StatusReceived).Error)

	router := setupTestRouter()
	router.GET("/api/tracking/:guide", TrackOrder)

	tests := []struct {
		name           string
		guide          string
		expectedStatus int
		checkResponse  func(t *testing.T, response map[string]interface{})
	}{
		{
			name:           "Known guide returns status and history",
			guide:          "AB-0001",
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				data := response["data"].(map[string]interface{})
				assert.Equal(t, "AB-0001", data["guide"])
				assert.Equal(t, models.StatusReceived, data["status"])
				assert.Equal(t, "Amazon", data["provider"])

				history := data["history"].([]interface{})
				require.Len(t, history, 2)
				assert.Equal(t, models.StatusPreAlert, history[0].(map[string]interface{})["status"])
				assert.Equal(t, models.StatusReceived, history[1].(map[string]interface{})["status"])

				// Public tracking exposes no customer data
				assert.NotContains(t, data, "user")
				assert.NotContains(t, data, "total")
				assert.NotContains(t, data, "address")
			},
		},
		{
			name:           "Unknown guide returns 404",
			guide:          "NOPE",
			expectedStatus: http.StatusNotFound,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				assert.Equal(t, false, response["ok"])
				assert.Equal(t, "ORDER_NOT_FOUND", response["code"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, http.MethodGet, "/api/tracking/"+tt.guide, nil)
			assert.Equal(t, tt.expectedStatus, w.Code)
			tt.checkResponse(t, decodeResponse(t, w))
		})
	}
}
