package acceptance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/americanbox/americanbox-api/config"
	"github.com/americanbox/americanbox-api/models"
	"github.com/americanbox/americanbox-api/routes"
	"github.com/americanbox/americanbox-api/services"
	"github.com/americanbox/americanbox-api/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// FlowAcceptanceTestSuite drives a real HTTP server the way the web app does:
// one cookie jar per browser.
type FlowAcceptanceTestSuite struct {
	suite.Suite
	cfg    *config.Config
	db     *gorm.DB
	server *httptest.Server
	cancel context.CancelFunc
}

func TestFlowAcceptanceTestSuite(t *testing.T) {
	suite.Run(t, new(FlowAcceptanceTestSuite))
}

func (s *FlowAcceptanceTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	testutil.MustSetTestEnvironment(s.T())

	s.cfg = testutil.TestConfig()
	s.db = testutil.UseTestDB(s.T())
	s.Require().NoError(services.Seed(context.Background(), s.db))

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.server = httptest.NewServer(routes.SetupRouter(ctx, s.cfg))

	mockS3 := services.NewMockS3Service()
	mockS3.SetAsMockForTesting()
}

func (s *FlowAcceptanceTestSuite) TearDownTest() {
	s.server.Close()
	s.cancel()
	services.SetS3Service(nil)
}

func (s *FlowAcceptanceTestSuite) newBrowser() *http.Client {
	jar, err := cookiejar.New(nil)
	s.Require().NoError(err)
	return &http.Client{Jar: jar}
}

func (s *FlowAcceptanceTestSuite) call(client *http.Client, method, path string, body interface{}) (int, map[string]interface{}) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, s.server.URL+path, reader)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	var response map[string]interface{}
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(&response))
	}
	return resp.StatusCode, response
}

func (s *FlowAcceptanceTestSuite) login(client *http.Client, username, password string) map[string]interface{} {
	status, response := s.call(client, http.MethodPost, "/api/login", map[string]interface{}{
		"username": username,
		"password": password,
	})
	s.Require().Equal(http.StatusOK, status, response)
	return response["data"].(map[string]interface{})
}

func (s *FlowAcceptanceTestSuite) TestCustomerJourney() {
	admin := testutil.CreateAdmin(s.T(), s.db, "admin")
	s.Require().NotZero(admin.ID)

	customer := s.newBrowser()
	backOffice := s.newBrowser()

	// Sign up and log in
	status, response := s.call(customer, http.MethodPost, "/api/register", map[string]interface{}{
		"username": "carla",
		"password": "secret123",
		"names":    "Carla Andrade",
		"email":    "carla@example.com",
		"address":  "Av. República 500",
		"city":     "Quito",
	})
	s.Require().Equal(http.StatusCreated, status, response)
	carlaID := response["data"].(map[string]interface{})["id"].(float64)

	s.Equal("/dashboard", s.login(customer, "carla", "secret123")["redirect"])
	s.Equal("/admin", s.login(backOffice, "admin", testutil.TestPassword)["redirect"])

	// The customer cannot reach the back office
	status, _ = s.call(customer, http.MethodGet, "/api/admin/orders", nil)
	s.Equal(http.StatusForbidden, status)

	// The admin gives the customer a special rate
	status, response = s.call(backOffice, http.MethodGet, "/api/admin/customers?search=carla", nil)
	s.Require().Equal(http.StatusOK, status, response)
	rows := response["data"].([]interface{})
	s.Require().Len(rows, 1)
	customerPath := fmt.Sprintf("/api/admin/customers/%.0f", rows[0].(map[string]interface{})["id"])

	status, response = s.call(backOffice, http.MethodPut, customerPath, map[string]interface{}{"price_per_lb": 3.5})
	s.Require().Equal(http.StatusOK, status, response)

	// The customer pre-alerts a package from a seeded provider
	status, response = s.call(customer, http.MethodGet, "/api/providers", nil)
	s.Require().Equal(http.StatusOK, status)
	providers := response["data"].([]interface{})
	s.Require().Len(providers, len(services.DefaultProviders))
	providerID := providers[0].(map[string]interface{})["id"]

	status, response = s.call(customer, http.MethodPost, "/api/client/orders", map[string]interface{}{
		"tracking_code": "TBA000111",
		"provider_id":   providerID,
	})
	s.Require().Equal(http.StatusCreated, status, response)
	order := response["data"].(map[string]interface{})
	guide := order["guide"].(string)
	orderPath := fmt.Sprintf("/api/admin/orders/%.0f", order["id"])

	// The warehouse weighs it and moves it along
	status, response = s.call(backOffice, http.MethodPut, orderPath, map[string]interface{}{
		"status":     models.StatusReceived,
		"weight_lbs": 3.75,
	})
	s.Require().Equal(http.StatusOK, status, response)
	s.Equal(13.13, response["data"].(map[string]interface{})["total"])

	status, response = s.call(backOffice, http.MethodPut, "/api/admin/orders/bulk", map[string]interface{}{
		"guides": []string{guide},
		"status": models.StatusDispatched,
	})
	s.Require().Equal(http.StatusOK, status, response)

	// Anyone with the guide can follow it
	anonymous := s.newBrowser()
	status, response = s.call(anonymous, http.MethodGet, "/api/tracking/"+guide, nil)
	s.Require().Equal(http.StatusOK, status)
	tracking := response["data"].(map[string]interface{})
	s.Equal(models.StatusDispatched, tracking["status"])
	s.Len(tracking["history"], 3)

	// Invoice, then the dashboard reflects everything
	status, response = s.call(backOffice, http.MethodPost, orderPath+"/invoice", nil)
	s.Require().Equal(http.StatusCreated, status, response)

	status, response = s.call(customer, http.MethodGet, "/api/client/invoices", nil)
	s.Require().Equal(http.StatusOK, status)
	s.Len(response["data"], 1)

	status, response = s.call(customer, http.MethodGet, "/api/client/stats", nil)
	s.Require().Equal(http.StatusOK, status)
	stats := response["data"].(map[string]interface{})
	s.Equal(float64(1), stats["total"])
	s.Equal(13.13, stats["total_spent"])

	status, response = s.call(backOffice, http.MethodGet, "/api/admin/reports/receivables", nil)
	s.Require().Equal(http.StatusOK, status)
	receivables := response["data"].([]interface{})
	s.Require().Len(receivables, 1)
	s.Equal(carlaID, receivables[0].(map[string]interface{})["user_id"])

	// Logging out ends the session
	status, _ = s.call(customer, http.MethodPost, "/api/logout", nil)
	s.Equal(http.StatusOK, status)
	status, _ = s.call(customer, http.MethodGet, "/api/me", nil)
	s.Equal(http.StatusUnauthorized, status)
}

func (s *FlowAcceptanceTestSuite) TestPublicEndpoints() {
	client := s.newBrowser()

	status, response := s.call(client, http.MethodGet, "/api/health", nil)
	s.Require().Equal(http.StatusOK, status)
	s.Equal("ok", response["data"].(map[string]interface{})["status"])

	status, response = s.call(client, http.MethodGet, "/api/locations", nil)
	s.Require().Equal(http.StatusOK, status)
	s.Len(response["data"].(map[string]interface{})["locations"], 2)

	status, response = s.call(client, http.MethodGet, "/api/tracking/AB000000-NOPE", nil)
	s.Equal(http.StatusNotFound, status)
	s.Equal(false, response["ok"])

	resp, err := http.Get(s.server.URL + "/metrics")
	s.Require().NoError(err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(string(body), "americanbox_http_requests_total")
}
