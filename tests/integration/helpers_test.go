package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/americanbox/americanbox-api/config"
	"github.com/americanbox/americanbox-api/models"
	"github.com/americanbox/americanbox-api/routes"
	"github.com/americanbox/americanbox-api/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// APISuite runs requests through the full router with real session cookies.
type APISuite struct {
	suite.Suite
	cfg    *config.Config
	db     *gorm.DB
	router *gin.Engine
	cancel context.CancelFunc
}

func (s *APISuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	testutil.MustSetTestEnvironment(s.T())

	s.cfg = testutil.TestConfig()
	s.db = testutil.UseTestDB(s.T())

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.router = routes.SetupRouter(ctx, s.cfg)
}

func (s *APISuite) TearDownTest() {
	s.cancel()
}

// do sends body as JSON, with user's session cookie when user is set.
func (s *APISuite) do(user *models.User, method, path string, body interface{}) *httptest.ResponseRecorder {
	var payload *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		payload = bytes.NewBuffer(raw)
	}

	var req *http.Request
	if payload != nil {
		req = testutil.NewSessionRequest(s.T(), s.cfg, user, method, path, payload)
	} else {
		req = testutil.NewSessionRequest(s.T(), s.cfg, user, method, path, nil)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *APISuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response
}

func (s *APISuite) data(w *httptest.ResponseRecorder) map[string]interface{} {
	response := s.decode(w)
	s.Require().Equal(true, response["ok"], w.Body.String())
	return response["data"].(map[string]interface{})
}
