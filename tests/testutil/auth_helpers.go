package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/americanbox/americanbox-api/config"
	"github.com/americanbox/americanbox-api/middleware"
	"github.com/americanbox/americanbox-api/models"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// MockValidatedClaims creates validated session claims for testing
func MockValidatedClaims(userID uint, role string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  middleware.SessionIssuer,
			Subject: strconv.FormatUint(uint64(userID), 10),
		},
		CustomClaims: &middleware.CustomClaims{
			Role: role,
		},
	}
}

// SetMockAuthContext sets up a mock authenticated context for testing
func SetMockAuthContext(c *gin.Context, userID uint, role string) {
	claims := MockValidatedClaims(userID, role)
	c.Set("user_id", claims.RegisteredClaims.Subject)
	c.Set("validated_claims", claims)
}

// MockAuthMiddleware authenticates every request as userID with role
func MockAuthMiddleware(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		SetMockAuthContext(c, userID, role)
		c.Next()
	}
}

// SessionToken signs a real session token for user
func SessionToken(t *testing.T, cfg *config.Config, user *models.User) string {
	t.Helper()
	token, _, err := middleware.IssueSessionToken(cfg, user, time.Now())
	require.NoError(t, err)
	return token
}

// NewSessionRequest builds a request carrying user's session cookie
func NewSessionRequest(t *testing.T, cfg *config.Config, user *models.User, method, target string, body io.Reader) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != nil {
		req.AddCookie(&http.Cookie{Name: cfg.SessionCookie, Value: SessionToken(t, cfg, user)})
	}
	return req
}
