package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/americanbox/americanbox-api/config"
	"github.com/americanbox/americanbox-api/logger"
	"github.com/americanbox/americanbox-api/models"
	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Session token issuer and audience.
const (
	SessionIssuer   = "americanbox-api"
	SessionAudience = "americanbox"
)

// CustomClaims contains the application data carried by a session token.
type CustomClaims struct {
	Role     string `json:"role"`
	Username string `json:"username"`
}

// Validate rejects tokens without a role.
func (c CustomClaims) Validate(ctx context.Context) error {
	if c.Role == "" {
		return errors.New("session token has no role")
	}
	return nil
}

// IsAdmin reports whether the token was issued to a back-office user.
func (c CustomClaims) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}

type sessionClaims struct {
	CustomClaims
	jwt.RegisteredClaims
}

// IssueSessionToken signs an HS256 session token for user.
func IssueSessionToken(cfg *config.Config, user *models.User, now time.Time) (string, time.Time, error) {
	role := user.Role
	if user.Admin() {
		role = models.RoleAdmin
	}

	expires := now.Add(cfg.SessionTTL)
	claims := sessionClaims{
		CustomClaims: CustomClaims{Role: role, Username: user.Username},
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			Issuer:    SessionIssuer,
			Audience:  jwt.ClaimStrings{SessionAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// SetSessionCookie writes the session cookie; an empty token with maxAge < 0 clears it.
func SetSessionCookie(c *gin.Context, cfg *config.Config, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.SessionCookie, token, maxAge, "/", "", cfg.IsProduction(), true)
}

// RequireSession validates the session token taken from the Authorization
// header or the session cookie and stores the claims in the Gin context.
func RequireSession(cfg *config.Config) gin.HandlerFunc {
	secret := []byte(cfg.JWTSecret)
	keyFunc := func(ctx context.Context) (interface{}, error) {
		return secret, nil
	}

	jwtValidator, err := validator.New(
		keyFunc,
		validator.HS256,
		SessionIssuer,
		[]string{SessionAudience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &CustomClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to set up the session validator")
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Log.WithError(err).WithField("path", r.URL.Path).Debug("session rejected")

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusUnauthorized)
		if _, writeErr := w.Write([]byte(`{"ok":false,"error":"Authentication required","code":"UNAUTHORIZED"}`)); writeErr != nil {
			logger.Log.WithError(writeErr).Warn("failed to write error response")
		}
	}

	checker := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
		jwtmiddleware.WithTokenExtractor(jwtmiddleware.MultiTokenExtractor(
			jwtmiddleware.AuthHeaderTokenExtractor,
			jwtmiddleware.CookieTokenExtractor(cfg.SessionCookie),
		)),
	)

	return func(c *gin.Context) {
		authorized := false
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
			if !ok {
				return
			}
			c.Set("user_id", claims.RegisteredClaims.Subject)
			c.Set("validated_claims", claims)
			authorized = true
		}

		checker.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)
		if !authorized {
			if !c.Writer.Written() {
				c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "Authentication required", "code": "UNAUTHORIZED"})
			}
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin allows only sessions issued to admins. It must run after RequireSession.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := GetCustomClaims(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"ok":    false,
				"error": "Could not retrieve session claims",
				"code":  "MISSING_CLAIMS",
			})
			c.Abort()
			return
		}

		if !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{
				"ok":    false,
				"error": "Administrator access required",
				"code":  "FORBIDDEN",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetUserID extracts the session user's ID from the Gin context
func GetUserID(c *gin.Context) (uint, error) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	}

	userIDStr, ok := userID.(string)
	if !ok {
		return 0, &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not a string"}
	}

	id, err := strconv.ParseUint(userIDStr, 10, 64)
	if err != nil || id == 0 {
		return 0, &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not numeric"}
	}
	return uint(id), nil
}

// GetClaims extracts the validated session claims from the Gin context
func GetClaims(c *gin.Context) (*validator.ValidatedClaims, error) {
	claims, exists := c.Get("validated_claims")
	if !exists {
		return nil, &AuthError{Code: "MISSING_CLAIMS", Message: "Claims not found in context"}
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return validatedClaims, nil
}

// GetCustomClaims returns the application claims of the session
func GetCustomClaims(c *gin.Context) (*CustomClaims, error) {
	claims, err := GetClaims(c)
	if err != nil {
		return nil, err
	}
	custom, ok := claims.CustomClaims.(*CustomClaims)
	if !ok || custom == nil {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}
	return custom, nil
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
