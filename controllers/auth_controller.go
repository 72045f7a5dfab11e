package controllers

import (
	"net/http"
	"time"

	"github.com/americanbox/americanbox-api/config"
	"github.com/americanbox/americanbox-api/logger"
	"github.com/americanbox/americanbox-api/middleware"
	"github.com/americanbox/americanbox-api/models"
	"github.com/americanbox/americanbox-api/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest represents the request body for changing the password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

// Register handles POST /api/register - creates a customer with login and first address
func Register(c *gin.Context) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	// Self-registered customers always start on the company rate.
	req.PricePerLb = nil

	user, err := services.NewAuthService(config.GetDB()).Register(c.Request.Context(), req)
	if err != nil {
		handleError(c, err, "Failed to register user")
		return
	}

	respondOK(c, http.StatusCreated, user)
}

// Login handles POST /api/login - checks credentials and opens a cookie session
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	user, err := services.NewAuthService(config.GetDB()).Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		middleware.LoginAttempts.WithLabelValues("failure").Inc()
		logger.Log.WithFields(logrus.Fields{
			"username": req.Username,
			"client":   c.ClientIP(),
		}).Warn("login failed")
		handleError(c, err, "Failed to log in")
		return
	}

	cfg := config.GetConfig()
	token, expires, err := middleware.IssueSessionToken(cfg, user, time.Now())
	if err != nil {
		handleError(c, err, "Failed to create session")
		return
	}
	middleware.SetSessionCookie(c, cfg, token, int(cfg.SessionTTL.Seconds()))
	middleware.LoginAttempts.WithLabelValues("success").Inc()

	redirect := "/dashboard"
	if user.Admin() {
		redirect = "/admin"
	}

	respondOK(c, http.StatusOK, gin.H{
		"user":       user,
		"redirect":   redirect,
		"expires_at": expires,
	})
}

// Logout handles POST /api/logout - clears the session cookie
func Logout(c *gin.Context) {
	middleware.SetSessionCookie(c, config.GetConfig(), "", -1)
	respondOK(c, http.StatusOK, gin.H{"message": "Logged out"})
}

// Me handles GET /api/me - returns the session user with profile and addresses
func Me(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	user, err := services.NewAuthService(config.GetDB()).GetUser(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err, "Failed to load user")
		return
	}

	role := models.RoleCustomer
	if user.Admin() {
		role = models.RoleAdmin
	}
	respondOK(c, http.StatusOK, gin.H{
		"user": user,
		"role": role,
	})
}

// ChangePassword handles PUT /api/me/password
func ChangePassword(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	err := services.NewAuthService(config.GetDB()).ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		handleError(c, err, "Failed to change password")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"message": "Password updated"})
}
