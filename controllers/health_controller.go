package controllers

import (
	"net/http"

	"github.com/americanbox/americanbox-api/config"
	"github.com/gin-gonic/gin"
)

// HealthCheck handles GET /api/health
func HealthCheck(c *gin.Context) {
	respondOK(c, http.StatusOK, gin.H{
		"status":  "ok",
		"message": "AmericanBox API is running",
	})
}

// DatabaseStatus handles GET /api/database/status - checks connectivity and lists tables
func DatabaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to get database instance")
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_CONNECTION_ERROR", "Database connection failed")
		return
	}

	tables, err := db.WithContext(c.Request.Context()).Migrator().GetTables()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_QUERY_ERROR", "Failed to query tables")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"message": "Database connected",
		"driver":  db.Dialector.Name(),
		"tables":  tables,
	})
}
