package controllers

import (
	"net/http"

	"github.com/americanbox/americanbox-api/config"
	"github.com/americanbox/americanbox-api/services"
	"github.com/gin-gonic/gin"
)

// PackagesReport handles GET /api/admin/reports/packages?from=&to=&status=&location=
func PackagesReport(c *gin.Context) {
	filter, err := orderFilterFromQuery(c)
	if err != nil {
		respondValidation(c, err)
		return
	}

	rows, err := services.NewReportService(config.GetDB()).Packages(c.Request.Context(), filter)
	if err != nil {
		handleError(c, err, "Failed to build report")
		return
	}
	respondOK(c, http.StatusOK, rows)
}

// ClientsReport handles GET /api/admin/reports/clients
func ClientsReport(c *gin.Context) {
	rows, err := services.NewReportService(config.GetDB()).Clients(c.Request.Context())
	if err != nil {
		handleError(c, err, "Failed to build report")
		return
	}
	respondOK(c, http.StatusOK, rows)
}

// OrdersByClientReport handles GET /api/admin/reports/orders/by-client?user_id=
func OrdersByClientReport(c *gin.Context) {
	userID, err := queryUint(c, "user_id")
	if err != nil {
		respondValidation(c, err)
		return
	}
	if userID == nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "user_id is required")
		return
	}

	rows, err := services.NewReportService(config.GetDB()).OrdersByClient(c.Request.Context(), *userID)
	if err != nil {
		handleError(c, err, "Failed to build report")
		return
	}
	respondOK(c, http.StatusOK, rows)
}

// ReceivablesReport handles GET /api/admin/reports/receivables - unpaid invoices per customer
func ReceivablesReport(c *gin.Context) {
	rows, err := services.NewReportService(config.GetDB()).Receivables(c.Request.Context())
	if err != nil {
		handleError(c, err, "Failed to build report")
		return
	}
	respondOK(c, http.StatusOK, rows)
}
