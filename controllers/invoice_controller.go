package controllers

import (
	"net/http"

	"github.com/americanbox/americanbox-api/config"
	"github.com/americanbox/americanbox-api/services"
	"github.com/gin-gonic/gin"
)

// ListInvoices handles GET /api/admin/invoices?status=&user_id=
func ListInvoices(c *gin.Context) {
	userID, err := queryUint(c, "user_id")
	if err != nil {
		respondValidation(c, err)
		return
	}

	invoices, err := services.NewInvoiceService(config.GetDB()).List(c.Request.Context(), userID, c.Query("status"))
	if err != nil {
		handleError(c, err, "Failed to list invoices")
		return
	}
	respondOK(c, http.StatusOK, invoices)
}

// PayInvoice handles PUT /api/admin/invoices/:id/pay
func PayInvoice(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	invoice, err := services.NewInvoiceService(config.GetDB()).MarkPaid(c.Request.Context(), id)
	if err != nil {
		handleError(c, err, "Failed to update invoice")
		return
	}
	respondOK(c, http.StatusOK, invoice)
}
