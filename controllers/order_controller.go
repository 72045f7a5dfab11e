package controllers

import (
	"net/http"

	"github.com/americanbox/americanbox-api/config"
	"github.com/americanbox/americanbox-api/middleware"
	"github.com/americanbox/americanbox-api/models"
	"github.com/americanbox/americanbox-api/services"
	"github.com/gin-gonic/gin"
)

// ListOrders handles GET /api/admin/orders
func ListOrders(c *gin.Context) {
	filter, err := orderFilterFromQuery(c)
	if err != nil {
		respondValidation(c, err)
		return
	}

	orders, total, err := services.NewOrderService(config.GetDB()).List(c.Request.Context(), filter)
	if err != nil {
		handleError(c, err, "Failed to list orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"data":       orders,
		"pagination": pageMeta(filter, total),
	})
}

// GetOrder handles GET /api/admin/orders/:id - includes the tracking history
func GetOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	order, err := services.NewOrderService(db).Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err, "Failed to load order")
		return
	}
	services.NewReceiptService(db).FillURL(c.Request.Context(), order)

	respondOK(c, http.StatusOK, order)
}

// CreateOrder handles POST /api/admin/orders
func CreateOrder(c *gin.Context) {
	var req services.CreateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	order, err := services.NewOrderService(config.GetDB()).Create(c.Request.Context(), req)
	if err != nil {
		handleError(c, err, "Failed to create order")
		return
	}
	middleware.OrdersCreated.WithLabelValues("admin").Inc()

	respondOK(c, http.StatusCreated, order)
}

// UpdateOrder handles PUT /api/admin/orders/:id
func UpdateOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	order, err := services.NewOrderService(config.GetDB()).Update(c.Request.Context(), id, req)
	if err != nil {
		handleError(c, err, "Failed to update order")
		return
	}
	if req.Status != nil {
		middleware.OrderStatusChanges.WithLabelValues(order.Status).Inc()
	}

	respondOK(c, http.StatusOK, order)
}

// DeleteOrder handles DELETE /api/admin/orders/:id
func DeleteOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := services.NewOrderService(config.GetDB()).Delete(c.Request.Context(), id); err != nil {
		handleError(c, err, "Failed to delete order")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"id": id})
}

// GetBulkOrders handles GET /api/admin/orders/bulk - choices and orders still open for a bulk update
func GetBulkOrders(c *gin.Context) {
	filter, err := orderFilterFromQuery(c)
	if err != nil {
		respondValidation(c, err)
		return
	}
	filter.Open = filter.Status == ""
	if filter.Limit == 0 {
		filter.Limit = 500
	}

	orders, total, err := services.NewOrderService(config.GetDB()).List(c.Request.Context(), filter)
	if err != nil {
		handleError(c, err, "Failed to list orders")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"statuses":  models.OrderStatuses,
		"locations": models.Locations,
		"orders":    orders,
		"total":     total,
	})
}

// BulkUpdateOrders handles PUT /api/admin/orders/bulk
func BulkUpdateOrders(c *gin.Context) {
	var req services.BulkUpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	updated, err := services.NewOrderService(config.GetDB()).BulkUpdate(c.Request.Context(), req)
	if err != nil {
		handleError(c, err, "Failed to update orders")
		return
	}
	middleware.OrderStatusChanges.WithLabelValues(req.Status).Add(float64(updated))

	respondOK(c, http.StatusOK, gin.H{
		"updated": updated,
		"status":  req.Status,
	})
}

// GetOrderStats handles GET /api/admin/orders/stats - per-status counts that add up to total
func GetOrderStats(c *gin.Context) {
	summary, err := services.NewOrderService(config.GetDB()).StatusCounts(c.Request.Context(), nil)
	if err != nil {
		handleError(c, err, "Failed to count orders")
		return
	}
	respondOK(c, http.StatusOK, summary)
}

// AdminQuote handles GET /api/admin/quote?user_id=&weight=
func AdminQuote(c *gin.Context) {
	userID, err := queryUint(c, "user_id")
	if err != nil {
		respondValidation(c, err)
		return
	}
	if userID == nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "user_id is required")
		return
	}
	weight, err := queryFloat(c, "weight")
	if err != nil {
		respondValidation(c, err)
		return
	}

	quote, err := services.NewPricingService(config.GetDB()).Quote(c.Request.Context(), *userID, weight)
	if err != nil {
		handleError(c, err, "Failed to price order")
		return
	}
	respondOK(c, http.StatusOK, quote)
}

// IssueInvoice handles POST /api/admin/orders/:id/invoice
func IssueInvoice(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	invoice, err := services.NewInvoiceService(config.GetDB()).Issue(c.Request.Context(), id)
	if err != nil {
		handleError(c, err, "Failed to issue invoice")
		return
	}
	respondOK(c, http.StatusCreated, invoice)
}
