package controllers

import (
	"net/http"

	"github.com/americanbox/americanbox-api/config"
	"github.com/americanbox/americanbox-api/middleware"
	"github.com/americanbox/americanbox-api/models"
	"github.com/americanbox/americanbox-api/services"
	"github.com/gin-gonic/gin"
)

// PreAlertRequest announces a package the customer bought and expects at the warehouse
type PreAlertRequest struct {
	TrackingCode string   `json:"tracking_code" binding:"required"`
	ProviderID   *uint    `json:"provider_id"`
	AddressID    *uint    `json:"address_id"`
	Description  string   `json:"description"`
	WeightLbs    *float64 `json:"weight_lbs" binding:"omitempty,gt=0,lte=99999999.99"`
}

// ProfileRequest lists the profile fields a customer may change. The rate is admin-only.
type ProfileRequest struct {
	Names   *string `json:"names"`
	Email   *string `json:"email" binding:"omitempty,email"`
	DNI     *string `json:"dni"`
	Mobile  *string `json:"mobile"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// ClientStats handles GET /api/client/stats
func ClientStats(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	stats, err := services.NewReportService(config.GetDB()).ClientStats(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err, "Failed to load statistics")
		return
	}
	respondOK(c, http.StatusOK, stats)
}

// ClientOrders handles GET /api/client/orders
func ClientOrders(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	filter, err := orderFilterFromQuery(c)
	if err != nil {
		respondValidation(c, err)
		return
	}
	filter.UserID = &userID

	db := config.GetDB()
	orders, total, err := services.NewOrderService(db).List(c.Request.Context(), filter)
	if err != nil {
		handleError(c, err, "Failed to list orders")
		return
	}

	receipts := services.NewReceiptService(db)
	for i := range orders {
		orders[i].User = nil
		receipts.FillURL(c.Request.Context(), &orders[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"data":       orders,
		"pagination": pageMeta(filter, total),
	})
}

// CreatePreAlert handles POST /api/client/orders - the order starts as "Pre alerta"
func CreatePreAlert(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	var req PreAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	order, err := services.NewOrderService(config.GetDB()).Create(c.Request.Context(), services.CreateOrderInput{
		UserID:       userID,
		AddressID:    req.AddressID,
		ProviderID:   req.ProviderID,
		TrackingCode: req.TrackingCode,
		Description:  req.Description,
		Status:       models.StatusPreAlert,
		WeightLbs:    req.WeightLbs,
		Note:         "Pre-alerted by customer",
	})
	if err != nil {
		handleError(c, err, "Failed to create pre-alert")
		return
	}
	middleware.OrdersCreated.WithLabelValues("client").Inc()

	order.User = nil
	respondOK(c, http.StatusCreated, order)
}

// ClientTracking handles GET /api/client/tracking/:guide - only the customer's own orders
func ClientTracking(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	db := config.GetDB()
	order, err := services.NewOrderService(db).FindByGuide(c.Request.Context(), c.Param("guide"), &userID)
	if err != nil {
		handleError(c, err, "Failed to load order")
		return
	}
	services.NewReceiptService(db).FillURL(c.Request.Context(), order)

	order.User = nil
	respondOK(c, http.StatusOK, order)
}

// GetProfile handles GET /api/client/profile
func GetProfile(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	user, err := services.NewAuthService(config.GetDB()).GetUser(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err, "Failed to load profile")
		return
	}
	respondOK(c, http.StatusOK, user)
}

// UpdateProfile handles PUT /api/client/profile
func UpdateProfile(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	customers := services.NewCustomerService(config.GetDB())
	customer, err := customers.ForUser(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err, "Failed to load profile")
		return
	}

	updated, err := customers.Update(c.Request.Context(), customer.ID, services.UpdateCustomerInput{
		Names:   req.Names,
		Email:   req.Email,
		DNI:     req.DNI,
		Mobile:  req.Mobile,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		handleError(c, err, "Failed to update profile")
		return
	}
	respondOK(c, http.StatusOK, updated)
}

// ListAddresses handles GET /api/client/addresses
func ListAddresses(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	addresses, err := services.NewAddressService(config.GetDB()).List(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err, "Failed to list addresses")
		return
	}
	respondOK(c, http.StatusOK, addresses)
}

// CreateAddress handles POST /api/client/addresses
func CreateAddress(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	var req services.AddressInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	address, err := services.NewAddressService(config.GetDB()).Create(c.Request.Context(), userID, req)
	if err != nil {
		handleError(c, err, "Failed to create address")
		return
	}
	respondOK(c, http.StatusCreated, address)
}

// UploadReceipt handles POST /api/client/orders/:id/receipt - multipart field "receipt"
func UploadReceipt(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("receipt")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "A receipt file is required in the \"receipt\" field")
		return
	}

	order, err := services.NewReceiptService(config.GetDB()).Attach(c.Request.Context(), orderID, userID, fileHeader)
	if err != nil {
		handleError(c, err, "Failed to upload receipt")
		return
	}
	respondOK(c, http.StatusOK, order)
}

// ClientQuote handles GET /api/client/quote?weight=
func ClientQuote(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}
	weight, err := queryFloat(c, "weight")
	if err != nil {
		respondValidation(c, err)
		return
	}

	quote, err := services.NewPricingService(config.GetDB()).Quote(c.Request.Context(), userID, weight)
	if err != nil {
		handleError(c, err, "Failed to price order")
		return
	}
	respondOK(c, http.StatusOK, quote)
}

// ClientInvoices handles GET /api/client/invoices
func ClientInvoices(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	invoices, err := services.NewInvoiceService(config.GetDB()).List(c.Request.Context(), &userID, c.Query("status"))
	if err != nil {
		handleError(c, err, "Failed to list invoices")
		return
	}
	respondOK(c, http.StatusOK, invoices)
}

// CreateComplaint handles POST /api/client/complaints
func CreateComplaint(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	var req services.CreateComplaintInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	complaint, err := services.NewComplaintService(config.GetDB()).Create(c.Request.Context(), userID, req)
	if err != nil {
		handleError(c, err, "Failed to file complaint")
		return
	}
	respondOK(c, http.StatusCreated, complaint)
}

// ClientComplaints handles GET /api/client/complaints
func ClientComplaints(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	complaints, err := services.NewComplaintService(config.GetDB()).List(c.Request.Context(), &userID, c.Query("status"))
	if err != nil {
		handleError(c, err, "Failed to list complaints")
		return
	}
	for i := range complaints {
		complaints[i].User = nil
	}
	respondOK(c, http.StatusOK, complaints)
}
