package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/americanbox/americanbox-api/config"
	"github.com/americanbox/americanbox-api/services"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// ListCustomers handles GET /api/admin/customers?search=&page=&limit=
func ListCustomers(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	customers, total, err := services.NewCustomerService(config.GetDB()).List(c.Request.Context(), c.Query("search"), page, limit)
	if err != nil {
		handleError(c, err, "Failed to list customers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"data":       customers,
		"pagination": pageMeta(services.OrderFilter{Page: page, Limit: limit}, total),
	})
}

// GetCustomer handles GET /api/admin/customers/:id
func GetCustomer(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	customer, err := services.NewCustomerService(config.GetDB()).Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err, "Failed to load customer")
		return
	}
	respondOK(c, http.StatusOK, customer)
}

// CreateCustomer handles POST /api/admin/customers - profile, login and first address
func CreateCustomer(c *gin.Context) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	customer, err := services.NewCustomerService(config.GetDB()).Create(c.Request.Context(), req)
	if err != nil {
		handleError(c, err, "Failed to create customer")
		return
	}
	respondOK(c, http.StatusCreated, customer)
}

// UpdateCustomer handles PUT /api/admin/customers/:id. "price_per_lb": null removes the override.
func UpdateCustomer(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondValidation(c, err)
		return
	}

	var req services.UpdateCustomerInput
	if err := binding.JSON.BindBody(body, &req); err != nil {
		respondValidation(c, err)
		return
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err == nil {
		if price, present := raw["price_per_lb"]; present && bytes.Equal(bytes.TrimSpace(price), []byte("null")) {
			req.ClearPricePerLb = true
		}
	}

	customer, err := services.NewCustomerService(config.GetDB()).Update(c.Request.Context(), id, req)
	if err != nil {
		handleError(c, err, "Failed to update customer")
		return
	}
	respondOK(c, http.StatusOK, customer)
}

// DeleteCustomer handles DELETE /api/admin/customers/:id
func DeleteCustomer(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := services.NewCustomerService(config.GetDB()).Delete(c.Request.Context(), id); err != nil {
		handleError(c, err, "Failed to delete customer")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"id": id})
}
