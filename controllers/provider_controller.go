package controllers

import (
	"net/http"

	"github.com/americanbox/americanbox-api/config"
	"github.com/americanbox/americanbox-api/services"
	"github.com/gin-gonic/gin"
)

// ListProviders handles GET /api/providers and GET /api/admin/providers
func ListProviders(c *gin.Context) {
	providers, err := services.NewProviderService(config.GetDB()).List(c.Request.Context())
	if err != nil {
		handleError(c, err, "Failed to list providers")
		return
	}
	respondOK(c, http.StatusOK, providers)
}

// GetProvider handles GET /api/admin/providers/:id
func GetProvider(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	provider, err := services.NewProviderService(config.GetDB()).Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err, "Failed to load provider")
		return
	}
	respondOK(c, http.StatusOK, provider)
}

// CreateProvider handles POST /api/admin/providers
func CreateProvider(c *gin.Context) {
	var req services.ProviderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	provider, err := services.NewProviderService(config.GetDB()).Create(c.Request.Context(), req)
	if err != nil {
		handleError(c, err, "Failed to create provider")
		return
	}
	respondOK(c, http.StatusCreated, provider)
}

// UpdateProvider handles PUT /api/admin/providers/:id
func UpdateProvider(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.ProviderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	provider, err := services.NewProviderService(config.GetDB()).Update(c.Request.Context(), id, req)
	if err != nil {
		handleError(c, err, "Failed to update provider")
		return
	}
	respondOK(c, http.StatusOK, provider)
}

// DeleteProvider handles DELETE /api/admin/providers/:id
func DeleteProvider(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := services.NewProviderService(config.GetDB()).Delete(c.Request.Context(), id); err != nil {
		handleError(c, err, "Failed to delete provider")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"id": id})
}
