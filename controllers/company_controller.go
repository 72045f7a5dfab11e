package controllers

import (
	"net/http"

	"github.com/americanbox/americanbox-api/config"
	"github.com/americanbox/americanbox-api/models"
	"github.com/americanbox/americanbox-api/services"
	"github.com/gin-gonic/gin"
)

// LocationSettingsRequest represents the request body for PUT /api/admin/location-settings
type LocationSettingsRequest struct {
	DefaultLocation *string `json:"default_location"`
	MiamiAddress    *string `json:"miami_address"`
	DoralAddress    *string `json:"doral_address"`
}

// WarehouseLocation is a public warehouse address (the customer's casillero)
type WarehouseLocation struct {
	Location string `json:"location"`
	Address  string `json:"address"`
	Default  bool   `json:"default"`
}

// GetCompany handles GET /api/admin/company
func GetCompany(c *gin.Context) {
	settings, err := services.NewSettingsService(config.GetDB()).Get(c.Request.Context())
	if err != nil {
		handleError(c, err, "Failed to load company settings")
		return
	}
	respondOK(c, http.StatusOK, settings)
}

// UpdateCompany handles PUT /api/admin/company
func UpdateCompany(c *gin.Context) {
	var req services.UpdateSettingsInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	settings, err := services.NewSettingsService(config.GetDB()).Update(c.Request.Context(), req)
	if err != nil {
		handleError(c, err, "Failed to update company settings")
		return
	}
	respondOK(c, http.StatusOK, settings)
}

// GetLocationSettings handles GET /api/admin/location-settings
func GetLocationSettings(c *gin.Context) {
	settings, err := services.NewSettingsService(config.GetDB()).Get(c.Request.Context())
	if err != nil {
		handleError(c, err, "Failed to load location settings")
		return
	}
	respondOK(c, http.StatusOK, gin.H{
		"default_location": settings.DefaultLocation,
		"miami_address":    settings.MiamiAddress,
		"doral_address":    settings.DoralAddress,
		"locations":        models.Locations,
	})
}

// UpdateLocationSettings handles PUT /api/admin/location-settings
func UpdateLocationSettings(c *gin.Context) {
	var req LocationSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	settings, err := services.NewSettingsService(config.GetDB()).Update(c.Request.Context(), services.UpdateSettingsInput{
		DefaultLocation: req.DefaultLocation,
		MiamiAddress:    req.MiamiAddress,
		DoralAddress:    req.DoralAddress,
	})
	if err != nil {
		handleError(c, err, "Failed to update location settings")
		return
	}
	respondOK(c, http.StatusOK, gin.H{
		"default_location": settings.DefaultLocation,
		"miami_address":    settings.MiamiAddress,
		"doral_address":    settings.DoralAddress,
	})
}

// ListLocations handles GET /api/locations - public warehouse addresses
func ListLocations(c *gin.Context) {
	settings, err := services.NewSettingsService(config.GetDB()).Get(c.Request.Context())
	if err != nil {
		handleError(c, err, "Failed to load locations")
		return
	}

	locations := make([]WarehouseLocation, 0, len(models.Locations))
	for _, location := range models.Locations {
		locations = append(locations, WarehouseLocation{
			Location: location,
			Address:  settings.LocationAddress(location),
			Default:  location == settings.DefaultLocation,
		})
	}
	respondOK(c, http.StatusOK, gin.H{
		"company":   settings.CompanyName,
		"locations": locations,
	})
}
