package controllers

import (
	"net/http"

	"github.com/americanbox/americanbox-api/config"
	"github.com/americanbox/americanbox-api/services"
	"github.com/gin-gonic/gin"
)

// ListComplaints handles GET /api/admin/complaints?status=
func ListComplaints(c *gin.Context) {
	complaints, err := services.NewComplaintService(config.GetDB()).List(c.Request.Context(), nil, c.Query("status"))
	if err != nil {
		handleError(c, err, "Failed to list complaints")
		return
	}
	respondOK(c, http.StatusOK, complaints)
}

// UpdateComplaint handles PUT /api/admin/complaints/:id
func UpdateComplaint(c *gin.Context) {
	adminID, ok := sessionUserID(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateComplaintInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	complaint, err := services.NewComplaintService(config.GetDB()).Respond(c.Request.Context(), id, adminID, req)
	if err != nil {
		handleError(c, err, "Failed to update complaint")
		return
	}
	respondOK(c, http.StatusOK, complaint)
}
