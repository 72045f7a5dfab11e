package controllers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/americanbox/americanbox-api/logger"
	"github.com/americanbox/americanbox-api/middleware"
	"github.com/americanbox/americanbox-api/services"
	"github.com/americanbox/americanbox-api/utils"
	"github.com/gin-gonic/gin"
)

func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"ok":   true,
		"data": data,
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"ok":    false,
		"error": message,
		"code":  code,
	})
}

func respondValidation(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"ok":      false,
		"error":   "Invalid request data",
		"code":    "VALIDATION_ERROR",
		"details": err.Error(),
	})
}

// handleError answers with the status carried by a service error, or 500.
func handleError(c *gin.Context, err error, message string) {
	if appErr, ok := services.AsAppError(err); ok {
		respondError(c, appErr.Status, appErr.Code, appErr.Message)
		return
	}

	var uploadErr *utils.FileUploadError
	if errors.As(err, &uploadErr) {
		respondError(c, http.StatusBadRequest, uploadErr.Code, uploadErr.Message)
		return
	}

	logger.Log.WithError(err).WithField("path", c.FullPath()).Error(message)
	respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", message)
}

// sessionUserID returns the authenticated user's ID or answers 401.
func sessionUserID(c *gin.Context) (uint, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return 0, false
	}
	return userID, true
}

// paramID parses a positive numeric path parameter or answers 400.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func queryUint(c *gin.Context, name string) (*uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return nil, errors.New(name + " must be a positive integer")
	}
	id := uint(v)
	return &id, nil
}

func queryFloat(c *gin.Context, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, errors.New(name + " must be a number")
	}
	return &v, nil
}

// queryDate parses YYYY-MM-DD. end moves the date to the start of the next day.
func queryDate(c *gin.Context, name string, end bool) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, errors.New(name + " must be a date formatted YYYY-MM-DD")
	}
	if end {
		t = t.AddDate(0, 0, 1)
	}
	return &t, nil
}

// orderFilterFromQuery reads status, location, user_id, search/guide, from, to, page and limit.
func orderFilterFromQuery(c *gin.Context) (services.OrderFilter, error) {
	filter := services.OrderFilter{
		Status:   c.Query("status"),
		Location: c.Query("location"),
		Search:   c.Query("search"),
	}
	if guide := c.Query("guide"); guide != "" {
		filter.Search = guide
	}

	var err error
	if filter.UserID, err = queryUint(c, "user_id"); err != nil {
		return filter, err
	}
	if filter.From, err = queryDate(c, "from", false); err != nil {
		return filter, err
	}
	if filter.To, err = queryDate(c, "to", true); err != nil {
		return filter, err
	}
	if page := c.Query("page"); page != "" {
		if filter.Page, err = strconv.Atoi(page); err != nil {
			return filter, errors.New("page must be an integer")
		}
	}
	if limit := c.Query("limit"); limit != "" {
		if filter.Limit, err = strconv.Atoi(limit); err != nil {
			return filter, errors.New("limit must be an integer")
		}
	}
	return filter, nil
}

func pageMeta(filter services.OrderFilter, total int64) gin.H {
	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	return gin.H{"page": page, "limit": limit, "total": total}
}
