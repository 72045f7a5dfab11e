package controllers

import (
	"net/http"
	"time"

	"github.com/americanbox/americanbox-api/config"
	"github.com/americanbox/americanbox-api/models"
	"github.com/americanbox/americanbox-api/services"
	"github.com/gin-gonic/gin"
)

// TrackingEvent is one public step of a shipment
type TrackingEvent struct {
	Status    string    `json:"status"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}

// TrackingView is what anyone holding a guide may see. It carries no personal data.
type TrackingView struct {
	Guide     string          `json:"guide"`
	Status    string          `json:"status"`
	Location  string          `json:"location"`
	WeightLbs *float64        `json:"weight_lbs"`
	Provider  string          `json:"provider"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	History   []TrackingEvent `json:"history"`
}

func newTrackingView(order *models.Order) TrackingView {
	view := TrackingView{
		Guide:     order.Guide,
		Status:    order.Status,
		Location:  order.Location,
		WeightLbs: order.WeightLbs,
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
		History:   make([]TrackingEvent, 0, len(order.History)),
	}
	if order.Provider != nil {
		view.Provider = order.Provider.Name
	}
	for _, h := range order.History {
		view.History = append(view.History, TrackingEvent{
			Status:    h.Status,
			Location:  h.Location,
			CreatedAt: h.CreatedAt,
		})
	}
	return view
}

// TrackOrder handles GET /api/tracking/:guide - public, unauthenticated
func TrackOrder(c *gin.Context) {
	order, err := services.NewOrderService(config.GetDB()).FindByGuide(c.Request.Context(), c.Param("guide"), nil)
	if err != nil {
		handleError(c, err, "Failed to load order")
		return
	}
	respondOK(c, http.StatusOK, newTrackingView(order))
}
