package payment

import (
	"net/http"

	"bazaar_back_end/internal/handlers"
	"bazaar_back_end/internal/middleware"
	"bazaar_back_end/internal/models"
	"bazaar_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

const labelSize = 256

type shipmentRequest struct {
	TrackingID string `json:"tracking_id"`
}

// PUT /shipment/orders/:id/shipment
func (h *Handler) ShipOrder(c *gin.Context) {
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return
	}

	var input shipmentRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			handlers.BadRequest(c, "Invalid shipment data")
			return
		}
	}
	if input.TrackingID == "" {
		input.TrackingID = c.Query("tracking_id")
	}

	order, err := h.orders.Ship(c.Request.Context(), id, input.TrackingID)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":         "Order shipped",
		"order_id":        order.ID,
		"tracking_id":     models.StatusOf(order.TrackingID),
		"shipment_status": models.StatusOf(order.ShipmentStatus),
	})
}

// PUT /shipment/orders/:id/deliver
func (h *Handler) DeliverOrder(c *gin.Context) {
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return
	}

	order, err := h.orders.Deliver(c.Request.Context(), id)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":         "Order delivered",
		"order_id":        order.ID,
		"shipment_status": models.StatusOf(order.ShipmentStatus),
	})
}

// GET /shipment/orders/:id/label.png
func (h *Handler) ShippingLabel(c *gin.Context) {
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return
	}

	order, err := h.orders.Get(c.Request.Context(), middleware.CurrentViewer(c), id)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	if order.TrackingID == nil {
		handlers.BadRequest(c, "Order has no tracking ID yet")
		return
	}

	png, err := utils.TrackingQRPNG(*order.TrackingID, labelSize)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
