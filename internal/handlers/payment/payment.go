package payment

import (
	"net/http"

	"bazaar_back_end/internal/handlers"
	"bazaar_back_end/internal/middleware"
	"bazaar_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

// POST /payment/orders/:id/pay
func (h *Handler) PayOrder(c *gin.Context) {
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return
	}

	order, err := h.orders.Pay(c.Request.Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Payment successful",
		"order_id":       order.ID,
		"transaction_id": models.StatusOf(order.TransactionID),
		"tracking_id":    models.StatusOf(order.TrackingID),
		"payment_status": models.StatusOf(order.PaymentStatus),
	})
}
