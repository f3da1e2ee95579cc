package user

import (
	"net/http"

	"bazaar_back_end/internal/handlers"
	"bazaar_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
)

// POST /orders/place
func (h *Handler) PlaceOrder(c *gin.Context) {
	order, err := h.orders.Place(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handlers.OrderIST(*order))
}

// GET /orders
func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handlers.OrdersIST(orders))
}

// GET /orders/all
func (h *Handler) ListPaidOrders(c *gin.Context) {
	orders, err := h.orders.ListPaid(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handlers.OrdersIST(orders))
}

// GET /orders/:id
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.Get(c.Request.Context(), middleware.CurrentViewer(c), id)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handlers.OrderIST(*order))
}

// DELETE /orders/:id
func (h *Handler) CancelOrder(c *gin.Context) {
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.orders.Cancel(c.Request.Context(), middleware.CurrentViewer(c), id); err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
}

// GET /orders/:id/timeline
func (h *Handler) OrderTimeline(c *gin.Context) {
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return
	}
	events, err := h.orders.Timeline(c.Request.Context(), middleware.CurrentViewer(c), id)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": id, "events": handlers.EventsIST(events)})
}
