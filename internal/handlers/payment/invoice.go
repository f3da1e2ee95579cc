package payment

import (
	"fmt"
	"log"
	"net/http"

	"bazaar_back_end/internal/handlers"
	"bazaar_back_end/internal/middleware"
	"bazaar_back_end/internal/models"
	"bazaar_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

// GET /orders/:id/invoice renders a PDF, or the HTML source with ?format=html.
func (h *Handler) Invoice(c *gin.Context) {
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	order, err := h.orders.Get(ctx, middleware.CurrentViewer(c), id)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	if models.StatusOf(order.PaymentStatus) != models.StatusPaid {
		handlers.BadRequest(c, "Invoices are only available for paid orders")
		return
	}

	customer, err := h.users.Get(ctx, order.UserID)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	data, err := utils.NewInvoiceData(order, customer)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	html, err := utils.RenderInvoiceHTML(data)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	if c.Query("format") == "html" {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
		return
	}
	if h.pdf == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "PDF rendering is not available"})
		return
	}

	pdf, err := h.pdf.RenderPDF(ctx, html)
	if err != nil {
		log.Printf("❌ Invoice PDF for order %d failed: %v", order.ID, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Unable to render invoice"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="invoice-%d.pdf"`, order.ID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
