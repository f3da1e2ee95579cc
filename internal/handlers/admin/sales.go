package admin

import (
	"net/http"
	"time"

	"bazaar_back_end/internal/handlers"
	"bazaar_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

// GET /sales/total-revenue
func (h *Handler) TotalRevenue(c *gin.Context) {
	total, err := h.sales.TotalRevenue(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_revenue": total})
}

// GET /sales/monthly-revenue?year=
func (h *Handler) MonthlyRevenue(c *gin.Context) {
	year, ok := handlers.QueryInt(c, "year", time.Now().In(utils.IST).Year())
	if !ok {
		return
	}
	months, err := h.sales.MonthlyRevenue(c.Request.Context(), year)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "monthly_revenue": months})
}

// GET /sales/daily-sales-trend?start_date=&end_date=
func (h *Handler) DailySalesTrend(c *gin.Context) {
	days, err := h.sales.DailySalesTrend(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sales_trend": days})
}

// GET /sales/best-products?limit=
func (h *Handler) BestProducts(c *gin.Context) {
	limit, ok := handlers.QueryInt(c, "limit", 5)
	if !ok {
		return
	}
	products, err := h.sales.BestProducts(c.Request.Context(), limit)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"best_products": products})
}

// GET /sales/popular-products?limit=
func (h *Handler) PopularProducts(c *gin.Context) {
	limit, ok := handlers.QueryInt(c, "limit", 5)
	if !ok {
		return
	}
	products, err := h.sales.PopularProducts(c.Request.Context(), limit)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"popular_products": products})
}
