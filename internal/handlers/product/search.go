package product

import (
	"net/http"
	"strconv"

	"bazaar_back_end/internal/handlers"
	"bazaar_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
)

// GET /product/products/search?name=
func (h *Handler) SearchProducts(c *gin.Context) {
	viewer := middleware.CurrentViewer(c)
	products, err := h.catalog.Search(c.Request.Context(), viewer, c.Query("name"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handlers.NewProductViews(products, viewer))
}

// GET /product/products/category?category=
func (h *Handler) ProductsByCategory(c *gin.Context) {
	viewer := middleware.CurrentViewer(c)
	products, err := h.catalog.ByCategory(c.Request.Context(), viewer, c.Query("category"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handlers.NewProductViews(products, viewer))
}

func queryFloat(c *gin.Context, name string, def float64) (float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		handlers.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return v, true
}

// GET /product/products/rating?min_rating=&max_rating=
func (h *Handler) ProductsByRating(c *gin.Context) {
	min, ok := queryFloat(c, "min_rating", 0)
	if !ok {
		return
	}
	max, ok := queryFloat(c, "max_rating", 5)
	if !ok {
		return
	}

	viewer := middleware.CurrentViewer(c)
	products, err := h.catalog.ByRating(c.Request.Context(), viewer, min, max)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handlers.NewProductViews(products, viewer))
}
