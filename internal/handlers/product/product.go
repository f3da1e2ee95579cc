package product

import (
	"log"
	"net/http"

	"bazaar_back_end/internal/handlers"
	"bazaar_back_end/internal/middleware"
	"bazaar_back_end/internal/services"

	"github.com/gin-gonic/gin"
)

// POST /product/products
func (h *Handler) CreateProduct(c *gin.Context) {
	var input services.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		handlers.BadRequest(c, "Invalid product data")
		return
	}

	viewer := middleware.CurrentViewer(c)
	p, err := h.catalog.Create(c.Request.Context(), viewer, input)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	log.Printf("✅ Product %d created by user %d", p.ID, viewer.UserID)
	c.JSON(http.StatusCreated, handlers.NewProductView(p, viewer))
}

// GET /product/products?skip&limit
func (h *Handler) ListProducts(c *gin.Context) {
	skip, ok := handlers.QueryInt(c, "skip", 0)
	if !ok {
		return
	}
	limit, ok := handlers.QueryInt(c, "limit", 10)
	if !ok {
		return
	}

	viewer := middleware.CurrentViewer(c)
	products, err := h.catalog.List(c.Request.Context(), viewer, skip, limit)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handlers.NewProductViews(products, viewer))
}

// GET /product/products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return
	}

	viewer := middleware.CurrentViewer(c)
	p, err := h.catalog.Get(c.Request.Context(), viewer, id)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handlers.NewProductView(p, viewer))
}

// PUT /product/products/:id
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return
	}
	var patch services.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		handlers.BadRequest(c, "Invalid product data")
		return
	}

	viewer := middleware.CurrentViewer(c)
	p, err := h.catalog.Update(c.Request.Context(), viewer, id, patch)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handlers.NewProductView(p, viewer))
}

// DELETE /product/products/:id/delete
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return
	}
	viewer := middleware.CurrentViewer(c)
	if err := h.catalog.SoftDelete(c.Request.Context(), viewer, id); err != nil {
		handlers.RespondError(c, err)
		return
	}
	log.Printf("🗑️ Product %d deactivated by user %d", id, viewer.UserID)
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// GET /product/admin-product-analysis
func (h *Handler) ProductAnalysis(c *gin.Context) {
	rows, err := h.catalog.Analysis(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	viewer := middleware.CurrentViewer(c)
	out := make([]gin.H, 0, len(rows))
	for i := range rows {
		out = append(out, gin.H{
			"product": handlers.NewProductView(&rows[i].Product, viewer),
			"reviews": handlers.ReviewsIST(rows[i].Reviews),
		})
	}
	c.JSON(http.StatusOK, out)
}
