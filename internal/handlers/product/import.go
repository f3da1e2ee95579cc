package product

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"bazaar_back_end/internal/handlers"
	"bazaar_back_end/internal/middleware"
	"bazaar_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"
)

const maxImportBody = 10 << 20

func decodeImport(contentType string, body []byte) ([]services.ProductInput, error) {
	var items []services.ProductInput
	if strings.Contains(contentType, "yaml") {
		err := yaml.Unmarshal(body, &items)
		return items, err
	}
	err := json.Unmarshal(body, &items)
	return items, err
}

// POST /product/products/import accepts a JSON or YAML list of products.
func (h *Handler) ImportProducts(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBody))
	if err != nil {
		handlers.BadRequest(c, "Unable to read body")
		return
	}

	items, err := decodeImport(c.ContentType(), body)
	if err != nil {
		handlers.BadRequest(c, "Invalid product list")
		return
	}

	products, err := h.catalog.Import(c.Request.Context(), items)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"imported": len(products),
		"products": handlers.NewProductViews(products, middleware.CurrentViewer(c)),
	})
}
