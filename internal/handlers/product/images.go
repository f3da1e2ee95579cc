package product

import (
	"net/http"

	"bazaar_back_end/internal/handlers"
	"bazaar_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
)

// POST /product/products/:id/image (multipart field "file")
func (h *Handler) UploadImage(c *gin.Context) {
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		handlers.BadRequest(c, "No file provided")
		return
	}
	if file.Size > MaxImageSize {
		handlers.BadRequest(c, "File too large (max 5MB)")
		return
	}

	src, err := file.Open()
	if err != nil {
		handlers.BadRequest(c, "Unable to read file")
		return
	}
	defer src.Close()

	viewer := middleware.CurrentViewer(c)
	p, err := h.catalog.UploadImage(c.Request.Context(), viewer, id, file.Filename, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handlers.NewProductView(p, viewer))
}
