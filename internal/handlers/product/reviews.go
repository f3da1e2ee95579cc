package product

import (
	"net/http"

	"bazaar_back_end/internal/handlers"
	"bazaar_back_end/internal/middleware"
	"bazaar_back_end/internal/models"
	"bazaar_back_end/internal/services"

	"github.com/gin-gonic/gin"
)

// POST /reviews/reviews
func (h *Handler) CreateReview(c *gin.Context) {
	var input services.ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		handlers.BadRequest(c, "Invalid review data")
		return
	}

	review, err := h.reviews.Create(c.Request.Context(), middleware.CurrentUserID(c), input)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handlers.ReviewsIST([]models.Review{*review})[0])
}

// GET /reviews/products/:id/reviews
func (h *Handler) ProductReviews(c *gin.Context) {
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return
	}

	out, err := h.reviews.ForProduct(c.Request.Context(), middleware.CurrentViewer(c), id)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	out.Reviews = handlers.ReviewsIST(out.Reviews)
	c.JSON(http.StatusOK, out)
}
