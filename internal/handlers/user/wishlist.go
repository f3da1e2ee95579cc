package user

import (
	"net/http"

	"bazaar_back_end/internal/handlers"
	"bazaar_back_end/internal/middleware"
	"bazaar_back_end/internal/models"
	"bazaar_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

type wishlistRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

func wishlistIST(items []models.WishlistItem) []models.WishlistItem {
	out := make([]models.WishlistItem, 0, len(items))
	for _, it := range items {
		it.Product = handlers.ProductIST(it.Product)
		it.CreatedAt = utils.ToIST(it.CreatedAt)
		out = append(out, it)
	}
	return out
}

// POST /cart/wishlist
func (h *Handler) AddToWishlist(c *gin.Context) {
	var input wishlistRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		handlers.BadRequest(c, "product_id is required")
		return
	}

	item, err := h.cart.AddToWishlist(c.Request.Context(), middleware.CurrentUserID(c), input.ProductID)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, wishlistIST([]models.WishlistItem{*item})[0])
}

// GET /cart/wishlist
func (h *Handler) GetWishlist(c *gin.Context) {
	items, err := h.cart.Wishlist(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, wishlistIST(items))
}

// DELETE /cart/wishlist/:product_id
func (h *Handler) RemoveFromWishlist(c *gin.Context) {
	productID, ok := handlers.ParamID(c, "product_id")
	if !ok {
		return
	}
	if err := h.cart.RemoveFromWishlist(c.Request.Context(), middleware.CurrentUserID(c), productID); err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product removed from wishlist"})
}
