package user

import (
	"net/http"

	"bazaar_back_end/internal/handlers"
	"bazaar_back_end/internal/middleware"
	"bazaar_back_end/internal/models"
	"bazaar_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

type cartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

func cartItemsIST(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, 0, len(items))
	for _, it := range items {
		it.Product = handlers.ProductIST(it.Product)
		it.CreatedAt = utils.ToIST(it.CreatedAt)
		out = append(out, it)
	}
	return out
}

// POST /cart/cart
func (h *Handler) AddToCart(c *gin.Context) {
	var input cartRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		handlers.BadRequest(c, "product_id and quantity are required")
		return
	}
	if input.Quantity == 0 {
		input.Quantity = 1
	}

	item, err := h.cart.Add(c.Request.Context(), middleware.CurrentUserID(c), input.ProductID, input.Quantity)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, cartItemsIST([]models.CartItem{*item})[0])
}

// GET /cart/cart
func (h *Handler) GetCart(c *gin.Context) {
	view, err := h.cart.Get(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	view.CartItems = cartItemsIST(view.CartItems)
	c.JSON(http.StatusOK, view)
}

// DELETE /cart/cart/:product_id
func (h *Handler) RemoveFromCart(c *gin.Context) {
	productID, ok := handlers.ParamID(c, "product_id")
	if !ok {
		return
	}
	if err := h.cart.Remove(c.Request.Context(), middleware.CurrentUserID(c), productID); err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product removed from cart"})
}
