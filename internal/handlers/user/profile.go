package user

import (
	"net/http"

	"bazaar_back_end/internal/handlers"
	"bazaar_back_end/internal/middleware"
	"bazaar_back_end/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /user/profile
func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handlers.UserIST(*user))
}

// PUT /user/profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	var input services.UserUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		handlers.BadRequest(c, "Invalid profile data")
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), middleware.CurrentUserID(c), input)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handlers.UserIST(*user))
}
