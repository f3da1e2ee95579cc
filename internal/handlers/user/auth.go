package user

import (
	"log"
	"net/http"

	"bazaar_back_end/internal/handlers"
	"bazaar_back_end/internal/middleware"
	"bazaar_back_end/internal/services"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /auth/register
func (h *Handler) Register(c *gin.Context) {
	var input services.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		handlers.BadRequest(c, "Invalid registration data")
		return
	}

	user, err := h.auth.Register(c.Request.Context(), input)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handlers.UserIST(*user))
}

// POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var input loginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		handlers.BadRequest(c, "Username and password are required")
		return
	}

	token, err := h.auth.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, token)
}

// POST /auth/logout
func (h *Handler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), middleware.CurrentClaims(c)); err != nil {
		handlers.RespondError(c, err)
		return
	}

	log.Printf("👋 User %d logged out", middleware.CurrentUserID(c))
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}
