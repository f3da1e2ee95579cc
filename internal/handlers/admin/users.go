package admin

import (
	"log"
	"net/http"

	"bazaar_back_end/internal/handlers"
	"bazaar_back_end/internal/middleware"
	"bazaar_back_end/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /user?skip&limit
func (h *Handler) ListUsers(c *gin.Context) {
	skip, ok := handlers.QueryInt(c, "skip", 0)
	if !ok {
		return
	}
	limit, ok := handlers.QueryInt(c, "limit", 10)
	if !ok {
		return
	}

	page, err := h.users.List(c.Request.Context(), skip, limit)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	page.Users = handlers.UsersIST(page.Users)
	c.JSON(http.StatusOK, page)
}

// GET /user/:id
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return
	}
	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handlers.UserIST(*user))
}

// PUT /user/:id
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return
	}
	var input services.UserUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		handlers.BadRequest(c, "Invalid user data")
		return
	}

	user, err := h.users.Update(c.Request.Context(), id, input)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	if input.Role != nil {
		log.Printf("🔑 User %d set role of user %d to %s", middleware.CurrentUserID(c), id, user.Role)
	}
	c.JSON(http.StatusOK, handlers.UserIST(*user))
}

// DELETE /user/:id
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		handlers.RespondError(c, err)
		return
	}
	log.Printf("🗑️ User %d deleted by %d", id, middleware.CurrentUserID(c))
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
